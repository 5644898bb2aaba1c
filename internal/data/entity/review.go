package entity

import (
	"github.com/google/uuid"
)

type Review struct {
	BaseSimple
	ReviewerID uuid.UUID `db:"reviewer_id"`
	ReviewedID uuid.UUID `db:"reviewed_id"`
	Rating     float64   `db:"rating"` // 1-5
	Comment    *string   `db:"comment"`
}
