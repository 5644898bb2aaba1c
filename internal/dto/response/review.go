package response

import (
	"time"

	"ride-marketplace/internal/data/entity"
)

type ReviewResponse struct {
	ID               string    `json:"id"`
	ReviewerID       string    `json:"reviewer_id"`
	ReviewerUsername string    `json:"reviewer_username,omitempty"`
	ReviewedID       string    `json:"reviewed_id"`
	Rating           float64   `json:"rating"`
	Comment          *string   `json:"comment,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Helper converter
func ReviewToResponse(review *entity.Review, reviewerUsername string) ReviewResponse {
	return ReviewResponse{
		ID:               review.ID.String(),
		ReviewerID:       review.ReviewerID.String(),
		ReviewerUsername: reviewerUsername,
		ReviewedID:       review.ReviewedID.String(),
		Rating:           review.Rating,
		Comment:          review.Comment,
		CreatedAt:        review.CreatedAt,
	}
}
