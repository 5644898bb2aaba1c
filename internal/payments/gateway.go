package payments

import (
	"context"

	"github.com/google/uuid"
)

type VerificationStatus string

const (
	VerificationSuccess VerificationStatus = "success"
	VerificationFailure VerificationStatus = "failure"
)

type Verification struct {
	Status  VerificationStatus `json:"status"`
	Details map[string]string  `json:"details,omitempty"`
}

// Gateway is the value-transfer network boundary. Address issuance is
// synchronous and keyed by booking id; verification is an idempotent
// query, safe to repeat for the same reference.
type Gateway interface {
	GetDepositAddress(ctx context.Context, bookingID uuid.UUID) (string, error)
	VerifyTransaction(ctx context.Context, txHash string) (*Verification, error)
}
