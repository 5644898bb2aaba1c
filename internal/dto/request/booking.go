package request

type CreateBookingRequest struct {
	RideID      string `json:"ride_id" validate:"required,uuid4"`
	SeatsBooked int    `json:"seats_booked" validate:"required,min=1"`
}

// UpdateBookingStatusRequest patches status fields; only non-nil fields
// are applied.
type UpdateBookingStatusRequest struct {
	Status        *string `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed cancelled completed"`
	PaymentStatus *string `json:"payment_status,omitempty" validate:"omitempty,oneof=pending paid refunded"`
}

type VerifyPaymentRequest struct {
	TxHash string `json:"tx_hash" validate:"required"`
}
