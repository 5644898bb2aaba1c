package response

import (
	"time"

	"ride-marketplace/internal/data/entity"
)

type BookingResponse struct {
	ID            string               `json:"id"`
	RideID        string               `json:"ride_id"`
	PassengerID   string               `json:"passenger_id"`
	SeatsBooked   int                  `json:"seats_booked"`
	Status        entity.BookingStatus `json:"status"`
	PaymentStatus entity.PaymentStatus `json:"payment_status"`
	Ride          *RideResponse        `json:"ride,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`

	// Set on creation only: where and how much to pay
	DepositAddress string  `json:"deposit_address,omitempty"`
	AmountToPay    float64 `json:"amount_to_pay,omitempty"`
}

// Helper converter, ride is optional
func BookingToResponse(booking *entity.Booking, ride *entity.Ride) BookingResponse {
	resp := BookingResponse{
		ID:            booking.ID.String(),
		RideID:        booking.RideID.String(),
		PassengerID:   booking.PassengerID.String(),
		SeatsBooked:   booking.SeatsBooked,
		Status:        booking.Status,
		PaymentStatus: booking.PaymentStatus,
		CreatedAt:     booking.CreatedAt,
	}

	if ride != nil {
		rideResp := RideToResponse(ride, nil)
		resp.Ride = &rideResp
	}

	return resp
}
