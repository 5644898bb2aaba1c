package entity

import (
	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type Booking struct {
	BaseSimple
	RideID        uuid.UUID     `db:"ride_id"`
	PassengerID   uuid.UUID     `db:"passenger_id"`
	SeatsBooked   int           `db:"seats_booked"`
	Status        BookingStatus `db:"status"`
	PaymentStatus PaymentStatus `db:"payment_status"`
}

// CanTransitionTo reports whether the status state machine allows moving
// from the current status to target.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	if s == target {
		return false
	}
	switch s {
	case BookingStatusPending:
		return target == BookingStatusConfirmed || target == BookingStatusCancelled
	case BookingStatusConfirmed:
		return target == BookingStatusCompleted || target == BookingStatusCancelled
	default:
		// cancelled and completed are terminal
		return false
	}
}
