package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	BookingCreated   EventType = "booking_created"
	BookingConfirmed EventType = "booking_confirmed"
	BookingCancelled EventType = "booking_cancelled"
)

type BookingEvent struct {
	Type        EventType `json:"type"`
	BookingID   uuid.UUID `json:"booking_id"`
	RideID      uuid.UUID `json:"ride_id"`
	PassengerID uuid.UUID `json:"passenger_id"`
	Seats       int       `json:"seats"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher emits booking lifecycle events. Publishing is best-effort:
// callers log failures and carry on, the booking itself is already
// committed.
type Publisher interface {
	PublishBookingEvent(ctx context.Context, event BookingEvent) error
	Close() error
}

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishBookingEvent(ctx context.Context, event BookingEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
