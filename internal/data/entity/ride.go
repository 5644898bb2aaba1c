package entity

import (
	"time"

	"github.com/google/uuid"
)

type ParcelSize string

const (
	ParcelSizeSmall  ParcelSize = "Small"
	ParcelSizeMedium ParcelSize = "Medium"
	ParcelSizeLarge  ParcelSize = "Large"
)

type Ride struct {
	Base
	DriverID       uuid.UUID   `db:"driver_id"`
	Origin         string      `db:"origin"`
	OriginLat      float64     `db:"origin_lat"`
	OriginLng      float64     `db:"origin_lng"`
	Destination    string      `db:"destination"`
	DestinationLat float64     `db:"destination_lat"`
	DestinationLng float64     `db:"destination_lng"`
	DepartureTime  time.Time   `db:"departure_time"`
	AvailableSeats int         `db:"available_seats"` // never negative, mutated only by booking flow
	PricePerSeat   float64     `db:"price_per_seat"`
	AcceptsParcels bool        `db:"accepts_parcels"`
	MaxParcelSize  *ParcelSize `db:"max_parcel_size"`
	ParcelPrice    *float64    `db:"parcel_price"`
	Description    *string     `db:"description"`
	IsActive       bool        `db:"is_active"`
}
