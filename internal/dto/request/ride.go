package request

import "time"

type CreateRideRequest struct {
	Origin         string    `json:"origin" validate:"required"`
	OriginLat      float64   `json:"origin_lat"`
	OriginLng      float64   `json:"origin_lng"`
	Destination    string    `json:"destination" validate:"required"`
	DestinationLat float64   `json:"destination_lat"`
	DestinationLng float64   `json:"destination_lng"`
	DepartureTime  time.Time `json:"departure_time" validate:"required"`
	AvailableSeats int       `json:"available_seats" validate:"min=0"`
	PricePerSeat   float64   `json:"price_per_seat" validate:"required,gt=0"`
	AcceptsParcels bool      `json:"accepts_parcels"`
	MaxParcelSize  *string   `json:"max_parcel_size,omitempty" validate:"omitempty,oneof=Small Medium Large"`
	ParcelPrice    *float64  `json:"parcel_price,omitempty" validate:"omitempty,gt=0"`
	Description    *string   `json:"description,omitempty" validate:"omitempty,max=500"`
}

// UpdateRideRequest is an explicit optional-field patch over the driver's
// mutable ride fields.
type UpdateRideRequest struct {
	DepartureTime  *time.Time `json:"departure_time,omitempty"`
	AvailableSeats *int       `json:"available_seats,omitempty" validate:"omitempty,min=0"`
	PricePerSeat   *float64   `json:"price_per_seat,omitempty" validate:"omitempty,gt=0"`
	AcceptsParcels *bool      `json:"accepts_parcels,omitempty"`
	MaxParcelSize  *string    `json:"max_parcel_size,omitempty" validate:"omitempty,oneof=Small Medium Large"`
	ParcelPrice    *float64   `json:"parcel_price,omitempty" validate:"omitempty,gt=0"`
	Description    *string    `json:"description,omitempty" validate:"omitempty,max=500"`
	IsActive       *bool      `json:"is_active,omitempty"`
}
