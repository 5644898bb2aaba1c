package response

import (
	"time"

	"ride-marketplace/internal/data/entity"
)

type RideResponse struct {
	ID             string             `json:"id"`
	DriverID       string             `json:"driver_id"`
	Driver         *UserResponse      `json:"driver,omitempty"`
	Origin         string             `json:"origin"`
	OriginLat      float64            `json:"origin_lat"`
	OriginLng      float64            `json:"origin_lng"`
	Destination    string             `json:"destination"`
	DestinationLat float64            `json:"destination_lat"`
	DestinationLng float64            `json:"destination_lng"`
	DepartureTime  time.Time          `json:"departure_time"`
	AvailableSeats int                `json:"available_seats"`
	PricePerSeat   float64            `json:"price_per_seat"`
	AcceptsParcels bool               `json:"accepts_parcels"`
	MaxParcelSize  *entity.ParcelSize `json:"max_parcel_size,omitempty"`
	ParcelPrice    *float64           `json:"parcel_price,omitempty"`
	Description    *string            `json:"description,omitempty"`
	IsActive       bool               `json:"is_active"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// Helper converter, driver is optional
func RideToResponse(ride *entity.Ride, driver *entity.User) RideResponse {
	resp := RideResponse{
		ID:             ride.ID.String(),
		DriverID:       ride.DriverID.String(),
		Origin:         ride.Origin,
		OriginLat:      ride.OriginLat,
		OriginLng:      ride.OriginLng,
		Destination:    ride.Destination,
		DestinationLat: ride.DestinationLat,
		DestinationLng: ride.DestinationLng,
		DepartureTime:  ride.DepartureTime,
		AvailableSeats: ride.AvailableSeats,
		PricePerSeat:   ride.PricePerSeat,
		AcceptsParcels: ride.AcceptsParcels,
		MaxParcelSize:  ride.MaxParcelSize,
		ParcelPrice:    ride.ParcelPrice,
		Description:    ride.Description,
		IsActive:       ride.IsActive,
		CreatedAt:      ride.CreatedAt,
		UpdatedAt:      ride.UpdatedAt,
	}

	if driver != nil {
		driverResp := UserToResponse(driver)
		resp.Driver = &driverResp
	}

	return resp
}
