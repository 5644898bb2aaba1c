package repository

import (
	"ride-marketplace/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User    UserRepository
	Ride    RideRepository
	Booking BookingRepository
	Review  ReviewRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, log),
		Ride:    NewRideRepository(db, log),
		Booking: NewBookingRepository(db, log),
		Review:  NewReviewRepository(db, log),
	}
}
