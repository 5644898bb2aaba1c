package usecase

import (
	"ride-marketplace/internal/data/repository"
	"ride-marketplace/internal/events"
	"ride-marketplace/internal/payments"

	"go.uber.org/zap"
)

type Service struct {
	User    UserService
	Ride    RideService
	Booking BookingService
	Review  ReviewService
}

func NewService(repo *repository.Repository, gateway payments.Gateway, publisher events.Publisher, log *zap.Logger) *Service {
	return &Service{
		User:    NewUserService(repo, log),
		Ride:    NewRideService(repo, log),
		Booking: NewBookingService(repo, gateway, publisher, log),
		Review:  NewReviewService(repo, log),
	}
}
