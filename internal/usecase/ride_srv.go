package usecase

import (
	"context"
	"fmt"
	"time"

	"ride-marketplace/internal/data/entity"
	"ride-marketplace/internal/data/repository"
	"ride-marketplace/internal/dto/request"
	"ride-marketplace/internal/dto/response"
	"ride-marketplace/internal/observability"
	"ride-marketplace/pkg/apperr"
	"ride-marketplace/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RideService interface {
	CreateRide(ctx context.Context, driverID string, req *request.CreateRideRequest) (*response.RideResponse, error)
	SearchRides(ctx context.Context, filter repository.RideFilter, page *request.PaginatedRequest) ([]response.RideResponse, error)
	GetRide(ctx context.Context, rideID string) (*response.RideResponse, error)
	UpdateRide(ctx context.Context, rideID, requesterID string, req *request.UpdateRideRequest) (*response.RideResponse, error)
	DeleteRide(ctx context.Context, rideID, requesterID string) error
}

type rideService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewRideService(repo *repository.Repository, log *zap.Logger) RideService {
	return &rideService{
		repo: repo,
		log:  log.With(zap.String("service", "ride")),
	}
}

func (s *rideService) CreateRide(ctx context.Context, driverID string, req *request.CreateRideRequest) (*response.RideResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create ride validation failed", zap.Any("errors", errs))
		return nil, apperr.Validation("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	driverUUID, err := uuid.Parse(driverID)
	if err != nil {
		return nil, apperr.Validation("invalid driver ID format %s", driverID)
	}

	driver, err := s.repo.User.FindByID(ctx, driverUUID)
	if err != nil {
		return nil, fmt.Errorf("get driver: %w", err)
	}
	if driver == nil {
		return nil, apperr.NotFound("user %s not found", driverID)
	}

	if !driver.Role.CanDrive() {
		return nil, apperr.Authorization("only drivers can create rides")
	}

	var maxParcelSize *entity.ParcelSize
	if req.MaxParcelSize != nil {
		size := entity.ParcelSize(*req.MaxParcelSize)
		maxParcelSize = &size
	}

	now := time.Now()
	ride := &entity.Ride{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		DriverID:       driverUUID,
		Origin:         req.Origin,
		OriginLat:      req.OriginLat,
		OriginLng:      req.OriginLng,
		Destination:    req.Destination,
		DestinationLat: req.DestinationLat,
		DestinationLng: req.DestinationLng,
		DepartureTime:  req.DepartureTime,
		AvailableSeats: req.AvailableSeats,
		PricePerSeat:   req.PricePerSeat,
		AcceptsParcels: req.AcceptsParcels,
		MaxParcelSize:  maxParcelSize,
		ParcelPrice:    req.ParcelPrice,
		Description:    req.Description,
		IsActive:       true,
	}

	if err := s.repo.Ride.Create(ctx, ride); err != nil {
		return nil, fmt.Errorf("create ride: %w", err)
	}

	observability.RidesCreated.Inc()

	s.log.Info("Ride created",
		zap.String("ride_id", ride.ID.String()),
		zap.String("driver_id", driverID),
		zap.String("origin", ride.Origin),
		zap.String("destination", ride.Destination),
		zap.Int("seats", ride.AvailableSeats),
		zap.Float64("price_per_seat", ride.PricePerSeat),
	)

	rideResp := response.RideToResponse(ride, driver)
	return &rideResp, nil
}

func (s *rideService) SearchRides(ctx context.Context, filter repository.RideFilter, page *request.PaginatedRequest) ([]response.RideResponse, error) {
	limit := page.PageLimit()
	offset := page.Offset()

	rides, err := s.repo.Ride.Search(ctx, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search rides: %w", err)
	}

	rideResponses := make([]response.RideResponse, len(rides))
	for i, ride := range rides {
		driver, _ := s.repo.User.FindByID(ctx, ride.DriverID)
		rideResponses[i] = response.RideToResponse(ride, driver)
	}

	s.log.Debug("Rides searched",
		zap.Int("count", len(rides)),
		zap.Int("limit", limit),
		zap.Int("skip", offset),
	)

	return rideResponses, nil
}

func (s *rideService) GetRide(ctx context.Context, rideID string) (*response.RideResponse, error) {
	rideUUID, err := uuid.Parse(rideID)
	if err != nil {
		return nil, apperr.Validation("invalid ride ID format %s", rideID)
	}

	ride, err := s.repo.Ride.FindByID(ctx, rideUUID)
	if err != nil {
		return nil, fmt.Errorf("get ride: %w", err)
	}
	if ride == nil {
		return nil, apperr.NotFound("ride %s not found", rideID)
	}

	driver, _ := s.repo.User.FindByID(ctx, ride.DriverID)

	rideResp := response.RideToResponse(ride, driver)
	return &rideResp, nil
}

func (s *rideService) UpdateRide(ctx context.Context, rideID, requesterID string, req *request.UpdateRideRequest) (*response.RideResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update ride validation failed", zap.Any("errors", errs))
		return nil, apperr.Validation("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	rideUUID, err := uuid.Parse(rideID)
	if err != nil {
		return nil, apperr.Validation("invalid ride ID format %s", rideID)
	}

	requesterUUID, err := uuid.Parse(requesterID)
	if err != nil {
		return nil, apperr.Validation("invalid requester ID format %s", requesterID)
	}

	ride, err := s.repo.Ride.FindByID(ctx, rideUUID)
	if err != nil {
		return nil, fmt.Errorf("get ride: %w", err)
	}
	if ride == nil {
		return nil, apperr.NotFound("ride %s not found", rideID)
	}

	if ride.DriverID != requesterUUID {
		return nil, apperr.Authorization("only the ride creator can update the ride")
	}

	// Apply only the fields present in the patch
	if req.DepartureTime != nil {
		ride.DepartureTime = *req.DepartureTime
	}
	if req.AvailableSeats != nil {
		ride.AvailableSeats = *req.AvailableSeats
	}
	if req.PricePerSeat != nil {
		ride.PricePerSeat = *req.PricePerSeat
	}
	if req.AcceptsParcels != nil {
		ride.AcceptsParcels = *req.AcceptsParcels
	}
	if req.MaxParcelSize != nil {
		size := entity.ParcelSize(*req.MaxParcelSize)
		ride.MaxParcelSize = &size
	}
	if req.ParcelPrice != nil {
		ride.ParcelPrice = req.ParcelPrice
	}
	if req.Description != nil {
		ride.Description = req.Description
	}
	if req.IsActive != nil {
		ride.IsActive = *req.IsActive
	}
	ride.UpdatedAt = time.Now()

	if err := s.repo.Ride.Update(ctx, ride); err != nil {
		return nil, fmt.Errorf("update ride: %w", err)
	}

	s.log.Info("Ride updated",
		zap.String("ride_id", rideID),
		zap.String("driver_id", requesterID),
	)

	driver, _ := s.repo.User.FindByID(ctx, ride.DriverID)

	rideResp := response.RideToResponse(ride, driver)
	return &rideResp, nil
}

func (s *rideService) DeleteRide(ctx context.Context, rideID, requesterID string) error {
	rideUUID, err := uuid.Parse(rideID)
	if err != nil {
		return apperr.Validation("invalid ride ID format %s", rideID)
	}

	requesterUUID, err := uuid.Parse(requesterID)
	if err != nil {
		return apperr.Validation("invalid requester ID format %s", requesterID)
	}

	ride, err := s.repo.Ride.FindByID(ctx, rideUUID)
	if err != nil {
		return fmt.Errorf("get ride: %w", err)
	}
	if ride == nil {
		return apperr.NotFound("ride %s not found", rideID)
	}

	if ride.DriverID != requesterUUID {
		return apperr.Authorization("only the ride creator can delete the ride")
	}

	// Deleting a ride with live bookings would orphan them; the driver has
	// to cancel those bookings first.
	activeBookings, err := s.repo.Booking.CountActiveByRideID(ctx, rideUUID)
	if err != nil {
		return fmt.Errorf("count active bookings: %w", err)
	}
	if activeBookings > 0 {
		return apperr.Validation("ride has %d active bookings, cancel them before deleting", activeBookings)
	}

	if err := s.repo.Ride.Delete(ctx, rideUUID); err != nil {
		return fmt.Errorf("delete ride: %w", err)
	}

	s.log.Info("Ride deleted",
		zap.String("ride_id", rideID),
		zap.String("driver_id", requesterID),
	)

	return nil
}
