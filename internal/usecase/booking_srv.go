package usecase

import (
	"context"
	"fmt"
	"time"

	"ride-marketplace/internal/data/entity"
	"ride-marketplace/internal/data/repository"
	"ride-marketplace/internal/dto/request"
	"ride-marketplace/internal/dto/response"
	"ride-marketplace/internal/events"
	"ride-marketplace/internal/observability"
	"ride-marketplace/internal/payments"
	"ride-marketplace/pkg/apperr"
	"ride-marketplace/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, passengerID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetBooking(ctx context.Context, bookingID, requesterID string) (*response.BookingResponse, error)
	ListPassengerBookings(ctx context.Context, passengerID string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	UpdateBookingStatus(ctx context.Context, bookingID, requesterID string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error)
	VerifyPayment(ctx context.Context, bookingID string, req *request.VerifyPaymentRequest) (*response.BookingResponse, error)
}

type bookingService struct {
	repo      *repository.Repository
	gateway   payments.Gateway
	publisher events.Publisher
	log       *zap.Logger
}

func NewBookingService(repo *repository.Repository, gateway payments.Gateway, publisher events.Publisher, log *zap.Logger) BookingService {
	return &bookingService{
		repo:      repo,
		gateway:   gateway,
		publisher: publisher,
		log:       log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, passengerID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, apperr.Validation("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	passengerUUID, err := uuid.Parse(passengerID)
	if err != nil {
		return nil, apperr.Validation("invalid passenger ID format %s", passengerID)
	}

	rideUUID, err := uuid.Parse(req.RideID)
	if err != nil {
		return nil, apperr.Validation("invalid ride ID format %s", req.RideID)
	}

	booking := &entity.Booking{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		RideID:        rideUUID,
		PassengerID:   passengerUUID,
		SeatsBooked:   req.SeatsBooked,
		Status:        entity.BookingStatusPending,
		PaymentStatus: entity.PaymentStatusPending,
	}

	// Capacity check, insert and seat decrement happen in one transaction;
	// a capacity failure leaves the ride untouched.
	if err := s.repo.Booking.Reserve(ctx, booking); err != nil {
		if apperr.KindOf(err) == apperr.KindCapacity {
			observability.BookingsTotal.WithLabelValues("capacity_rejected").Inc()
		}
		return nil, err
	}

	observability.BookingsTotal.WithLabelValues("created").Inc()
	observability.SeatsReserved.Add(float64(booking.SeatsBooked))

	ride, err := s.repo.Ride.FindByID(ctx, rideUUID)
	if err != nil || ride == nil {
		// Booking is committed; respond without the ride details
		s.log.Warn("Failed to load ride after reserve",
			zap.Error(err),
			zap.String("ride_id", req.RideID),
		)
	}

	bookingResp := response.BookingToResponse(booking, ride)
	if ride != nil {
		bookingResp.AmountToPay = ride.PricePerSeat * float64(booking.SeatsBooked)
	}

	// Deposit address for the payment
	depositAddress, err := s.gateway.GetDepositAddress(ctx, booking.ID)
	if err != nil {
		s.log.Warn("Failed to get deposit address",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
	}
	bookingResp.DepositAddress = depositAddress

	s.publishEvent(ctx, events.BookingCreated, booking)

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("ride_id", req.RideID),
		zap.String("passenger_id", passengerID),
		zap.Int("seats", booking.SeatsBooked),
		zap.Float64("amount_to_pay", bookingResp.AmountToPay),
	)

	return &bookingResp, nil
}

func (s *bookingService) GetBooking(ctx context.Context, bookingID, requesterID string) (*response.BookingResponse, error) {
	bookingUUID, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperr.Validation("invalid booking ID format %s", bookingID)
	}

	requesterUUID, err := uuid.Parse(requesterID)
	if err != nil {
		return nil, apperr.Validation("invalid requester ID format %s", requesterID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingUUID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, apperr.NotFound("booking %s not found", bookingID)
	}

	ride, err := s.repo.Ride.FindByID(ctx, booking.RideID)
	if err != nil {
		return nil, fmt.Errorf("get ride: %w", err)
	}

	// Only the passenger or the ride's driver may view a booking
	isPassenger := booking.PassengerID == requesterUUID
	isDriver := ride != nil && ride.DriverID == requesterUUID
	if !isPassenger && !isDriver {
		return nil, apperr.Authorization("not authorized to view this booking")
	}

	bookingResp := response.BookingToResponse(booking, ride)
	return &bookingResp, nil
}

func (s *bookingService) ListPassengerBookings(ctx context.Context, passengerID string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	passengerUUID, err := uuid.Parse(passengerID)
	if err != nil {
		return nil, apperr.Validation("invalid passenger ID format %s", passengerID)
	}

	limit := page.PageLimit()
	offset := page.Offset()

	bookings, err := s.repo.Booking.FindByPassengerID(ctx, passengerUUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByPassengerID(ctx, passengerUUID)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		ride, _ := s.repo.Ride.FindByID(ctx, booking.RideID)
		bookingResponses[i] = response.BookingToResponse(booking, ride)
	}

	s.log.Debug("Passenger bookings listed",
		zap.String("passenger_id", passengerID),
		zap.Int("count", len(bookings)),
		zap.Int64("total", total),
	)

	return response.NewPaginatedResponse(bookingResponses, offset, limit, total), nil
}

func (s *bookingService) UpdateBookingStatus(ctx context.Context, bookingID, requesterID string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update booking status validation failed", zap.Any("errors", errs))
		return nil, apperr.Validation("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	bookingUUID, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperr.Validation("invalid booking ID format %s", bookingID)
	}

	requesterUUID, err := uuid.Parse(requesterID)
	if err != nil {
		return nil, apperr.Validation("invalid requester ID format %s", requesterID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingUUID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, apperr.NotFound("booking %s not found", bookingID)
	}

	ride, err := s.repo.Ride.FindByID(ctx, booking.RideID)
	if err != nil {
		return nil, fmt.Errorf("get ride: %w", err)
	}
	if ride == nil {
		return nil, apperr.NotFound("ride %s not found", booking.RideID.String())
	}

	isDriver := ride.DriverID == requesterUUID
	isPassenger := booking.PassengerID == requesterUUID

	// Cancellation by the driver or by the passenger on their own booking
	if req.Status != nil && entity.BookingStatus(*req.Status) == entity.BookingStatusCancelled {
		if !isDriver && !isPassenger {
			return nil, apperr.Authorization("not authorized to cancel this booking")
		}
		if isPassenger && !isDriver && req.PaymentStatus != nil {
			return nil, apperr.Authorization("only the driver can update payment status")
		}

		// Re-cancelling stays a no-op, but completed is terminal
		if booking.Status != entity.BookingStatusCancelled && !booking.Status.CanTransitionTo(entity.BookingStatusCancelled) {
			return nil, apperr.Validation("cannot transition booking from %s to %s", booking.Status, entity.BookingStatusCancelled)
		}

		cancelled, restored, err := s.repo.Booking.CancelWithRestore(ctx, bookingUUID)
		if err != nil {
			return nil, err
		}

		if restored {
			observability.BookingsTotal.WithLabelValues("cancelled").Inc()
			observability.SeatsRestored.Add(float64(cancelled.SeatsBooked))
			s.publishEvent(ctx, events.BookingCancelled, cancelled)

			// Seats changed, reload for the response
			ride, _ = s.repo.Ride.FindByID(ctx, booking.RideID)
		}

		if req.PaymentStatus != nil {
			cancelled.PaymentStatus = entity.PaymentStatus(*req.PaymentStatus)
			if err := s.repo.Booking.UpdateStatus(ctx, bookingUUID, cancelled.Status, cancelled.PaymentStatus); err != nil {
				return nil, err
			}
		}

		s.log.Info("Booking cancelled",
			zap.String("booking_id", bookingID),
			zap.String("requester_id", requesterID),
			zap.Bool("seats_restored", restored),
		)

		bookingResp := response.BookingToResponse(cancelled, ride)
		return &bookingResp, nil
	}

	// All other transitions are driver-only
	if !isDriver {
		return nil, apperr.Authorization("only the driver can update booking status")
	}

	if req.Status != nil {
		target := entity.BookingStatus(*req.Status)
		if !booking.Status.CanTransitionTo(target) {
			return nil, apperr.Validation("cannot transition booking from %s to %s", booking.Status, target)
		}
		booking.Status = target
	}
	if req.PaymentStatus != nil {
		booking.PaymentStatus = entity.PaymentStatus(*req.PaymentStatus)
	}

	if err := s.repo.Booking.UpdateStatus(ctx, bookingUUID, booking.Status, booking.PaymentStatus); err != nil {
		return nil, err
	}

	if req.Status != nil && booking.Status == entity.BookingStatusConfirmed {
		s.publishEvent(ctx, events.BookingConfirmed, booking)
	}

	s.log.Info("Booking status updated",
		zap.String("booking_id", bookingID),
		zap.String("status", string(booking.Status)),
		zap.String("payment_status", string(booking.PaymentStatus)),
	)

	bookingResp := response.BookingToResponse(booking, ride)
	return &bookingResp, nil
}

func (s *bookingService) VerifyPayment(ctx context.Context, bookingID string, req *request.VerifyPaymentRequest) (*response.BookingResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Verify payment validation failed", zap.Any("errors", errs))
		return nil, apperr.Validation("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	bookingUUID, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperr.Validation("invalid booking ID format %s", bookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingUUID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, apperr.NotFound("booking %s not found", bookingID)
	}

	// Only a pending booking awaits payment; confirming a cancelled one
	// would hold seats the ride no longer reserves
	if !booking.Status.CanTransitionTo(entity.BookingStatusConfirmed) {
		return nil, apperr.Validation("cannot verify payment for a %s booking", booking.Status)
	}

	// A gateway failure must leave the booking exactly as it was
	verification, err := s.gateway.VerifyTransaction(ctx, req.TxHash)
	if err != nil {
		observability.PaymentVerifications.WithLabelValues("error").Inc()
		s.log.Warn("Payment verification call failed",
			zap.Error(err),
			zap.String("booking_id", bookingID),
			zap.String("tx_hash", req.TxHash),
		)
		return nil, apperr.Payment("payment verification failed", err)
	}

	if verification.Status != payments.VerificationSuccess {
		observability.PaymentVerifications.WithLabelValues("failure").Inc()
		return nil, apperr.Payment("payment verification failed", nil)
	}

	if err := s.repo.Booking.MarkPaid(ctx, bookingUUID); err != nil {
		return nil, err
	}

	observability.PaymentVerifications.WithLabelValues("success").Inc()

	booking.Status = entity.BookingStatusConfirmed
	booking.PaymentStatus = entity.PaymentStatusPaid

	s.publishEvent(ctx, events.BookingConfirmed, booking)

	s.log.Info("Payment verified",
		zap.String("booking_id", bookingID),
		zap.String("tx_hash", req.TxHash),
	)

	ride, _ := s.repo.Ride.FindByID(ctx, booking.RideID)

	bookingResp := response.BookingToResponse(booking, ride)
	return &bookingResp, nil
}

func (s *bookingService) publishEvent(ctx context.Context, eventType events.EventType, booking *entity.Booking) {
	event := events.BookingEvent{
		Type:        eventType,
		BookingID:   booking.ID,
		RideID:      booking.RideID,
		PassengerID: booking.PassengerID,
		Seats:       booking.SeatsBooked,
		OccurredAt:  time.Now(),
	}

	if err := s.publisher.PublishBookingEvent(ctx, event); err != nil {
		s.log.Warn("Failed to publish booking event",
			zap.Error(err),
			zap.String("type", string(eventType)),
			zap.String("booking_id", booking.ID.String()),
		)
	}
}
