package repository

import (
	"context"
	"fmt"

	"ride-marketplace/internal/data/entity"
	"ride-marketplace/pkg/apperr"
	"ride-marketplace/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	// Reserve atomically checks ride capacity, inserts the booking and
	// decrements the ride's available seats. Returns a capacity error when
	// the requested seats exceed availability, leaving the ride untouched.
	Reserve(ctx context.Context, booking *entity.Booking) error

	// CancelWithRestore transitions the booking to cancelled and credits
	// the seats back to the ride, both in one transaction. Cancelling an
	// already-cancelled booking is a no-op; a completed booking cannot be
	// cancelled. restored reports whether seats were actually credited.
	CancelWithRestore(ctx context.Context, bookingID uuid.UUID) (booking *entity.Booking, restored bool, err error)

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByPassengerID(ctx context.Context, passengerID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByPassengerID(ctx context.Context, passengerID uuid.UUID) (int64, error)
	CountActiveByRideID(ctx context.Context, rideID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus, paymentStatus entity.PaymentStatus) error

	// MarkPaid confirms a pending booking and marks it paid; bookings in
	// any other status are refused.
	MarkPaid(ctx context.Context, bookingID uuid.UUID) error
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, ride_id, passenger_id, seats_booked, status, payment_status, created_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.RideID,
		&booking.PassengerID,
		&booking.SeatsBooked,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) Reserve(ctx context.Context, booking *entity.Booking) error {
	err := database.WithinSerializableTx(ctx, r.db, func(tx pgx.Tx) error {
		// Lock the ride row so two concurrent bookings cannot both pass
		// the capacity check against a stale seat count.
		var availableSeats int
		err := tx.QueryRow(ctx,
			`SELECT available_seats FROM rides WHERE id = $1 FOR UPDATE`,
			booking.RideID,
		).Scan(&availableSeats)

		if err == pgx.ErrNoRows {
			return apperr.NotFound("ride %s not found", booking.RideID.String())
		}
		if err != nil {
			return fmt.Errorf("lock ride %s: %w", booking.RideID.String(), err)
		}

		if booking.SeatsBooked > availableSeats {
			return apperr.Capacity("not enough seats available: requested %d, available %d",
				booking.SeatsBooked, availableSeats)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO bookings (id, ride_id, passenger_id, seats_booked, status, payment_status, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			booking.ID,
			booking.RideID,
			booking.PassengerID,
			booking.SeatsBooked,
			booking.Status,
			booking.PaymentStatus,
			booking.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert booking %s: %w", booking.ID.String(), err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE rides SET available_seats = available_seats - $2, updated_at = NOW() WHERE id = $1`,
			booking.RideID,
			booking.SeatsBooked,
		)
		if err != nil {
			return fmt.Errorf("decrement seats on ride %s: %w", booking.RideID.String(), err)
		}

		return nil
	})

	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			r.log.Error("Failed to reserve booking",
				zap.Error(err),
				zap.String("ride_id", booking.RideID.String()),
				zap.String("passenger_id", booking.PassengerID.String()),
				zap.Int("seats", booking.SeatsBooked),
			)
		}
		return err
	}

	return nil
}

func (r *bookingRepository) CancelWithRestore(ctx context.Context, bookingID uuid.UUID) (*entity.Booking, bool, error) {
	var (
		booking  *entity.Booking
		restored bool
	)

	err := database.WithinSerializableTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		booking, err = scanBooking(tx.QueryRow(ctx,
			`SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`,
			bookingID,
		))
		if err == pgx.ErrNoRows {
			return apperr.NotFound("booking %s not found", bookingID.String())
		}
		if err != nil {
			return fmt.Errorf("lock booking %s: %w", bookingID.String(), err)
		}

		// Re-cancelling must not double-credit the ride's seats.
		if booking.Status == entity.BookingStatusCancelled {
			return nil
		}

		// Completed is terminal; crediting its seats back would corrupt
		// the ride's availability.
		if !booking.Status.CanTransitionTo(entity.BookingStatusCancelled) {
			return apperr.Validation("cannot cancel a %s booking", booking.Status)
		}

		_, err = tx.Exec(ctx,
			`UPDATE bookings SET status = $2 WHERE id = $1`,
			bookingID,
			entity.BookingStatusCancelled,
		)
		if err != nil {
			return fmt.Errorf("cancel booking %s: %w", bookingID.String(), err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE rides SET available_seats = available_seats + $2, updated_at = NOW() WHERE id = $1`,
			booking.RideID,
			booking.SeatsBooked,
		)
		if err != nil {
			return fmt.Errorf("restore seats on ride %s: %w", booking.RideID.String(), err)
		}

		booking.Status = entity.BookingStatusCancelled
		restored = true
		return nil
	})

	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			r.log.Error("Failed to cancel booking",
				zap.Error(err),
				zap.String("booking_id", bookingID.String()),
			)
		}
		return nil, false, err
	}

	return booking, restored, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByPassengerID(ctx context.Context, passengerID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE passenger_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, passengerID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by passenger ID",
			zap.Error(err),
			zap.String("passenger_id", passengerID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find bookings by passenger ID %s: %w", passengerID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

func (r *bookingRepository) CountByPassengerID(ctx context.Context, passengerID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE passenger_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, passengerID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by passenger ID",
			zap.Error(err),
			zap.String("passenger_id", passengerID.String()),
		)
		return 0, fmt.Errorf("count bookings by passenger ID %s: %w", passengerID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) CountActiveByRideID(ctx context.Context, rideID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE ride_id = $1 AND status <> 'cancelled'`

	var count int64
	err := r.db.QueryRow(ctx, query, rideID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count active bookings by ride ID",
			zap.Error(err),
			zap.String("ride_id", rideID.String()),
		)
		return 0, fmt.Errorf("count active bookings by ride ID %s: %w", rideID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus, paymentStatus entity.PaymentStatus) error {
	query := `UPDATE bookings SET status = $2, payment_status = $3 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, bookingID, status, paymentStatus)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", bookingID.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("booking %s not found", bookingID.String())
	}

	return nil
}

func (r *bookingRepository) MarkPaid(ctx context.Context, bookingID uuid.UUID) error {
	// Guarded on status so a cancelled or completed booking can never be
	// flipped back to confirmed by a late verification.
	query := `UPDATE bookings SET status = $2, payment_status = $3 WHERE id = $1 AND status = $4`

	result, err := r.db.Exec(ctx, query,
		bookingID,
		entity.BookingStatusConfirmed,
		entity.PaymentStatusPaid,
		entity.BookingStatusPending,
	)
	if err != nil {
		r.log.Error("Failed to mark booking paid",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return fmt.Errorf("mark booking %s paid: %w", bookingID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return apperr.Validation("booking %s is not awaiting payment", bookingID.String())
	}

	return nil
}
