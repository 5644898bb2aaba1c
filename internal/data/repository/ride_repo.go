package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ride-marketplace/internal/data/entity"
	"ride-marketplace/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// RideFilter holds the optional search criteria. Nil / empty fields are
// not applied.
type RideFilter struct {
	Origin         string
	Destination    string
	DateFrom       *time.Time
	MinSeats       *int
	MaxPrice       *float64
	AcceptsParcels *bool
	MaxParcelSize  *entity.ParcelSize
	OriginLat      *float64
	OriginLng      *float64
	DestinationLat *float64
	DestinationLng *float64
}

type RideRepository interface {
	Create(ctx context.Context, ride *entity.Ride) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Ride, error)
	Search(ctx context.Context, filter RideFilter, limit, offset int) ([]*entity.Ride, error)
	Update(ctx context.Context, ride *entity.Ride) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type rideRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRideRepository(db database.PgxIface, log *zap.Logger) RideRepository {
	return &rideRepository{
		db:  db,
		log: log.With(zap.String("repository", "ride")),
	}
}

const rideColumns = `id, driver_id, origin, origin_lat, origin_lng, destination,
	destination_lat, destination_lng, departure_time, available_seats, price_per_seat,
	accepts_parcels, max_parcel_size, parcel_price, description, is_active,
	created_at, updated_at`

func scanRide(row pgx.Row) (*entity.Ride, error) {
	var ride entity.Ride
	err := row.Scan(
		&ride.ID,
		&ride.DriverID,
		&ride.Origin,
		&ride.OriginLat,
		&ride.OriginLng,
		&ride.Destination,
		&ride.DestinationLat,
		&ride.DestinationLng,
		&ride.DepartureTime,
		&ride.AvailableSeats,
		&ride.PricePerSeat,
		&ride.AcceptsParcels,
		&ride.MaxParcelSize,
		&ride.ParcelPrice,
		&ride.Description,
		&ride.IsActive,
		&ride.CreatedAt,
		&ride.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ride, nil
}

// buildRideSearchQuery assembles the WHERE clause from the filter. Kept as
// a plain function so the clause set stays statically auditable and
// testable without a database.
func buildRideSearchQuery(filter RideFilter, limit, offset int) (string, []any) {
	var (
		conditions = []string{"is_active = true"}
		args       []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Origin != "" {
		conditions = append(conditions, "origin ILIKE "+arg("%"+filter.Origin+"%"))
	}
	if filter.Destination != "" {
		conditions = append(conditions, "destination ILIKE "+arg("%"+filter.Destination+"%"))
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, "departure_time >= "+arg(*filter.DateFrom))
	}
	if filter.MinSeats != nil {
		conditions = append(conditions, "available_seats >= "+arg(*filter.MinSeats))
	}
	if filter.MaxPrice != nil {
		conditions = append(conditions, "price_per_seat <= "+arg(*filter.MaxPrice))
	}
	if filter.AcceptsParcels != nil {
		conditions = append(conditions, "accepts_parcels = "+arg(*filter.AcceptsParcels))
	}
	if filter.MaxParcelSize != nil {
		conditions = append(conditions, "max_parcel_size = "+arg(*filter.MaxParcelSize))
	}
	if filter.OriginLat != nil && filter.OriginLng != nil {
		conditions = append(conditions, "origin_lat = "+arg(*filter.OriginLat))
		conditions = append(conditions, "origin_lng = "+arg(*filter.OriginLng))
	}
	if filter.DestinationLat != nil && filter.DestinationLng != nil {
		conditions = append(conditions, "destination_lat = "+arg(*filter.DestinationLat))
		conditions = append(conditions, "destination_lng = "+arg(*filter.DestinationLng))
	}

	query := `SELECT ` + rideColumns + ` FROM rides`
	query += " WHERE " + strings.Join(conditions, " AND ")
	query += " ORDER BY departure_time ASC"
	query += " LIMIT " + arg(limit)
	query += " OFFSET " + arg(offset)

	return query, args
}

func (r *rideRepository) Create(ctx context.Context, ride *entity.Ride) error {
	query := `
		INSERT INTO rides (id, driver_id, origin, origin_lat, origin_lng, destination,
			destination_lat, destination_lng, departure_time, available_seats, price_per_seat,
			accepts_parcels, max_parcel_size, parcel_price, description, is_active,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := r.db.Exec(ctx, query,
		ride.ID,
		ride.DriverID,
		ride.Origin,
		ride.OriginLat,
		ride.OriginLng,
		ride.Destination,
		ride.DestinationLat,
		ride.DestinationLng,
		ride.DepartureTime,
		ride.AvailableSeats,
		ride.PricePerSeat,
		ride.AcceptsParcels,
		ride.MaxParcelSize,
		ride.ParcelPrice,
		ride.Description,
		ride.IsActive,
		ride.CreatedAt,
		ride.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create ride",
			zap.Error(err),
			zap.String("driver_id", ride.DriverID.String()),
			zap.String("origin", ride.Origin),
			zap.String("destination", ride.Destination),
		)
		return fmt.Errorf("create ride for driver %s: %w", ride.DriverID.String(), err)
	}

	return nil
}

func (r *rideRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`

	ride, err := scanRide(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find ride by ID",
			zap.Error(err),
			zap.String("ride_id", id.String()),
		)
		return nil, fmt.Errorf("find ride by ID %s: %w", id.String(), err)
	}

	return ride, nil
}

func (r *rideRepository) Search(ctx context.Context, filter RideFilter, limit, offset int) ([]*entity.Ride, error) {
	query, args := buildRideSearchQuery(filter, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to search rides",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("search rides: %w", err)
	}
	defer rows.Close()

	var rides []*entity.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			r.log.Error("Failed to scan ride row", zap.Error(err))
			return nil, fmt.Errorf("scan ride row: %w", err)
		}
		rides = append(rides, ride)
	}

	return rides, nil
}

func (r *rideRepository) Update(ctx context.Context, ride *entity.Ride) error {
	query := `
		UPDATE rides
		SET origin = $2, origin_lat = $3, origin_lng = $4, destination = $5,
		    destination_lat = $6, destination_lng = $7, departure_time = $8,
		    available_seats = $9, price_per_seat = $10, accepts_parcels = $11,
		    max_parcel_size = $12, parcel_price = $13, description = $14,
		    is_active = $15, updated_at = $16
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		ride.ID,
		ride.Origin,
		ride.OriginLat,
		ride.OriginLng,
		ride.Destination,
		ride.DestinationLat,
		ride.DestinationLng,
		ride.DepartureTime,
		ride.AvailableSeats,
		ride.PricePerSeat,
		ride.AcceptsParcels,
		ride.MaxParcelSize,
		ride.ParcelPrice,
		ride.Description,
		ride.IsActive,
		ride.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update ride",
			zap.Error(err),
			zap.String("ride_id", ride.ID.String()),
		)
		return fmt.Errorf("update ride %s: %w", ride.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("ride %s not found", ride.ID.String())
	}

	return nil
}

func (r *rideRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM rides WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete ride",
			zap.Error(err),
			zap.String("ride_id", id.String()),
		)
		return fmt.Errorf("delete ride %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("ride %s not found", id.String())
	}

	r.log.Info("Ride deleted", zap.String("ride_id", id.String()))
	return nil
}
