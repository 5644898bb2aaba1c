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

type ReviewRepository interface {
	// CreateAndRecomputeRating inserts the review and recomputes the
	// reviewed user's rating as the exact mean over all stored reviews,
	// in one transaction. Returns the new rating.
	CreateAndRecomputeRating(ctx context.Context, review *entity.Review) (float64, error)

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	FindByReviewedID(ctx context.Context, reviewedID uuid.UUID, limit, offset int) ([]*entity.Review, error)
	CountByReviewedID(ctx context.Context, reviewedID uuid.UUID) (int64, error)
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

const reviewColumns = `id, reviewer_id, reviewed_id, rating, comment, created_at`

func scanReview(row pgx.Row) (*entity.Review, error) {
	var review entity.Review
	err := row.Scan(
		&review.ID,
		&review.ReviewerID,
		&review.ReviewedID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) CreateAndRecomputeRating(ctx context.Context, review *entity.Review) (float64, error) {
	var newRating float64

	err := database.WithinSerializableTx(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO reviews (id, reviewer_id, reviewed_id, rating, comment, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			review.ID,
			review.ReviewerID,
			review.ReviewedID,
			review.Rating,
			review.Comment,
			review.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert review by %s for %s: %w",
				review.ReviewerID.String(), review.ReviewedID.String(), err)
		}

		// Full AVG over all rows keeps the result exact regardless of
		// floating-point drift from earlier updates.
		err = tx.QueryRow(ctx,
			`SELECT AVG(rating) FROM reviews WHERE reviewed_id = $1`,
			review.ReviewedID,
		).Scan(&newRating)
		if err != nil {
			return fmt.Errorf("recompute rating for user %s: %w", review.ReviewedID.String(), err)
		}

		result, err := tx.Exec(ctx,
			`UPDATE users SET rating = $2, updated_at = NOW() WHERE id = $1`,
			review.ReviewedID,
			newRating,
		)
		if err != nil {
			return fmt.Errorf("update rating for user %s: %w", review.ReviewedID.String(), err)
		}
		if result.RowsAffected() == 0 {
			return apperr.NotFound("user %s not found", review.ReviewedID.String())
		}

		return nil
	})

	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			r.log.Error("Failed to create review",
				zap.Error(err),
				zap.String("reviewer_id", review.ReviewerID.String()),
				zap.String("reviewed_id", review.ReviewedID.String()),
			)
		}
		return 0, err
	}

	return newRating, nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review, err := scanReview(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by ID",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return nil, fmt.Errorf("find review by ID %s: %w", id.String(), err)
	}

	return review, nil
}

func (r *reviewRepository) FindByReviewedID(ctx context.Context, reviewedID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE reviewed_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, reviewedID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find reviews by reviewed ID",
			zap.Error(err),
			zap.String("reviewed_id", reviewedID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find reviews for user %s: %w", reviewedID.String(), err)
	}
	defer rows.Close()

	var reviews []*entity.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}

	return reviews, nil
}

func (r *reviewRepository) CountByReviewedID(ctx context.Context, reviewedID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM reviews WHERE reviewed_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, reviewedID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count reviews by reviewed ID",
			zap.Error(err),
			zap.String("reviewed_id", reviewedID.String()),
		)
		return 0, fmt.Errorf("count reviews for user %s: %w", reviewedID.String(), err)
	}

	return count, nil
}
