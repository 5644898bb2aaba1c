package usecase

import (
	"context"
	"fmt"
	"time"

	"ride-marketplace/internal/data/entity"
	"ride-marketplace/internal/data/repository"
	"ride-marketplace/internal/dto/request"
	"ride-marketplace/internal/dto/response"
	"ride-marketplace/pkg/apperr"
	"ride-marketplace/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	SubmitReview(ctx context.Context, reviewerID, reviewedID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	ListUserReviews(ctx context.Context, userID string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
}

type reviewService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		log:  log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) SubmitReview(ctx context.Context, reviewerID, reviewedID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Submit review validation failed", zap.Any("errors", errs))
		return nil, apperr.Validation("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	reviewerUUID, err := uuid.Parse(reviewerID)
	if err != nil {
		return nil, apperr.Validation("invalid reviewer ID format %s", reviewerID)
	}

	reviewedUUID, err := uuid.Parse(reviewedID)
	if err != nil {
		return nil, apperr.Validation("invalid reviewed ID format %s", reviewedID)
	}

	if reviewerUUID == reviewedUUID {
		return nil, apperr.Validation("cannot review yourself")
	}

	reviewed, err := s.repo.User.FindByID(ctx, reviewedUUID)
	if err != nil {
		return nil, fmt.Errorf("get reviewed user: %w", err)
	}
	if reviewed == nil {
		return nil, apperr.NotFound("user %s not found", reviewedID)
	}

	review := &entity.Review{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		ReviewerID: reviewerUUID,
		ReviewedID: reviewedUUID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	// Insert plus exact mean recompute in one transaction
	newRating, err := s.repo.Review.CreateAndRecomputeRating(ctx, review)
	if err != nil {
		return nil, err
	}

	s.log.Info("Review submitted",
		zap.String("review_id", review.ID.String()),
		zap.String("reviewer_id", reviewerID),
		zap.String("reviewed_id", reviewedID),
		zap.Float64("rating", req.Rating),
		zap.Float64("new_user_rating", newRating),
	)

	reviewer, _ := s.repo.User.FindByID(ctx, reviewerUUID)
	reviewerUsername := ""
	if reviewer != nil {
		reviewerUsername = reviewer.Username
	}

	reviewResp := response.ReviewToResponse(review, reviewerUsername)
	return &reviewResp, nil
}

func (s *reviewService) ListUserReviews(ctx context.Context, userID string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperr.Validation("invalid user ID format %s", userID)
	}

	user, err := s.repo.User.FindByID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user %s not found", userID)
	}

	limit := page.PageLimit()
	offset := page.Offset()

	reviews, err := s.repo.Review.FindByReviewedID(ctx, userUUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	total, err := s.repo.Review.CountByReviewedID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	reviewResponses := make([]response.ReviewResponse, len(reviews))
	for i, review := range reviews {
		reviewer, _ := s.repo.User.FindByID(ctx, review.ReviewerID)
		reviewerUsername := ""
		if reviewer != nil {
			reviewerUsername = reviewer.Username
		}
		reviewResponses[i] = response.ReviewToResponse(review, reviewerUsername)
	}

	s.log.Debug("User reviews listed",
		zap.String("user_id", userID),
		zap.Int("count", len(reviews)),
		zap.Int64("total", total),
	)

	return response.NewPaginatedResponse(reviewResponses, offset, limit, total), nil
}
