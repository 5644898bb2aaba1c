package wire

import (
	"ride-marketplace/internal/adaptor"
	"ride-marketplace/pkg/middleware"
	"ride-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReview(
	r chi.Router,
	reviewHandler *adaptor.ReviewHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/users/{id}/reviews - Reviews received by a user
	r.Get("/api/users/{id}/reviews", reviewHandler.ListUserReviews)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))

		// POST /api/users/{id}/reviews - Leave a review for a user
		r.Post("/api/users/{id}/reviews", reviewHandler.SubmitReview)
	})
}
