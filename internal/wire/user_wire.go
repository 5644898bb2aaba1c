package wire

import (
	"ride-marketplace/internal/adaptor"
	"ride-marketplace/pkg/middleware"
	"ride-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// POST /api/register - Create a new account
	r.Post("/api/register", userHandler.Register)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))

		// GET /api/users/me - Own profile
		r.Get("/api/users/me", userHandler.GetProfile)

		// PATCH /api/users/me - Partial profile update
		r.Patch("/api/users/me", userHandler.UpdateProfile)

		// GET /api/users/{id} - Public profile of any user
		r.Get("/api/users/{id}", userHandler.GetUser)
	})
}
