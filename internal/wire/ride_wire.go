package wire

import (
	"ride-marketplace/internal/adaptor"
	"ride-marketplace/pkg/middleware"
	"ride-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireRide(
	r chi.Router,
	rideHandler *adaptor.RideHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/rides - Search the ride directory with filters
	r.Get("/api/rides", rideHandler.SearchRides)

	// GET /api/rides/{id} - Ride details
	r.Get("/api/rides/{id}", rideHandler.GetRide)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))

		// POST /api/rides - Publish a ride offer (drivers only)
		r.Post("/api/rides", rideHandler.CreateRide)

		// PATCH /api/rides/{id} - Partial update (ride creator only)
		r.Patch("/api/rides/{id}", rideHandler.UpdateRide)

		// DELETE /api/rides/{id} - Remove a ride (ride creator only)
		r.Delete("/api/rides/{id}", rideHandler.DeleteRide)
	})
}
