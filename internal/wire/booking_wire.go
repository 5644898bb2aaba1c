package wire

import (
	"ride-marketplace/internal/adaptor"
	"ride-marketplace/pkg/middleware"
	"ride-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))

		// POST /api/bookings - Reserve seats on a ride
		r.Post("/api/bookings", bookingHandler.CreateBooking)

		// GET /api/bookings - Caller's own booking history
		r.Get("/api/bookings", bookingHandler.ListBookings)

		// GET /api/bookings/{id} - Booking details (passenger or driver)
		r.Get("/api/bookings/{id}", bookingHandler.GetBooking)

		// PATCH /api/bookings/{id} - Status transitions
		r.Patch("/api/bookings/{id}", bookingHandler.UpdateBookingStatus)

		// POST /api/bookings/{id}/verify-payment - Confirm the deposit
		r.Post("/api/bookings/{id}/verify-payment", bookingHandler.VerifyPayment)
	})
}
