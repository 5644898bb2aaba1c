package wire

import (
	"net/http"

	"ride-marketplace/internal/adaptor"
	"ride-marketplace/internal/usecase"
	"ride-marketplace/pkg/middleware"
	"ride-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds the wired HTTP surface
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring initializes handlers and the router on top of the services
func Wiring(service *usecase.Service, config *utils.Config, logger *zap.Logger) *App {
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

// setupRouter configures the Chi router
func setupRouter(
	handler *adaptor.Handler,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics())

	// Apply routes
	wireUser(r, handler.User, config, logger)
	wireRide(r, handler.Ride, config, logger)
	wireBooking(r, handler.Booking, config, logger)
	wireReview(r, handler.Review, config, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus scrape endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}
