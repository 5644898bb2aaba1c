package adaptor

import (
	"encoding/json"
	"net/http"
	"time"

	"ride-marketplace/internal/data/entity"
	"ride-marketplace/internal/data/repository"
	"ride-marketplace/internal/dto/request"
	"ride-marketplace/internal/usecase"
	"ride-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type RideHandler struct {
	service usecase.RideService
	log     *zap.Logger
}

func NewRideHandler(service usecase.RideService, log *zap.Logger) *RideHandler {
	return &RideHandler{
		service: service,
		log:     log.With(zap.String("handler", "ride")),
	}
}

// CreateRide handles POST /api/rides (protected, drivers only)
func (h *RideHandler) CreateRide(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateRideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	ride, err := h.service.CreateRide(r.Context(), userID.String(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create ride")
		return
	}

	utils.ResponseCreated(w, "success", ride)
}

// SearchRides handles GET /api/rides (public)
func (h *RideHandler) SearchRides(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := repository.RideFilter{
		Origin:      query.Get("origin"),
		Destination: query.Get("destination"),
	}

	if raw := query.Get("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.ResponseBadRequest(w, "Invalid date format, expected YYYY-MM-DD", nil)
			return
		}
		filter.DateFrom = &date
	}

	if raw := query.Get("available_seats"); raw != "" {
		seats := utils.ParseInt(raw, 1)
		filter.MinSeats = &seats
	}

	if price, ok := utils.ParseFloat(query.Get("max_price")); ok {
		filter.MaxPrice = &price
	}

	filter.AcceptsParcels = utils.ParseBool(query.Get("accepts_parcels"))

	if raw := query.Get("max_parcel_size"); raw != "" {
		size := entity.ParcelSize(raw)
		filter.MaxParcelSize = &size
	}

	if lat, ok := utils.ParseFloat(query.Get("origin_lat")); ok {
		filter.OriginLat = &lat
	}
	if lng, ok := utils.ParseFloat(query.Get("origin_lng")); ok {
		filter.OriginLng = &lng
	}
	if lat, ok := utils.ParseFloat(query.Get("destination_lat")); ok {
		filter.DestinationLat = &lat
	}
	if lng, ok := utils.ParseFloat(query.Get("destination_lng")); ok {
		filter.DestinationLng = &lng
	}

	page := &request.PaginatedRequest{
		Skip:  utils.ParseInt(query.Get("skip"), 0),
		Limit: utils.ParseInt(query.Get("limit"), 10),
	}

	rides, err := h.service.SearchRides(r.Context(), filter, page)
	if err != nil {
		handleServiceError(h.log, w, err, "search rides")
		return
	}

	utils.ResponseSuccess(w, "success", rides)
}

// GetRide handles GET /api/rides/{id} (public)
func (h *RideHandler) GetRide(w http.ResponseWriter, r *http.Request) {
	rideID := chi.URLParam(r, "id")
	if rideID == "" {
		utils.ResponseBadRequest(w, "Ride ID is required", nil)
		return
	}

	ride, err := h.service.GetRide(r.Context(), rideID)
	if err != nil {
		handleServiceError(h.log, w, err, "get ride")
		return
	}

	utils.ResponseSuccess(w, "success", ride)
}

// UpdateRide handles PATCH /api/rides/{id} (protected, ride creator only)
func (h *RideHandler) UpdateRide(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	rideID := chi.URLParam(r, "id")
	if rideID == "" {
		utils.ResponseBadRequest(w, "Ride ID is required", nil)
		return
	}

	var req request.UpdateRideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	ride, err := h.service.UpdateRide(r.Context(), rideID, userID.String(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update ride")
		return
	}

	utils.ResponseSuccess(w, "success", ride)
}

// DeleteRide handles DELETE /api/rides/{id} (protected, ride creator only)
func (h *RideHandler) DeleteRide(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	rideID := chi.URLParam(r, "id")
	if rideID == "" {
		utils.ResponseBadRequest(w, "Ride ID is required", nil)
		return
	}

	if err := h.service.DeleteRide(r.Context(), rideID, userID.String()); err != nil {
		handleServiceError(h.log, w, err, "delete ride")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
