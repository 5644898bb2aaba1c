package adaptor

import (
	"encoding/json"
	"net/http"

	"ride-marketplace/internal/dto/request"
	"ride-marketplace/internal/usecase"
	"ride-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// SubmitReview handles POST /api/users/{id}/reviews (protected)
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	reviewedID := chi.URLParam(r, "id")
	if reviewedID == "" {
		utils.ResponseBadRequest(w, "User ID is required", nil)
		return
	}

	var req request.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	review, err := h.service.SubmitReview(r.Context(), userID.String(), reviewedID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "submit review")
		return
	}

	utils.ResponseCreated(w, "success", review)
}

// ListUserReviews handles GET /api/users/{id}/reviews (public)
func (h *ReviewHandler) ListUserReviews(w http.ResponseWriter, r *http.Request) {
	reviewedID := chi.URLParam(r, "id")
	if reviewedID == "" {
		utils.ResponseBadRequest(w, "User ID is required", nil)
		return
	}

	query := r.URL.Query()
	page := &request.PaginatedRequest{
		Skip:  utils.ParseInt(query.Get("skip"), 0),
		Limit: utils.ParseInt(query.Get("limit"), 10),
	}

	reviews, err := h.service.ListUserReviews(r.Context(), reviewedID, page)
	if err != nil {
		handleServiceError(h.log, w, err, "list user reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}
