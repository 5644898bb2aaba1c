package adaptor

import (
	"net/http"

	"ride-marketplace/internal/usecase"
	"ride-marketplace/pkg/apperr"
	"ride-marketplace/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	User    *UserHandler
	Ride    *RideHandler
	Booking *BookingHandler
	Review  *ReviewHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		User:    NewUserHandler(service.User, log),
		Ride:    NewRideHandler(service.Ride, log),
		Booking: NewBookingHandler(service.Booking, log),
		Review:  NewReviewHandler(service.Review, log),
	}
}

// handleServiceError maps service errors to HTTP responses by error kind.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, err.Error())

	case apperr.KindAuthorization:
		log.Warn(operation+" failed - forbidden",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseForbidden(w, err.Error())

	case apperr.KindValidation, apperr.KindCapacity, apperr.KindPayment:
		log.Warn(operation+" failed - bad request",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, err.Error(), nil)

	default:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
