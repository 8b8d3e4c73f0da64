package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TourBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TourBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-TourBookingService/internal/service/reservations/models"
	createReservation "github.com/m04kA/SMC-TourBookingService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidReservation = "invalid reservation"
	msgActivityNotFound   = "activity not found"
	msgSlotNotFound       = "no capacity is offered for this activity, date and time"
	msgCapacityExceeded   = "not enough seats remaining for this slot"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	userID, operator := middleware.ParseUserID(r)
	if operator && (req.Status != "" || req.Source != "" || req.ExternalID != nil) {
		h.logger.Info("POST /reservations - Operator fields set: user_id=%d, status=%q, source=%q, external_id=%s",
			userID, req.Status, req.Source, derefOr(req.ExternalID, "-"))
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(operator))
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Validation failed: %v", err)
			handlers.RespondValidation(w, err, msgInvalidReservation)

		case errors.Is(err, createReservation.ErrActivityNotFound):
			h.logger.Warn("POST /reservations - Activity not found: activity=%d/%q", req.ActivityID.ID, req.ActivityID.Slug)
			handlers.RespondNotFound(w, msgActivityNotFound)

		case errors.Is(err, createReservation.ErrSlotNotFound):
			h.logger.Warn("POST /reservations - Slot not found: date=%s, time=%q", req.Date, req.Time)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, createReservation.ErrCapacityExceeded):
			h.logger.Warn("POST /reservations - Capacity exceeded: date=%s, time=%q, seats=%d", req.Date, req.Time, req.Seats)
			handlers.RespondBadRequest(w, msgCapacityExceeded)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}

	h.logger.Info("POST /reservations - Reservation created: reservation_id=%d, replayed=%t",
		result.Reservation.ID, result.Replayed)
	handlers.RespondJSON(w, status, models.FromDomainReservation(result.Reservation))
}

func derefOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}
