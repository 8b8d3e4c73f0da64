package resize_capacity

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TourBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TourBookingService/internal/service/capacity"
	"github.com/m04kA/SMC-TourBookingService/internal/service/capacity/models"
)

const (
	msgInvalidCapacityID  = "invalid capacity id"
	msgInvalidRequestBody = "invalid request body"
	msgInvalidCapacity    = "invalid capacity"
	msgNotFound           = "capacity not found"
	msgBelowReserved      = "totalSeats cannot be lower than the seats already reserved"
)

type Handler struct {
	service CapacityService
	logger  Logger
}

func NewHandler(service CapacityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/capacity/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		h.logger.Warn("PATCH /capacity/{id} - Invalid capacity ID: %q", mux.Vars(r)["id"])
		handlers.RespondBadRequest(w, msgInvalidCapacityID)
		return
	}

	var req models.ResizeCapacityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /capacity/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Resize(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, capacity.ErrInvalidInput):
			handlers.RespondValidation(w, err, msgInvalidCapacity)
		case errors.Is(err, capacity.ErrBelowReserved):
			h.logger.Warn("PATCH /capacity/{id} - Below reserved: capacity_id=%d, total_seats=%d", id, req.TotalSeats)
			handlers.RespondJSON(w, http.StatusConflict, handlers.ErrorResponse{Message: msgBelowReserved, Field: "totalSeats"})
		case errors.Is(err, capacity.ErrCapacityNotFound):
			handlers.RespondNotFound(w, msgNotFound)
		default:
			h.logger.Error("PATCH /capacity/{id} - Failed to resize capacity: capacity_id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /capacity/{id} - Capacity resized: capacity_id=%d, total_seats=%d", id, result.TotalSeats)
	handlers.RespondJSON(w, http.StatusOK, result)
}
