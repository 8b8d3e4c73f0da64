package create_capacity

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TourBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TourBookingService/internal/service/capacity"
	"github.com/m04kA/SMC-TourBookingService/internal/service/capacity/models"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidCapacity    = "invalid capacity"
	msgActivityNotFound   = "activity not found"
	msgExists             = "capacity for this activity, date and time already exists"
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

// Handle POST /api/capacity
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCapacityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /capacity - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, capacity.ErrInvalidInput):
			h.logger.Warn("POST /capacity - Validation failed: %v", err)
			handlers.RespondValidation(w, err, msgInvalidCapacity)
		case errors.Is(err, capacity.ErrActivityNotFound):
			h.logger.Warn("POST /capacity - Activity not found: activity_id=%d", req.ActivityID)
			handlers.RespondNotFound(w, msgActivityNotFound)
		case errors.Is(err, capacity.ErrCapacityExists):
			handlers.RespondConflict(w, msgExists)
		default:
			h.logger.Error("POST /capacity - Failed to create capacity: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /capacity - Capacity created: capacity_id=%d", *result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
