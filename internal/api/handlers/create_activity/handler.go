package create_activity

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TourBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TourBookingService/internal/service/activities"
	"github.com/m04kA/SMC-TourBookingService/internal/service/activities/models"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidActivity    = "invalid activity"
	msgSlugTaken          = "an activity with this slug already exists"
)

type Handler struct {
	service ActivityService
	logger  Logger
}

func NewHandler(service ActivityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/activities
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.ActivityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /activities - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, activities.ErrInvalidInput):
			h.logger.Warn("POST /activities - Validation failed: %v", err)
			handlers.RespondValidation(w, err, msgInvalidActivity)
		case errors.Is(err, activities.ErrSlugTaken):
			h.logger.Warn("POST /activities - Slug taken: slug=%q", req.Slug)
			handlers.RespondConflict(w, msgSlugTaken)
		default:
			h.logger.Error("POST /activities - Failed to create activity: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /activities - Activity created: activity_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
