package update_activity

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TourBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TourBookingService/internal/service/activities"
	"github.com/m04kA/SMC-TourBookingService/internal/service/activities/models"
)

const (
	msgInvalidActivityID  = "invalid activity id"
	msgInvalidRequestBody = "invalid request body"
	msgInvalidActivity    = "invalid activity"
	msgNotFound           = "activity not found"
	msgSlugTaken          = "an activity with this slug already exists"
	msgLocked             = "price, schedule and other booking fields cannot change once the activity has reservations"
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

// Handle PUT /api/activities/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		h.logger.Warn("PUT /activities/{id} - Invalid activity ID: %q", mux.Vars(r)["id"])
		handlers.RespondBadRequest(w, msgInvalidActivityID)
		return
	}

	var req models.ActivityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /activities/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, activities.ErrInvalidInput):
			h.logger.Warn("PUT /activities/{id} - Validation failed: activity_id=%d, error=%v", id, err)
			handlers.RespondValidation(w, err, msgInvalidActivity)
		case errors.Is(err, activities.ErrActivityNotFound):
			h.logger.Warn("PUT /activities/{id} - Activity not found: activity_id=%d", id)
			handlers.RespondNotFound(w, msgNotFound)
		case errors.Is(err, activities.ErrSlugTaken):
			handlers.RespondConflict(w, msgSlugTaken)
		case errors.Is(err, activities.ErrBookingFieldsLocked):
			h.logger.Warn("PUT /activities/{id} - Booking fields locked: activity_id=%d", id)
			handlers.RespondConflict(w, msgLocked)
		default:
			h.logger.Error("PUT /activities/{id} - Failed to update activity: activity_id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /activities/{id} - Activity updated: activity_id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, result)
}
