package delete_activity

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TourBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TourBookingService/internal/service/activities"
)

const (
	msgInvalidActivityID = "invalid activity id"
	msgNotFound          = "activity not found"
	msgInUse             = "activity has reservations and cannot be deleted; deactivate it instead"
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

// Handle DELETE /api/activities/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		h.logger.Warn("DELETE /activities/{id} - Invalid activity ID: %q", mux.Vars(r)["id"])
		handlers.RespondBadRequest(w, msgInvalidActivityID)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, activities.ErrActivityNotFound):
			handlers.RespondNotFound(w, msgNotFound)
		case errors.Is(err, activities.ErrActivityInUse):
			h.logger.Warn("DELETE /activities/{id} - Activity in use: activity_id=%d", id)
			handlers.RespondConflict(w, msgInUse)
		default:
			h.logger.Error("DELETE /activities/{id} - Failed to delete activity: activity_id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /activities/{id} - Activity deleted: activity_id=%d", id)
	w.WriteHeader(http.StatusNoContent)
}
