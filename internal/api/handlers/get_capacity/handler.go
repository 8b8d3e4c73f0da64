package get_capacity

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TourBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TourBookingService/internal/service/capacity/models"
	resolveCapacity "github.com/m04kA/SMC-TourBookingService/internal/usecase/resolve_capacity"
)

const msgInvalidParams = "invalid query parameters"

type Handler struct {
	useCase ResolveCapacityUseCase
	logger  Logger
}

func NewHandler(useCase ResolveCapacityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/capacity
// Query params: date | from+to, activityId (id или slug)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &resolveCapacity.Request{
		Date:     query.Get("date"),
		From:     query.Get("from"),
		To:       query.Get("to"),
		Activity: query.Get("activityId"),
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, resolveCapacity.ErrInvalidInput):
			h.logger.Warn("GET /capacity - Invalid parameters: %v", err)
			handlers.RespondValidation(w, err, msgInvalidParams)
		default:
			h.logger.Error("GET /capacity - Failed to resolve capacity: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, models.FromDomainSlots(result.Slots))
}
