package reservation_stats

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-TourBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/internal/service/reservations"
	"github.com/m04kA/SMC-TourBookingService/internal/service/reservations/models"
)

const msgInvalidParams = "invalid query parameters"

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/reservations/stats
// Query params: from, to (YYYY-MM-DD, опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req := &models.StatsRequest{}
	for key, dst := range map[string]**time.Time{"from": &req.From, "to": &req.To} {
		raw := r.URL.Query().Get(key)
		if raw == "" {
			continue
		}
		d, err := domain.ParseDate(raw)
		if err != nil {
			h.logger.Warn("GET /reservations/stats - Invalid %s: %q", key, raw)
			handlers.RespondJSON(w, http.StatusBadRequest, handlers.ErrorResponse{Message: "must be YYYY-MM-DD", Field: key})
			return
		}
		*dst = &d
	}

	result, err := h.service.Stats(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrInvalidInput):
			handlers.RespondValidation(w, err, msgInvalidParams)
		default:
			h.logger.Error("GET /reservations/stats - Failed to compute stats: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
