package export_reservations

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-TourBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TourBookingService/internal/api/handlers/list_reservations"
	"github.com/m04kA/SMC-TourBookingService/internal/service/reservations"
)

const (
	msgInvalidParams = "invalid query parameters"
	contentTypeXLSX  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Handler struct {
	service ReservationService
	logger  Logger
	now     func() time.Time
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		now:     time.Now,
	}
}

// Handle GET /api/reservations/export
// Фильтры как у списка бронирований, без пагинации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req, err := list_reservations.ToServiceRequest(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /reservations/export - Invalid parameters: %v", err)
		handlers.RespondValidation(w, err, msgInvalidParams)
		return
	}

	// Буферизуем книгу целиком, чтобы ошибка не оборвала частично записанный ответ
	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), req, &buf); err != nil {
		switch {
		case errors.Is(err, reservations.ErrInvalidInput):
			handlers.RespondValidation(w, err, msgInvalidParams)
		default:
			h.logger.Error("GET /reservations/export - Failed to export: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	filename := fmt.Sprintf("reservations-%s.xlsx", h.now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", contentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
