package list_activities

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-TourBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TourBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-TourBookingService/internal/service/activities/models"
)

const msgInvalidFeatured = "featured must be true or false"

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

// Handle GET /api/activities
// Query params: featured, includeInactive (только с X-User-ID)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &models.ListRequest{}

	if raw := query.Get("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			h.logger.Warn("GET /activities - Invalid featured: %q", raw)
			handlers.RespondJSON(w, http.StatusBadRequest, handlers.ErrorResponse{Message: msgInvalidFeatured, Field: "featured"})
			return
		}
		req.Featured = &featured
	}

	// Неактивные активности видны только операторам
	if r.Header.Get(middleware.HeaderUserID) != "" {
		req.IncludeInactive, _ = strconv.ParseBool(query.Get("includeInactive"))
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("GET /activities - Failed to list activities: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /activities - Activities retrieved: count=%d", result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
