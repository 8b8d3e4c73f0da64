package update_bot_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TourBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TourBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-TourBookingService/internal/service/botsettings"
	"github.com/m04kA/SMC-TourBookingService/internal/service/botsettings/models"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidSettings    = "invalid bot settings"
)

type Handler struct {
	service BotSettingsService
	logger  Logger
}

func NewHandler(service BotSettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/bot-settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bot-settings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, botsettings.ErrInvalidInput):
			handlers.RespondValidation(w, err, msgInvalidSettings)
		default:
			h.logger.Error("PUT /bot-settings - Failed to update settings: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	userID, _ := middleware.GetUserID(r.Context())
	h.logger.Info("PUT /bot-settings - Settings updated: enabled=%t, user_id=%d", result.Enabled, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
