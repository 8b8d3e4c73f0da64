package update_bot_settings

import (
	"context"

	"github.com/m04kA/SMC-TourBookingService/internal/service/botsettings/models"
)

type BotSettingsService interface {
	Update(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
