package get_bot_settings

import (
	"context"

	"github.com/m04kA/SMC-TourBookingService/internal/service/botsettings/models"
)

type BotSettingsService interface {
	GetSettings(ctx context.Context) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
