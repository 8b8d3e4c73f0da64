package botsettings

import (
	"context"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек бота
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.BotSettings, error)
	Upsert(ctx context.Context, settings *domain.BotSettings) (*domain.BotSettings, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
