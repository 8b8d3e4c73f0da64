package ingest_message

import (
	"context"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/internal/integrations/botservice"
	"github.com/m04kA/SMC-TourBookingService/internal/usecase/create_reservation"
)

// MessageRepository интерфейс репозитория сообщений
type MessageRepository interface {
	Create(ctx context.Context, m *domain.Message) (*domain.Message, error)
	ExistsByExternalID(ctx context.Context, channel domain.MessageChannel, externalID string) (bool, error)
	LinkReservation(ctx context.Context, messageIDs []int64, reservationID int64) error
}

// SettingsProvider текущие настройки бота
type SettingsProvider interface {
	Get(ctx context.Context) (*domain.BotSettings, error)
}

// BotClient клиент оркестратора бота
type BotClient interface {
	Reply(ctx context.Context, req botservice.ReplyRequest) (*botservice.Reply, error)
}

// ReservationCreator допуск бронирования
type ReservationCreator interface {
	Execute(ctx context.Context, req *create_reservation.Request) (*create_reservation.Response, error)
}

// MetricsRecorder учёт исходов вебхука
type MetricsRecorder interface {
	WebhookEvent(channel, result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
