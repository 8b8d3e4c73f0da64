package ingest_order

import (
	"context"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/internal/usecase/cancel_reservation"
	"github.com/m04kA/SMC-TourBookingService/internal/usecase/create_reservation"
)

// ReservationRepository поиск ранее записанных позиций заказа
type ReservationRepository interface {
	GetByExternalID(ctx context.Context, source domain.ReservationSource, externalID string) (*domain.Reservation, error)
	Confirm(ctx context.Context, id int64) error
}

// ReservationCreator допуск бронирования
type ReservationCreator interface {
	Execute(ctx context.Context, req *create_reservation.Request) (*create_reservation.Response, error)
}

// ReservationCanceller отмена бронирования
type ReservationCanceller interface {
	Execute(ctx context.Context, req *cancel_reservation.Request) (*cancel_reservation.Response, error)
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
