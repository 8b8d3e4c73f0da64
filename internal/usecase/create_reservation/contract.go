package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/internal/infra/events"
	"github.com/m04kA/SMC-TourBookingService/pkg/types"
)

// ActivityRepository интерфейс репозитория активностей
type ActivityRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Activity, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Activity, error)
}

// CapacityRepository интерфейс репозитория слотов
type CapacityRepository interface {
	GetByKey(ctx context.Context, activityID int64, date time.Time, t types.TimeString) (*domain.Capacity, error)
	Materialize(ctx context.Context, activityID int64, date time.Time, t types.TimeString, totalSeats int) (*domain.Capacity, error)
	Reserve(ctx context.Context, id int64, seats int) (*domain.Capacity, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error)
	GetByExternalID(ctx context.Context, source domain.ReservationSource, externalID string) (*domain.Reservation, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// CacheInvalidator сбрасывает кэш слотов на дату
type CacheInvalidator interface {
	Invalidate(ctx context.Context, date string) error
}

// EventPublisher публикует события бронирований
type EventPublisher interface {
	Publish(ctx context.Context, event events.ReservationEvent) error
}

// MetricsRecorder бизнес-метрики
type MetricsRecorder interface {
	ReservationCreated(source string)
	CapacityRejected(source string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
