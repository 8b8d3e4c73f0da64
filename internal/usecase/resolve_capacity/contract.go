package resolve_capacity

import (
	"context"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
)

// ActivityRepository интерфейс репозитория активностей
type ActivityRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Activity, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Activity, error)
	List(ctx context.Context, filter domain.ActivityFilter) ([]*domain.Activity, error)
}

// CapacityRepository интерфейс репозитория слотов
type CapacityRepository interface {
	List(ctx context.Context, filter domain.CapacityFilter) ([]*domain.Capacity, error)
}

// SlotCache кэш результатов на одну дату
type SlotCache interface {
	Get(ctx context.Context, date, scope string) ([]domain.CapacitySlot, string, bool, error)
	Set(ctx context.Context, date, scope, version string, slots []domain.CapacitySlot) error
}

// MetricsRecorder учёт попаданий в кэш
type MetricsRecorder interface {
	CacheLookup(hit bool)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
