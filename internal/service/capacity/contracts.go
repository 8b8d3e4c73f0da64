package capacity

import (
	"context"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
)

// CapacityRepository интерфейс репозитория слотов
type CapacityRepository interface {
	Create(ctx context.Context, c *domain.Capacity) (*domain.Capacity, error)
	Resize(ctx context.Context, id int64, totalSeats int) (*domain.Capacity, error)
}

// CacheInvalidator сбрасывает кэш слотов на дату
type CacheInvalidator interface {
	Invalidate(ctx context.Context, date string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
