package reservations

import (
	"context"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
)

// ReservationRepository интерфейс чтения бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
	Stats(ctx context.Context, filter domain.StatsFilter) (*domain.ReservationStats, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
