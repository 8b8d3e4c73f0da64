package create_capacity

import (
	"context"

	"github.com/m04kA/SMC-TourBookingService/internal/service/capacity/models"
)

type CapacityService interface {
	Create(ctx context.Context, req *models.CreateCapacityRequest) (*models.CapacityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
