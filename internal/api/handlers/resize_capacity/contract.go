package resize_capacity

import (
	"context"

	"github.com/m04kA/SMC-TourBookingService/internal/service/capacity/models"
)

type CapacityService interface {
	Resize(ctx context.Context, id int64, req *models.ResizeCapacityRequest) (*models.CapacityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
