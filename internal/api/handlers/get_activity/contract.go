package get_activity

import (
	"context"

	"github.com/m04kA/SMC-TourBookingService/internal/service/activities/models"
)

type ActivityService interface {
	GetByID(ctx context.Context, id int64) (*models.ActivityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
