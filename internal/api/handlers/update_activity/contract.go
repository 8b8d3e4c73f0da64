package update_activity

import (
	"context"

	"github.com/m04kA/SMC-TourBookingService/internal/service/activities/models"
)

type ActivityService interface {
	Update(ctx context.Context, id int64, req *models.ActivityRequest) (*models.ActivityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
