package get_capacity

import (
	"context"

	resolveCapacity "github.com/m04kA/SMC-TourBookingService/internal/usecase/resolve_capacity"
)

type ResolveCapacityUseCase interface {
	Execute(ctx context.Context, req *resolveCapacity.Request) (*resolveCapacity.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
