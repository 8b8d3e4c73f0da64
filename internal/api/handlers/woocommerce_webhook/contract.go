package woocommerce_webhook

import (
	"context"

	ingestOrder "github.com/m04kA/SMC-TourBookingService/internal/usecase/ingest_order"
)

type IngestOrderUseCase interface {
	Execute(ctx context.Context, req *ingestOrder.Request) (*ingestOrder.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
