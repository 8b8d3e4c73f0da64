package whatsapp_webhook

import (
	"context"

	ingestMessage "github.com/m04kA/SMC-TourBookingService/internal/usecase/ingest_message"
)

type IngestMessageUseCase interface {
	Execute(ctx context.Context, req *ingestMessage.Request) (*ingestMessage.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
