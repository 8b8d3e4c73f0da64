package ingest_order

import (
	"github.com/m04kA/SMC-TourBookingService/internal/integrations/woocommerce"
)

// Action исход обработки одной позиции заказа
type Action string

const (
	ActionCreated   Action = "created"
	ActionReplayed  Action = "replayed"
	ActionConfirmed Action = "confirmed"
	ActionCancelled Action = "cancelled"
	ActionSkipped   Action = "skipped"
	ActionRejected  Action = "rejected"
)

// Request заказ из вебхука
type Request struct {
	Order *woocommerce.Order
}

// LineResult результат по позиции заказа
type LineResult struct {
	ExternalID    string
	Action        Action
	ReservationID *int64
	Reason        string
}

// Response результаты по всем позициям
type Response struct {
	Lines []LineResult
}
