package ingest_message

import (
	"github.com/m04kA/SMC-TourBookingService/internal/integrations/twilio"
)

// Request входящее сообщение WhatsApp
type Request struct {
	Message *twilio.InboundMessage
}

// Response текст ответа для TwiML; пустой Reply означает ответ без сообщения
type Response struct {
	Reply         string
	Duplicate     bool
	ReservationID *int64
}
