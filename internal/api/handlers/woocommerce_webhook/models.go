package woocommerce_webhook

import (
	ingestOrder "github.com/m04kA/SMC-TourBookingService/internal/usecase/ingest_order"
)

// WebhookResponse подтверждение доставки
type WebhookResponse struct {
	Received bool         `json:"received"`
	Lines    []LineResult `json:"lines,omitempty"`
}

// LineResult исход по позиции заказа
type LineResult struct {
	ExternalID    string `json:"externalId"`
	Action        string `json:"action"`
	ReservationID *int64 `json:"reservationId,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *ingestOrder.Response) *WebhookResponse {
	out := &WebhookResponse{Received: true, Lines: make([]LineResult, 0, len(resp.Lines))}
	for _, l := range resp.Lines {
		out.Lines = append(out.Lines, LineResult{
			ExternalID:    l.ExternalID,
			Action:        string(l.Action),
			ReservationID: l.ReservationID,
			Reason:        l.Reason,
		})
	}
	return out
}
