package ingest_order

import (
	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/internal/integrations/woocommerce"
)

// intent что сделать с позицией при данном статусе заказа
type intent int

const (
	intentIgnore intent = iota
	intentPending
	intentConfirm
	intentCancel
)

func mapStatus(status string) intent {
	switch status {
	case woocommerce.StatusProcessing, woocommerce.StatusCompleted:
		return intentConfirm
	case woocommerce.StatusPending, woocommerce.StatusOnHold:
		return intentPending
	case woocommerce.StatusCancelled, woocommerce.StatusRefunded, woocommerce.StatusFailed:
		return intentCancel
	}
	return intentIgnore
}

func (i intent) reservationStatus() domain.ReservationStatus {
	if i == intentConfirm {
		return domain.StatusConfirmed
	}
	return domain.StatusPending
}
