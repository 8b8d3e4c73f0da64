package ingest_order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/internal/integrations/woocommerce"
	reservationRepo "github.com/m04kA/SMC-TourBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-TourBookingService/internal/usecase/cancel_reservation"
	"github.com/m04kA/SMC-TourBookingService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-TourBookingService/pkg/ptr"
)

const channel = "woocommerce"

// UseCase приём заказов WooCommerce. Каждая позиция заказа идемпотентна
// по внешнему id "<order id>:<line item id>".
type UseCase struct {
	reservationRepo ReservationRepository
	creator         ReservationCreator
	canceller       ReservationCanceller
	metrics         MetricsRecorder
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	creator ReservationCreator,
	canceller ReservationCanceller,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		creator:         creator,
		canceller:       canceller,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute обрабатывает все позиции заказа. Бизнес-отказы по позиции
// логируются и попадают в результат; ошибка возвращается только при сбое хранилища.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.Order == nil {
		return nil, fmt.Errorf("%w: order is required", ErrInvalidInput)
	}
	order := req.Order
	uc.logger.Info("IngestOrder: order=%d status=%q items=%d", order.ID, order.Status, len(order.LineItems))

	resp := &Response{Lines: make([]LineResult, 0, len(order.LineItems))}
	for _, item := range order.LineItems {
		line, err := uc.processLine(ctx, order, item)
		if err != nil {
			uc.metrics.WebhookEvent(channel, "error")
			return nil, err
		}
		uc.metrics.WebhookEvent(channel, string(line.Action))
		resp.Lines = append(resp.Lines, line)
	}

	return resp, nil
}

func (uc *UseCase) processLine(ctx context.Context, order *woocommerce.Order, item woocommerce.LineItem) (LineResult, error) {
	externalID := fmt.Sprintf("%d:%d", order.ID, item.ID)
	line := LineResult{ExternalID: externalID}
	want := mapStatus(order.Status)

	// 1. Идемпотентность: ищем ранее записанную позицию до проверки мест
	existing, err := uc.reservationRepo.GetByExternalID(ctx, domain.SourceWooCommerce, externalID)
	if err != nil && !errors.Is(err, reservationRepo.ErrReservationNotFound) {
		uc.logger.Error("IngestOrder: lookup %s failed: %v", externalID, err)
		return line, fmt.Errorf("%w: lookup external id: %v", ErrInternal, err)
	}

	if existing != nil {
		line.ReservationID = ptr.Ptr(existing.ID)
		return uc.applyToExisting(ctx, line, existing, want)
	}

	// 2. Новая позиция
	switch want {
	case intentIgnore:
		line.Action, line.Reason = ActionSkipped, fmt.Sprintf("order status %q is not bookable", order.Status)
		return line, nil
	case intentCancel:
		line.Action, line.Reason = ActionSkipped, "order cancelled before it was recorded"
		return line, nil
	}

	// 3. Разбор позиции
	createReq, reason := buildRequest(order, item, externalID, want)
	if reason != "" {
		uc.logger.Warn("IngestOrder: %s rejected: %s", externalID, reason)
		line.Action, line.Reason = ActionRejected, reason
		return line, nil
	}

	// 4. Допуск бронирования
	created, err := uc.creator.Execute(ctx, createReq)
	switch {
	case err == nil:
	case errors.Is(err, create_reservation.ErrInternal):
		return line, fmt.Errorf("%w: create reservation: %v", ErrInternal, err)
	default:
		uc.logger.Warn("IngestOrder: %s rejected: %v", externalID, err)
		line.Action, line.Reason = ActionRejected, err.Error()
		return line, nil
	}

	line.ReservationID = ptr.Ptr(created.Reservation.ID)
	line.Action = ActionCreated
	if created.Replayed {
		line.Action = ActionReplayed
	}
	return line, nil
}

// applyToExisting переводит уже записанное бронирование в статус заказа
func (uc *UseCase) applyToExisting(ctx context.Context, line LineResult, existing *domain.Reservation, want intent) (LineResult, error) {
	line.Action = ActionReplayed

	switch want {
	case intentCancel:
		resp, err := uc.canceller.Execute(ctx, &cancel_reservation.Request{ReservationID: existing.ID})
		if err != nil {
			return line, fmt.Errorf("%w: cancel reservation: %v", ErrInternal, err)
		}
		if resp.Changed {
			line.Action = ActionCancelled
		}

	case intentConfirm:
		if existing.Status != domain.StatusPending {
			return line, nil
		}
		err := uc.reservationRepo.Confirm(ctx, existing.ID)
		if errors.Is(err, reservationRepo.ErrStatusConflict) {
			return line, nil
		}
		if err != nil {
			return line, fmt.Errorf("%w: confirm reservation: %v", ErrInternal, err)
		}
		uc.logger.Info("IngestOrder: reservation id=%d confirmed by %s", existing.ID, line.ExternalID)
		line.Action = ActionConfirmed
	}

	return line, nil
}

// buildRequest собирает запрос допуска; непустая причина означает неполную позицию
func buildRequest(order *woocommerce.Order, item woocommerce.LineItem, externalID string, want intent) (*create_reservation.Request, string) {
	activityID, slug := item.ActivityRef()
	if activityID == 0 && slug == "" {
		return nil, "line item has no activity reference"
	}
	date := item.BookingDate()
	if date == "" {
		return nil, "line item has no booking date"
	}
	if item.Quantity <= 0 {
		return nil, "line item quantity must be positive"
	}

	req := &create_reservation.Request{
		ActivityID:    activityID,
		ActivitySlug:  slug,
		Date:          date,
		Time:          item.BookingTime(),
		Seats:         item.Quantity,
		CustomerName:  order.Billing.FullName(),
		CustomerEmail: order.Billing.Email,
		CustomerPhone: order.Billing.Phone,
		Status:        string(want.reservationStatus()),
		Source:        string(domain.SourceWooCommerce),
		ExternalID:    ptr.Ptr(externalID),
	}
	if note := strings.TrimSpace(order.CustomerNote); note != "" {
		for len(note) > domain.MaxNotesLength {
			_, size := utf8.DecodeLastRuneInString(note)
			note = note[:len(note)-size]
		}
		req.Notes = ptr.Ptr(note)
	}
	return req, ""
}
