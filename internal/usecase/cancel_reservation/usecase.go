package cancel_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/internal/infra/events"
	reservationRepo "github.com/m04kA/SMC-TourBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-TourBookingService/pkg/ptr"
	"github.com/m04kA/SMC-TourBookingService/pkg/validation"
)

// UseCase use case отмены бронирования с возвратом мест
type UseCase struct {
	reservationRepo ReservationRepository
	capacityRepo    CapacityRepository
	txManager       TransactionManager
	cache           CacheInvalidator
	publisher       EventPublisher
	metrics         MetricsRecorder
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	capacityRepo CapacityRepository,
	txManager TransactionManager,
	cache CacheInvalidator,
	publisher EventPublisher,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		capacityRepo:    capacityRepo,
		txManager:       txManager,
		cache:           cache,
		publisher:       publisher,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case отмены. Повторная отмена ничего не меняет.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelReservation: reservation=%d", req.ReservationID)

	// 1. Валидация
	if req.ReservationID <= 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, validation.NewFieldError("id", "must be positive"))
	}

	var (
		result  *domain.Reservation
		changed bool
	)

	// 2. Блокируем бронирование, меняем статус и возвращаем места в одной транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		result, changed = nil, false

		// 2.1. Получаем бронирование с блокировкой
		r, err := uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Warn("CancelReservation: reservation id=%d not found", req.ReservationID)
			return ErrReservationNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: get reservation: %w", ErrInternal, err)
		}

		// 2.2. Уже отменено
		if r.IsCancelled() {
			result = r
			return nil
		}

		// 2.3. Меняем статус с условием status <> cancelled
		now := uc.timeProvider.Now()
		if err := uc.reservationRepo.MarkCancelled(txCtx, r.ID, now); err != nil {
			if errors.Is(err, reservationRepo.ErrStatusConflict) {
				r.Status = domain.StatusCancelled
				result = r
				return nil
			}
			return fmt.Errorf("%w: mark cancelled: %w", ErrInternal, err)
		}

		// 2.4. Возвращаем места с условием reserved_seats >= n
		if _, err := uc.capacityRepo.Release(txCtx, r.CapacityID, r.Seats); err != nil {
			return fmt.Errorf("%w: release seats: %w", ErrInternal, err)
		}

		r.Status = domain.StatusCancelled
		r.CancelledAt = ptr.Ptr(now)
		r.UpdatedAt = now
		result, changed = r, true
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("CancelReservation: %v", err)
		}
		return nil, err
	}

	if !changed {
		uc.logger.Info("CancelReservation: reservation id=%d already cancelled", result.ID)
		return &Response{Reservation: result}, nil
	}

	// 3. После коммита
	if err := uc.cache.Invalidate(ctx, result.Date.Format(domain.DateFormat)); err != nil {
		uc.logger.Warn("CancelReservation: cache invalidation failed: %v", err)
	}
	event := events.NewReservationEvent(events.TypeReservationCancelled, result, uc.timeProvider.Now())
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("CancelReservation: publish %s failed: %v", event.Type, err)
	}
	uc.metrics.ReservationCancelled(string(result.Source))

	uc.logger.Info("CancelReservation: reservation id=%d cancelled, %d seats released", result.ID, result.Seats)
	return &Response{Reservation: result, Changed: true}, nil
}
