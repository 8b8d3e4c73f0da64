package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/internal/infra/events"
	activityRepo "github.com/m04kA/SMC-TourBookingService/internal/infra/storage/activity"
	capacityRepo "github.com/m04kA/SMC-TourBookingService/internal/infra/storage/capacity"
	reservationRepo "github.com/m04kA/SMC-TourBookingService/internal/infra/storage/reservation"
)

// UseCase use case допуска бронирования к слоту
type UseCase struct {
	activityRepo    ActivityRepository
	capacityRepo    CapacityRepository
	reservationRepo ReservationRepository
	txManager       TransactionManager
	cache           CacheInvalidator
	publisher       EventPublisher
	metrics         MetricsRecorder
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	activityRepo ActivityRepository,
	capacityRepo CapacityRepository,
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	cache CacheInvalidator,
	publisher EventPublisher,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		activityRepo:    activityRepo,
		capacityRepo:    capacityRepo,
		reservationRepo: reservationRepo,
		txManager:       txManager,
		cache:           cache,
		publisher:       publisher,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка и списание мест выполняются в одной сериализуемой транзакции,
// списание защищено условием reserved_seats + n <= total_seats.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: activity=%d slug=%q date=%s time=%q seats=%d source=%q",
		req.ActivityID, req.ActivitySlug, req.Date, req.Time, req.Seats, req.Source)

	// 1. Валидация формы запроса
	in, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	var (
		result   *domain.Reservation
		replayed bool
	)

	// 2. Все проверки и записи в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		result, replayed = nil, false

		// 2.1. Повторная доставка с тем же внешним id возвращает прежний результат
		if req.ExternalID != nil {
			existing, err := uc.reservationRepo.GetByExternalID(txCtx, in.source, *req.ExternalID)
			if err == nil {
				result, replayed = existing, true
				return nil
			}
			if !errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return fmt.Errorf("%w: lookup external id: %w", ErrInternal, err)
			}
		}

		// 2.2. Активность существует и доступна для бронирования
		activity, err := uc.getActivity(txCtx, req)
		if err != nil {
			return err
		}

		// 2.3. Строка слота или материализация виртуального слота из расписания
		slot, err := uc.getOrMaterializeSlot(txCtx, activity, in)
		if err != nil {
			return err
		}

		// 2.4. Предварительная проверка свободных мест
		if req.Seats > slot.RemainingSeats() {
			uc.logger.Warn("CreateReservation: slot id=%d has %d seats left, requested %d",
				slot.ID, slot.RemainingSeats(), req.Seats)
			return ErrCapacityExceeded
		}

		// 2.5. Контактные данные клиента
		if err := validateCustomer(req); err != nil {
			uc.logger.Warn("CreateReservation: customer validation failed: %v", err)
			return err
		}

		// 2.6. Условное списание мест
		if _, err := uc.capacityRepo.Reserve(txCtx, slot.ID, req.Seats); err != nil {
			if errors.Is(err, capacityRepo.ErrInsufficientSeats) {
				uc.logger.Warn("CreateReservation: guarded reserve rejected slot id=%d", slot.ID)
				return ErrCapacityExceeded
			}
			return fmt.Errorf("%w: reserve seats: %w", ErrInternal, err)
		}

		// 2.7. Создаём бронирование
		created, err := uc.reservationRepo.Create(txCtx, &domain.Reservation{
			Code:          uuid.NewString(),
			ActivityID:    activity.ID,
			CapacityID:    slot.ID,
			Date:          in.date,
			Time:          in.time,
			CustomerName:  strings.TrimSpace(req.CustomerName),
			CustomerEmail: strings.TrimSpace(req.CustomerEmail),
			CustomerPhone: strings.TrimSpace(req.CustomerPhone),
			Seats:         req.Seats,
			Status:        in.status,
			Source:        in.source,
			ExternalID:    req.ExternalID,
			Notes:         req.Notes,
			TotalPrice:    activity.Price * float64(req.Seats),
			Currency:      activity.Currency,
		})
		if err != nil {
			return fmt.Errorf("%w: create reservation: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	// Параллельная доставка с тем же внешним id успела записать бронирование
	if errors.Is(err, reservationRepo.ErrDuplicateExternalID) && req.ExternalID != nil {
		existing, lookupErr := uc.reservationRepo.GetByExternalID(ctx, in.source, *req.ExternalID)
		if lookupErr == nil {
			result, replayed, err = existing, true, nil
		}
	}

	if err != nil {
		if errors.Is(err, ErrCapacityExceeded) {
			uc.metrics.CapacityRejected(string(in.source))
		}
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("CreateReservation: %v", err)
		}
		return nil, err
	}

	if replayed {
		uc.logger.Info("CreateReservation: external id %q already recorded as reservation id=%d",
			*req.ExternalID, result.ID)
		return &Response{Reservation: result, Replayed: true}, nil
	}

	// 3. После коммита: кэш, событие, метрики
	uc.afterCommit(ctx, result)

	uc.logger.Info("CreateReservation: successfully created reservation id=%d code=%s", result.ID, result.Code)
	return &Response{Reservation: result}, nil
}

// getActivity ищет активность по id или slug; неактивная считается ненайденной
func (uc *UseCase) getActivity(ctx context.Context, req *Request) (*domain.Activity, error) {
	var (
		activity *domain.Activity
		err      error
	)
	if req.ActivityID > 0 {
		activity, err = uc.activityRepo.GetByID(ctx, req.ActivityID)
	} else {
		activity, err = uc.activityRepo.GetBySlug(ctx, req.ActivitySlug)
	}
	if errors.Is(err, activityRepo.ErrActivityNotFound) {
		uc.logger.Warn("CreateReservation: activity id=%d slug=%q not found", req.ActivityID, req.ActivitySlug)
		return nil, ErrActivityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get activity: %w", ErrInternal, err)
	}
	if !activity.IsBookable() {
		uc.logger.Warn("CreateReservation: activity id=%d is inactive", activity.ID)
		return nil, ErrActivityNotFound
	}
	return activity, nil
}

// getOrMaterializeSlot возвращает заблокированную строку слота, создавая её из расписания при необходимости
func (uc *UseCase) getOrMaterializeSlot(ctx context.Context, activity *domain.Activity, in *input) (*domain.Capacity, error) {
	slot, err := uc.capacityRepo.GetByKey(ctx, activity.ID, in.date, in.time)
	if err == nil {
		return slot, nil
	}
	if !errors.Is(err, capacityRepo.ErrCapacityNotFound) {
		return nil, fmt.Errorf("%w: get slot: %w", ErrInternal, err)
	}

	if !activity.Schedule.Offers(in.date, in.time) {
		uc.logger.Warn("CreateReservation: activity id=%d has no slot on %s %q",
			activity.ID, in.date.Format(domain.DateFormat), in.time.String())
		return nil, ErrSlotNotFound
	}

	slot, err = uc.capacityRepo.Materialize(ctx, activity.ID, in.date, in.time, activity.Schedule.DefaultSeats)
	if err != nil {
		return nil, fmt.Errorf("%w: materialize slot: %w", ErrInternal, err)
	}
	uc.logger.Info("CreateReservation: materialized slot id=%d for activity id=%d", slot.ID, activity.ID)
	return slot, nil
}

func (uc *UseCase) afterCommit(ctx context.Context, r *domain.Reservation) {
	if err := uc.cache.Invalidate(ctx, r.Date.Format(domain.DateFormat)); err != nil {
		uc.logger.Warn("CreateReservation: cache invalidation failed: %v", err)
	}
	event := events.NewReservationEvent(events.TypeReservationCreated, r, uc.timeProvider.Now())
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("CreateReservation: publish %s failed: %v", event.Type, err)
	}
	uc.metrics.ReservationCreated(string(r.Source))
}
