package resolve_capacity

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	activityRepo "github.com/m04kA/SMC-TourBookingService/internal/infra/storage/activity"
)

const scopeAll = "all"

// UseCase use case разрешения слотов: сохранённые строки + виртуальные слоты расписания
type UseCase struct {
	activityRepo ActivityRepository
	capacityRepo CapacityRepository
	cache        SlotCache
	metrics      MetricsRecorder
	maxRangeDays int
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	activityRepo ActivityRepository,
	capacityRepo CapacityRepository,
	cache SlotCache,
	metrics MetricsRecorder,
	maxRangeDays int,
	logger Logger,
) *UseCase {
	return &UseCase{
		activityRepo: activityRepo,
		capacityRepo: capacityRepo,
		cache:        cache,
		metrics:      metrics,
		maxRangeDays: maxRangeDays,
		logger:       logger,
	}
}

// Execute выполняет use case. Чтение без блокировок; кэшируется только запрос на одну дату.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация дат
	dr, err := validateRequest(req, uc.maxRangeDays)
	if err != nil {
		uc.logger.Warn("ResolveCapacity: validation failed: %v", err)
		return nil, err
	}

	// 2. Определяем активность по id или slug; неизвестная активность даёт пустой список
	var scoped *domain.Activity
	if req.Activity != "" {
		scoped, err = uc.findActivity(ctx, req.Activity)
		if errors.Is(err, activityRepo.ErrActivityNotFound) {
			return &Response{Slots: []domain.CapacitySlot{}}, nil
		}
		if err != nil {
			uc.logger.Error("ResolveCapacity: failed to get activity %q: %v", req.Activity, err)
			return nil, fmt.Errorf("%w: failed to get activity: %v", ErrInternal, err)
		}
	}

	scope := scopeAll
	if scoped != nil {
		scope = strconv.FormatInt(scoped.ID, 10)
	}

	// 3. Кэш на одну дату
	var (
		cacheDate    string
		cacheVersion string
		cacheable    = dr.single()
	)
	if cacheable {
		cacheDate = dr.from.Format(domain.DateFormat)
		slots, version, hit, err := uc.cache.Get(ctx, cacheDate, scope)
		switch {
		case err != nil:
			uc.logger.Warn("ResolveCapacity: cache read failed, bypassing: %v", err)
			cacheable = false
		case hit:
			uc.metrics.CacheLookup(true)
			return &Response{Slots: slots}, nil
		default:
			uc.metrics.CacheLookup(false)
			cacheVersion = version
		}
	}

	// 4. Сохранённые строки
	filter := domain.CapacityFilter{DateFrom: dr.from, DateTo: dr.to}
	if scoped != nil {
		filter.ActivityID = &scoped.ID
	}
	rows, err := uc.capacityRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Error("ResolveCapacity: failed to list capacity: %v", err)
		return nil, fmt.Errorf("%w: failed to list capacity: %v", ErrInternal, err)
	}

	// 5. Активности для имён и виртуальных слотов
	var activities []*domain.Activity
	if scoped != nil {
		activities = []*domain.Activity{scoped}
	} else {
		activities, err = uc.activityRepo.List(ctx, domain.ActivityFilter{})
		if err != nil {
			uc.logger.Error("ResolveCapacity: failed to list activities: %v", err)
			return nil, fmt.Errorf("%w: failed to list activities: %v", ErrInternal, err)
		}
	}

	// 6. Слияние
	slots := MergeSlots(rows, activities, dr.days())

	if cacheable {
		if err := uc.cache.Set(ctx, cacheDate, scope, cacheVersion, slots); err != nil {
			uc.logger.Warn("ResolveCapacity: cache write failed: %v", err)
		}
	}

	return &Response{Slots: slots}, nil
}

// findActivity ищет активность по числовому id, иначе по slug
func (uc *UseCase) findActivity(ctx context.Context, ref string) (*domain.Activity, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		if id <= 0 {
			return nil, activityRepo.ErrActivityNotFound
		}
		return uc.activityRepo.GetByID(ctx, id)
	}
	if !domain.IsValidSlug(ref) {
		return nil, activityRepo.ErrActivityNotFound
	}
	return uc.activityRepo.GetBySlug(ctx, ref)
}
