package activities

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	activityRepo "github.com/m04kA/SMC-TourBookingService/internal/infra/storage/activity"
	"github.com/m04kA/SMC-TourBookingService/internal/service/activities/models"
)

// Service сервис каталога активностей
type Service struct {
	activityRepo    ActivityRepository
	reservationRepo ReservationRepository
	txManager       TransactionManager
	cache           CacheInvalidator
	logger          Logger
}

// NewService создает новый экземпляр сервиса
func NewService(
	activityRepo ActivityRepository,
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	cache CacheInvalidator,
	logger Logger,
) *Service {
	return &Service{
		activityRepo:    activityRepo,
		reservationRepo: reservationRepo,
		txManager:       txManager,
		cache:           cache,
		logger:          logger,
	}
}

// List возвращает активности; неактивные только по запросу оператора
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.ActivityListResponse, error) {
	list, err := s.activityRepo.List(ctx, domain.ActivityFilter{
		Featured:   req.Featured,
		OnlyActive: !req.IncludeInactive,
	})
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainActivityList(list), nil
}

// GetByID возвращает активность
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ActivityResponse, error) {
	a, err := s.activityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, activityRepo.ErrActivityNotFound) {
			return nil, ErrActivityNotFound
		}
		s.logger.Error("GetByID: repository error for activity id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainActivity(a), nil
}

// Create создает активность
func (s *Service) Create(ctx context.Context, req *models.ActivityRequest) (*models.ActivityResponse, error) {
	s.logger.Info("Create: slug=%q", req.Slug)

	activity, err := toDomain(req)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	created, err := s.activityRepo.Create(ctx, activity)
	if err != nil {
		if errors.Is(err, activityRepo.ErrSlugTaken) {
			s.logger.Warn("Create: slug %q already taken", activity.Slug)
			return nil, ErrSlugTaken
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx)
	s.logger.Info("Create: activity id=%d created", created.ID)
	return models.FromDomainActivity(created), nil
}

// Update заменяет активность. Поля, влияющие на бронирования,
// нельзя менять после появления первого бронирования.
func (s *Service) Update(ctx context.Context, id int64, req *models.ActivityRequest) (*models.ActivityResponse, error) {
	s.logger.Info("Update: activity id=%d", id)

	// 1. Валидация
	next, err := toDomain(req)
	if err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	var result *domain.Activity

	// 2. Проверка блокировки и запись в одной транзакции
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := s.activityRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, activityRepo.ErrActivityNotFound) {
				return ErrActivityNotFound
			}
			return fmt.Errorf("%w: get activity: %v", ErrInternal, err)
		}

		if !current.BookingFieldsEqual(next) {
			used, err := s.reservationRepo.ExistsForActivity(txCtx, id)
			if err != nil {
				return fmt.Errorf("%w: check reservations: %v", ErrInternal, err)
			}
			if used {
				return ErrBookingFieldsLocked
			}
		}

		next.ID = id
		next.CreatedAt = current.CreatedAt
		updated, err := s.activityRepo.Update(txCtx, next)
		if err != nil {
			switch {
			case errors.Is(err, activityRepo.ErrSlugTaken):
				return ErrSlugTaken
			case errors.Is(err, activityRepo.ErrActivityNotFound):
				return ErrActivityNotFound
			}
			return fmt.Errorf("%w: update activity: %v", ErrInternal, err)
		}
		result = updated
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("Update: activity id=%d: %v", id, err)
		} else {
			s.logger.Warn("Update: activity id=%d: %v", id, err)
		}
		return nil, err
	}

	s.invalidate(ctx)
	s.logger.Info("Update: activity id=%d updated", id)
	return models.FromDomainActivity(result), nil
}

// Delete удаляет активность без бронирований вместе с её слотами
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: activity id=%d", id)

	if err := s.activityRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, activityRepo.ErrActivityNotFound):
			return ErrActivityNotFound
		case errors.Is(err, activityRepo.ErrActivityInUse):
			s.logger.Warn("Delete: activity id=%d has reservations", id)
			return ErrActivityInUse
		}
		s.logger.Error("Delete: repository error for activity id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.logger.Warn("activities: cache invalidation failed: %v", err)
	}
}
