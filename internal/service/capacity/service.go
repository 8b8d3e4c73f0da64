package capacity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	capacityRepo "github.com/m04kA/SMC-TourBookingService/internal/infra/storage/capacity"
	"github.com/m04kA/SMC-TourBookingService/internal/service/capacity/models"
	"github.com/m04kA/SMC-TourBookingService/pkg/types"
	"github.com/m04kA/SMC-TourBookingService/pkg/validation"
)

// Service операторское управление строками вместимости
type Service struct {
	capacityRepo CapacityRepository
	cache        CacheInvalidator
	logger       Logger
}

// NewService создает новый экземпляр сервиса
func NewService(capacityRepo CapacityRepository, cache CacheInvalidator, logger Logger) *Service {
	return &Service{
		capacityRepo: capacityRepo,
		cache:        cache,
		logger:       logger,
	}
}

// Create сохраняет слот; ключ (activity, date, time) уникален
func (s *Service) Create(ctx context.Context, req *models.CreateCapacityRequest) (*models.CapacityResponse, error) {
	s.logger.Info("Create: activity_id=%d, date=%s, time=%q", req.ActivityID, req.Date, req.Time)

	if req.ActivityID <= 0 {
		return nil, invalid("activityId", "must be a positive integer")
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return nil, invalid("date", "must be YYYY-MM-DD")
	}
	tm, err := types.NewTimeStringFromString(strings.TrimSpace(req.Time))
	if err != nil {
		return nil, invalid("time", "must be HH:MM")
	}
	if err := validateSeats(req.TotalSeats); err != nil {
		return nil, err
	}

	created, err := s.capacityRepo.Create(ctx, &domain.Capacity{
		ActivityID: req.ActivityID,
		Date:       date,
		Time:       tm,
		TotalSeats: req.TotalSeats,
	})
	if err != nil {
		switch {
		case errors.Is(err, capacityRepo.ErrActivityNotFound):
			return nil, ErrActivityNotFound
		case errors.Is(err, capacityRepo.ErrCapacityExists):
			s.logger.Warn("Create: slot already exists for activity_id=%d, date=%s", req.ActivityID, req.Date)
			return nil, ErrCapacityExists
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, created.Date.Format(domain.DateFormat))
	s.logger.Info("Create: slot id=%d created", created.ID)
	return models.FromDomainCapacity(created), nil
}

// Resize меняет totalSeats, не опускаясь ниже reservedSeats
func (s *Service) Resize(ctx context.Context, id int64, req *models.ResizeCapacityRequest) (*models.CapacityResponse, error) {
	s.logger.Info("Resize: slot id=%d, total_seats=%d", id, req.TotalSeats)

	if id <= 0 {
		return nil, ErrCapacityNotFound
	}
	if err := validateSeats(req.TotalSeats); err != nil {
		return nil, err
	}

	updated, err := s.capacityRepo.Resize(ctx, id, req.TotalSeats)
	if err != nil {
		switch {
		case errors.Is(err, capacityRepo.ErrCapacityNotFound):
			return nil, ErrCapacityNotFound
		case errors.Is(err, capacityRepo.ErrBelowReserved):
			s.logger.Warn("Resize: slot id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: %w", ErrBelowReserved, validation.NewFieldError("totalSeats", "must not be below reserved seats"))
		}
		s.logger.Error("Resize: repository error for slot id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Resize - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, updated.Date.Format(domain.DateFormat))
	return models.FromDomainCapacity(updated), nil
}

func validateSeats(total int) error {
	if total < 1 || total > domain.MaxTotalSeats {
		return invalid("totalSeats", fmt.Sprintf("must be 1 to %d", domain.MaxTotalSeats))
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context, date string) {
	if err := s.cache.Invalidate(ctx, date); err != nil {
		s.logger.Warn("capacity: cache invalidation failed for %s: %v", date, err)
	}
}

func invalid(field, message string) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, validation.NewFieldError(field, message))
}
