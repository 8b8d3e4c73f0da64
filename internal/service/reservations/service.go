package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-TourBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-TourBookingService/internal/service/reservations/models"
	"github.com/m04kA/SMC-TourBookingService/pkg/validation"
)

// Service операторское чтение бронирований
type Service struct {
	reservationRepo ReservationRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса
func NewService(reservationRepo ReservationRepository, logger Logger) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		logger:          logger,
	}
}

// GetByID возвращает бронирование
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ReservationResponse, error) {
	r, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainReservation(r), nil
}

// List возвращает страницу бронирований, новые первыми
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.ReservationListResponse, error) {
	filter, err := toFilter(req)
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, err
	}

	list, err := s.reservationRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	resp := &models.ReservationListResponse{
		Reservations: make([]*models.ReservationResponse, 0, len(list)),
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	}
	for _, r := range list {
		resp.Reservations = append(resp.Reservations, models.FromDomainReservation(r))
	}
	return resp, nil
}

// Stats считает агрегаты за диапазон дат слотов
func (s *Service) Stats(ctx context.Context, req *models.StatsRequest) (*models.StatsResponse, error) {
	if req.From != nil && req.To != nil && req.To.Before(*req.From) {
		return nil, invalid("to", "must not be before from")
	}

	stats, err := s.reservationRepo.Stats(ctx, domain.StatsFilter{DateFrom: req.From, DateTo: req.To})
	if err != nil {
		s.logger.Error("Stats: repository error: %v", err)
		return nil, fmt.Errorf("%w: Stats - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainStats(stats, req.From, req.To), nil
}

func toFilter(req *models.ListRequest) (domain.ReservationFilter, error) {
	filter := domain.ReservationFilter{
		ActivityID: req.ActivityID,
		DateFrom:   req.DateFrom,
		DateTo:     req.DateTo,
		Limit:      req.Limit,
		Offset:     req.Offset,
	}

	if req.Status != nil {
		st := domain.ReservationStatus(*req.Status)
		if !st.IsValid() {
			return filter, invalid("status", "must be pending, confirmed or cancelled")
		}
		filter.Status = &st
	}
	if req.Source != nil {
		src := domain.ReservationSource(*req.Source)
		if !src.IsValid() {
			return filter, invalid("source", "must be direct, woocommerce or whatsapp")
		}
		filter.Source = &src
	}
	if req.ActivityID != nil && *req.ActivityID <= 0 {
		return filter, invalid("activityId", "must be a positive integer")
	}
	// date сужает выборку до одного дня
	if req.Date != nil {
		filter.DateFrom = req.Date
		filter.DateTo = req.Date
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return filter, invalid("to", "must not be before from")
	}

	switch {
	case filter.Limit == 0:
		filter.Limit = domain.DefaultListLimit
	case filter.Limit < 0 || filter.Limit > domain.MaxListLimit:
		return filter, invalid("limit", fmt.Sprintf("must be 1 to %d", domain.MaxListLimit))
	}
	if filter.Offset < 0 {
		return filter, invalid("offset", "must not be negative")
	}
	return filter, nil
}

func invalid(field, message string) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, validation.NewFieldError(field, message))
}
