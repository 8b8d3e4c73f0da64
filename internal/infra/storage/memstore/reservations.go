package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-TourBookingService/internal/infra/storage/reservation"
)

type ReservationRepository struct {
	s *Store
}

func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	defer r.s.lock(ctx)()
	t := r.s.t

	var key externalKey
	if res.ExternalID != nil {
		key = externalKey{source: res.Source, id: *res.ExternalID}
		if _, ok := t.external[key]; ok {
			return nil, reservationRepo.ErrDuplicateExternalID
		}
	}

	t.reservationSeq++
	res.ID = t.reservationSeq
	res.Date = domain.DateOnly(res.Date)
	res.CreatedAt = r.s.now()
	res.UpdatedAt = res.CreatedAt
	if a, ok := t.activities[res.ActivityID]; ok {
		res.ActivityName = a.Name
	}

	t.reservations[res.ID] = copyReservation(res)
	if res.ExternalID != nil {
		t.external[key] = res.ID
	}

	return res, nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	defer r.s.lock(ctx)()

	res, ok := r.s.t.reservations[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return copyReservation(res), nil
}

func (r *ReservationRepository) GetByExternalID(ctx context.Context, source domain.ReservationSource, externalID string) (*domain.Reservation, error) {
	defer r.s.lock(ctx)()

	id, ok := r.s.t.external[externalKey{source: source, id: externalID}]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return copyReservation(r.s.t.reservations[id]), nil
}

func (r *ReservationRepository) List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	defer r.s.lock(ctx)()

	result := make([]*domain.Reservation, 0)
	for _, res := range r.s.t.reservations {
		if matches(res, filter) {
			result = append(result, copyReservation(res))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []*domain.Reservation{}, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}

	return result, nil
}

func matches(res *domain.Reservation, filter domain.ReservationFilter) bool {
	if filter.Status != nil && res.Status != *filter.Status {
		return false
	}
	if filter.Source != nil && res.Source != *filter.Source {
		return false
	}
	if filter.ActivityID != nil && res.ActivityID != *filter.ActivityID {
		return false
	}
	return inRange(res.Date, filter.DateFrom, filter.DateTo)
}

func inRange(date time.Time, from, to *time.Time) bool {
	if from != nil && date.Before(domain.DateOnly(*from)) {
		return false
	}
	if to != nil && date.After(domain.DateOnly(*to)) {
		return false
	}
	return true
}

func (r *ReservationRepository) MarkCancelled(ctx context.Context, id int64, at time.Time) error {
	defer r.s.lock(ctx)()

	res, ok := r.s.t.reservations[id]
	if !ok || res.Status == domain.StatusCancelled {
		return reservationRepo.ErrStatusConflict
	}
	res.Status = domain.StatusCancelled
	res.CancelledAt = &at
	res.UpdatedAt = r.s.now()

	return nil
}

func (r *ReservationRepository) Confirm(ctx context.Context, id int64) error {
	defer r.s.lock(ctx)()

	res, ok := r.s.t.reservations[id]
	if !ok || res.Status != domain.StatusPending {
		return reservationRepo.ErrStatusConflict
	}
	res.Status = domain.StatusConfirmed
	res.UpdatedAt = r.s.now()

	return nil
}

func (r *ReservationRepository) ExistsForActivity(ctx context.Context, activityID int64) (bool, error) {
	defer r.s.lock(ctx)()

	for _, res := range r.s.t.reservations {
		if res.ActivityID == activityID {
			return true, nil
		}
	}
	return false, nil
}

func (r *ReservationRepository) Stats(ctx context.Context, filter domain.StatsFilter) (*domain.ReservationStats, error) {
	defer r.s.lock(ctx)()

	type bucket struct {
		source domain.ReservationSource
		status domain.ReservationStatus
	}
	acc := make(map[bucket]*domain.StatsGroup)
	for _, res := range r.s.t.reservations {
		if !inRange(res.Date, filter.DateFrom, filter.DateTo) {
			continue
		}
		b := bucket{res.Source, res.Status}
		g, ok := acc[b]
		if !ok {
			g = &domain.StatsGroup{Source: res.Source, Status: res.Status}
			acc[b] = g
		}
		g.Count++
		g.Seats += res.Seats
		g.Amount += res.TotalPrice
	}

	groups := make([]domain.StatsGroup, 0, len(acc))
	for _, g := range acc {
		groups = append(groups, *g)
	}
	return domain.AggregateStats(groups), nil
}
