package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	capacityRepo "github.com/m04kA/SMC-TourBookingService/internal/infra/storage/capacity"
	"github.com/m04kA/SMC-TourBookingService/pkg/types"
)

type CapacityRepository struct {
	s *Store
}

func (r *CapacityRepository) Create(ctx context.Context, c *domain.Capacity) (*domain.Capacity, error) {
	defer r.s.lock(ctx)()
	t := r.s.t

	if _, ok := t.activities[c.ActivityID]; !ok {
		return nil, capacityRepo.ErrActivityNotFound
	}
	c.Date = domain.DateOnly(c.Date)
	if _, ok := t.slots[c.Key()]; ok {
		return nil, capacityRepo.ErrCapacityExists
	}

	r.insert(c)
	return c, nil
}

// Materialize сохраняет слот, если ключ ещё свободен, и возвращает актуальную строку
func (r *CapacityRepository) Materialize(ctx context.Context, activityID int64, date time.Time, tm types.TimeString, totalSeats int) (*domain.Capacity, error) {
	defer r.s.lock(ctx)()
	t := r.s.t

	if _, ok := t.activities[activityID]; !ok {
		return nil, capacityRepo.ErrActivityNotFound
	}

	key := domain.NewSlotKey(activityID, date, tm)
	if id, ok := t.slots[key]; ok {
		cp := *t.capacity[id]
		return &cp, nil
	}

	c := &domain.Capacity{
		ActivityID: activityID,
		Date:       domain.DateOnly(date),
		Time:       tm,
		TotalSeats: totalSeats,
	}
	r.insert(c)
	return c, nil
}

func (r *CapacityRepository) insert(c *domain.Capacity) {
	t := r.s.t
	t.capacitySeq++
	c.ID = t.capacitySeq
	c.CreatedAt = r.s.now()
	c.UpdatedAt = c.CreatedAt

	cp := *c
	t.capacity[c.ID] = &cp
	t.slots[c.Key()] = c.ID
}

func (r *CapacityRepository) GetByID(ctx context.Context, id int64) (*domain.Capacity, error) {
	defer r.s.lock(ctx)()

	c, ok := r.s.t.capacity[id]
	if !ok {
		return nil, capacityRepo.ErrCapacityNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *CapacityRepository) GetByKey(ctx context.Context, activityID int64, date time.Time, tm types.TimeString) (*domain.Capacity, error) {
	defer r.s.lock(ctx)()

	id, ok := r.s.t.slots[domain.NewSlotKey(activityID, date, tm)]
	if !ok {
		return nil, capacityRepo.ErrCapacityNotFound
	}
	cp := *r.s.t.capacity[id]
	return &cp, nil
}

func (r *CapacityRepository) List(ctx context.Context, filter domain.CapacityFilter) ([]*domain.Capacity, error) {
	defer r.s.lock(ctx)()

	result := make([]*domain.Capacity, 0)
	for _, c := range r.s.t.capacity {
		if filter.ActivityID != nil && c.ActivityID != *filter.ActivityID {
			continue
		}
		if filter.DateFrom != nil && c.Date.Before(domain.DateOnly(*filter.DateFrom)) {
			continue
		}
		if filter.DateTo != nil && c.Date.After(domain.DateOnly(*filter.DateTo)) {
			continue
		}
		cp := *c
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if cmp := a.Time.Compare(b.Time); cmp != 0 {
			return cmp < 0
		}
		return a.ActivityID < b.ActivityID
	})

	return result, nil
}

// Reserve занимает места только если reserved + seats <= total, под блокировкой хранилища
func (r *CapacityRepository) Reserve(ctx context.Context, id int64, seats int) (*domain.Capacity, error) {
	defer r.s.lock(ctx)()

	c, ok := r.s.t.capacity[id]
	if !ok || c.ReservedSeats+seats > c.TotalSeats {
		return nil, capacityRepo.ErrInsufficientSeats
	}
	c.ReservedSeats += seats
	c.UpdatedAt = r.s.now()

	cp := *c
	return &cp, nil
}

func (r *CapacityRepository) Release(ctx context.Context, id int64, seats int) (*domain.Capacity, error) {
	defer r.s.lock(ctx)()

	c, ok := r.s.t.capacity[id]
	if !ok || c.ReservedSeats < seats {
		return nil, capacityRepo.ErrInsufficientReserved
	}
	c.ReservedSeats -= seats
	c.UpdatedAt = r.s.now()

	cp := *c
	return &cp, nil
}

func (r *CapacityRepository) Resize(ctx context.Context, id int64, totalSeats int) (*domain.Capacity, error) {
	defer r.s.lock(ctx)()

	c, ok := r.s.t.capacity[id]
	if !ok {
		return nil, capacityRepo.ErrCapacityNotFound
	}
	if totalSeats < c.ReservedSeats {
		return nil, capacityRepo.ErrBelowReserved
	}
	c.TotalSeats = totalSeats
	c.UpdatedAt = r.s.now()

	cp := *c
	return &cp, nil
}
