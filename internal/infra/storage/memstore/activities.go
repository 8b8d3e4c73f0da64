package memstore

import (
	"context"
	"sort"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	activityRepo "github.com/m04kA/SMC-TourBookingService/internal/infra/storage/activity"
)

type ActivityRepository struct {
	s *Store
}

func (r *ActivityRepository) Create(ctx context.Context, a *domain.Activity) (*domain.Activity, error) {
	defer r.s.lock(ctx)()
	t := r.s.t

	if r.slugTaken(a.Slug, 0) {
		return nil, activityRepo.ErrSlugTaken
	}

	t.activitySeq++
	a.ID = t.activitySeq
	a.CreatedAt = r.s.now()
	a.UpdatedAt = a.CreatedAt
	t.activities[a.ID] = copyActivity(a)

	return a, nil
}

func (r *ActivityRepository) Update(ctx context.Context, a *domain.Activity) (*domain.Activity, error) {
	defer r.s.lock(ctx)()
	t := r.s.t

	existing, ok := t.activities[a.ID]
	if !ok {
		return nil, activityRepo.ErrActivityNotFound
	}
	if r.slugTaken(a.Slug, a.ID) {
		return nil, activityRepo.ErrSlugTaken
	}

	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = r.s.now()
	t.activities[a.ID] = copyActivity(a)

	return a, nil
}

// Delete удаляет активность и её слоты; бронирования блокируют удаление
func (r *ActivityRepository) Delete(ctx context.Context, id int64) error {
	defer r.s.lock(ctx)()
	t := r.s.t

	if _, ok := t.activities[id]; !ok {
		return activityRepo.ErrActivityNotFound
	}
	for _, res := range t.reservations {
		if res.ActivityID == id {
			return activityRepo.ErrActivityInUse
		}
	}

	for cid, c := range t.capacity {
		if c.ActivityID == id {
			delete(t.slots, c.Key())
			delete(t.capacity, cid)
		}
	}
	delete(t.activities, id)

	return nil
}

func (r *ActivityRepository) GetByID(ctx context.Context, id int64) (*domain.Activity, error) {
	defer r.s.lock(ctx)()

	a, ok := r.s.t.activities[id]
	if !ok {
		return nil, activityRepo.ErrActivityNotFound
	}
	return copyActivity(a), nil
}

func (r *ActivityRepository) GetBySlug(ctx context.Context, slug string) (*domain.Activity, error) {
	defer r.s.lock(ctx)()

	for _, a := range r.s.t.activities {
		if a.Slug == slug {
			return copyActivity(a), nil
		}
	}
	return nil, activityRepo.ErrActivityNotFound
}

func (r *ActivityRepository) List(ctx context.Context, filter domain.ActivityFilter) ([]*domain.Activity, error) {
	defer r.s.lock(ctx)()

	result := make([]*domain.Activity, 0, len(r.s.t.activities))
	for _, a := range r.s.t.activities {
		if filter.Featured != nil && a.Featured != *filter.Featured {
			continue
		}
		if filter.OnlyActive && !a.Active {
			continue
		}
		result = append(result, copyActivity(a))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (r *ActivityRepository) slugTaken(slug string, exceptID int64) bool {
	for id, a := range r.s.t.activities {
		if id != exceptID && a.Slug == slug {
			return true
		}
	}
	return false
}
