package resolve_capacity

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/pkg/ptr"
)

// MergeSlots combines persisted capacity rows with virtual slots synthesized
// from activity default schedules for each of dates. A persisted row always
// shadows the virtual slot with the same (activity, date, time) key. Virtual
// slots are produced only for active activities. The result is ordered by
// date, time (all-day first), activity name and activity id.
func MergeSlots(rows []*domain.Capacity, activities []*domain.Activity, dates []time.Time) []domain.CapacitySlot {
	byID := make(map[int64]*domain.Activity, len(activities))
	for _, a := range activities {
		byID[a.ID] = a
	}

	seen := make(map[domain.SlotKey]struct{}, len(rows))
	slots := make([]domain.CapacitySlot, 0, len(rows))

	for _, row := range rows {
		key := row.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		slot := domain.CapacitySlot{
			ID:             ptr.Ptr(row.ID),
			ActivityID:     row.ActivityID,
			Date:           domain.DateOnly(row.Date),
			Time:           row.Time,
			TotalSeats:     row.TotalSeats,
			ReservedSeats:  row.ReservedSeats,
			RemainingSeats: row.RemainingSeats(),
		}
		if a, ok := byID[row.ActivityID]; ok {
			slot.ActivitySlug = a.Slug
			slot.ActivityName = a.Name
		}
		slots = append(slots, slot)
	}

	for _, date := range dates {
		date = domain.DateOnly(date)
		for _, a := range activities {
			if !a.IsBookable() || !a.Schedule.OffersDay(date) {
				continue
			}
			for _, t := range a.Schedule.SlotTimes() {
				key := domain.NewSlotKey(a.ID, date, t)
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}

				slots = append(slots, domain.CapacitySlot{
					ActivityID:     a.ID,
					ActivitySlug:   a.Slug,
					ActivityName:   a.Name,
					Date:           date,
					Time:           t,
					TotalSeats:     a.Schedule.DefaultSeats,
					RemainingSeats: a.Schedule.DefaultSeats,
					IsVirtual:      true,
				})
			}
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if cmp := a.Time.Compare(b.Time); cmp != 0 {
			return cmp < 0
		}
		if a.ActivityName != b.ActivityName {
			return a.ActivityName < b.ActivityName
		}
		return a.ActivityID < b.ActivityID
	})

	return slots
}
