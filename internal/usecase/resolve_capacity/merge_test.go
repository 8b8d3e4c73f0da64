package resolve_capacity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/pkg/types"
)

var june1 = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func TestMergeSlots_VirtualWhenNoRow(t *testing.T) {
	city := &domain.Activity{ID: 1, Slug: "city-tour", Name: "City tour", Active: true, Schedule: domain.Schedule{DefaultSeats: 10}}

	slots := MergeSlots(nil, []*domain.Activity{city}, []time.Time{june1})

	require.Len(t, slots, 1)
	assert.True(t, slots[0].IsVirtual)
	assert.Nil(t, slots[0].ID)
	assert.Equal(t, 10, slots[0].RemainingSeats)
	assert.Equal(t, "city-tour", slots[0].ActivitySlug)
}

func TestMergeSlots_RowShadowsVirtual(t *testing.T) {
	city := &domain.Activity{ID: 1, Name: "City tour", Active: true, Schedule: domain.Schedule{DefaultSeats: 10}}
	row := &domain.Capacity{ID: 7, ActivityID: 1, Date: june1, TotalSeats: 10, ReservedSeats: 3}

	slots := MergeSlots([]*domain.Capacity{row}, []*domain.Activity{city}, []time.Time{june1})

	require.Len(t, slots, 1)
	assert.False(t, slots[0].IsVirtual)
	assert.Equal(t, int64(7), *slots[0].ID)
	assert.Equal(t, 7, slots[0].RemainingSeats)
	assert.Equal(t, "City tour", slots[0].ActivityName)
}

func TestMergeSlots_SkipsInactiveAndUnscheduled(t *testing.T) {
	inactive := &domain.Activity{ID: 1, Name: "Closed", Active: false, Schedule: domain.Schedule{DefaultSeats: 10}}
	noDefault := &domain.Activity{ID: 2, Name: "Manual", Active: true}
	weekdays := &domain.Activity{ID: 3, Name: "Weekdays", Active: true, Schedule: domain.Schedule{
		DefaultSeats: 5, Weekdays: []time.Weekday{time.Monday},
	}}

	slots := MergeSlots(nil, []*domain.Activity{inactive, noDefault, weekdays}, []time.Time{june1})
	assert.Empty(t, slots)

	// persisted rows of an inactive activity are still listed
	row := &domain.Capacity{ID: 1, ActivityID: 1, Date: june1, TotalSeats: 4}
	slots = MergeSlots([]*domain.Capacity{row}, []*domain.Activity{inactive}, []time.Time{june1})
	require.Len(t, slots, 1)
	assert.False(t, slots[0].IsVirtual)
}

func TestMergeSlots_Ordering(t *testing.T) {
	boat := &domain.Activity{ID: 2, Name: "Boat", Active: true, Schedule: domain.Schedule{
		DefaultSeats: 6, Times: []types.TimeString{types.MustTimeString("14:00"), types.MustTimeString("09:00")},
	}}
	walk := &domain.Activity{ID: 1, Name: "Walk", Active: true, Schedule: domain.Schedule{DefaultSeats: 10}}
	june2 := june1.AddDate(0, 0, 1)

	slots := MergeSlots(nil, []*domain.Activity{walk, boat}, []time.Time{june2, june1})

	require.Len(t, slots, 6)
	got := make([]string, 0, len(slots))
	for _, s := range slots {
		got = append(got, s.Date.Format(domain.DateFormat)+" "+s.Time.String()+" "+s.ActivityName)
	}
	assert.Equal(t, []string{
		"2024-06-01  Walk",
		"2024-06-01 09:00 Boat",
		"2024-06-01 14:00 Boat",
		"2024-06-02  Walk",
		"2024-06-02 09:00 Boat",
		"2024-06-02 14:00 Boat",
	}, got)
}

func TestMergeSlots_NoDatesMeansPersistedOnly(t *testing.T) {
	walk := &domain.Activity{ID: 1, Name: "Walk", Active: true, Schedule: domain.Schedule{DefaultSeats: 10}}
	row := &domain.Capacity{ID: 3, ActivityID: 1, Date: june1, TotalSeats: 2}

	slots := MergeSlots([]*domain.Capacity{row}, []*domain.Activity{walk}, nil)

	require.Len(t, slots, 1)
	assert.Equal(t, int64(3), *slots[0].ID)
}
