package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-TourBookingService/pkg/ptr"
	"github.com/m04kA/SMC-TourBookingService/pkg/types"
)

func TestIsValidSlug(t *testing.T) {
	assert.True(t, IsValidSlug("city-tour"))
	assert.True(t, IsValidSlug("tour2"))
	assert.False(t, IsValidSlug("City-Tour"))
	assert.False(t, IsValidSlug("city--tour"))
	assert.False(t, IsValidSlug("-city"))
	assert.False(t, IsValidSlug(""))
}

func TestSchedule_Offers(t *testing.T) {
	saturday := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	sunday := saturday.AddDate(0, 0, 1)

	everyDay := Schedule{DefaultSeats: 10}
	assert.True(t, everyDay.Offers(saturday, types.TimeString{}))
	assert.False(t, everyDay.Offers(saturday, types.MustTimeString("10:00")))

	weekend := Schedule{
		Weekdays:     []time.Weekday{time.Saturday},
		Times:        []types.TimeString{types.MustTimeString("14:00"), types.MustTimeString("09:00")},
		DefaultSeats: 8,
	}
	assert.True(t, weekend.Offers(saturday, types.MustTimeString("09:00")))
	assert.False(t, weekend.Offers(sunday, types.MustTimeString("09:00")))
	assert.False(t, weekend.Offers(saturday, types.TimeString{}))
	assert.Equal(t, "09:00", weekend.SlotTimes()[0].String())

	disabled := Schedule{}
	assert.False(t, disabled.OffersDay(saturday))
}

func TestActivity_BookingFieldsEqual(t *testing.T) {
	base := &Activity{
		Slug: "city-tour", Name: "City tour", Price: 25, Currency: "EUR", Active: true,
		Schedule: Schedule{DefaultSeats: 10, Weekdays: []time.Weekday{time.Monday, time.Friday}},
	}

	renamed := *base
	renamed.Name = "Old town walk"
	renamed.Description = "new text"
	renamed.Images = []string{"a.jpg"}
	assert.True(t, base.BookingFieldsEqual(&renamed))

	reordered := *base
	reordered.Schedule.Weekdays = []time.Weekday{time.Friday, time.Monday}
	assert.True(t, base.BookingFieldsEqual(&reordered))

	repriced := *base
	repriced.Price = 30
	assert.False(t, base.BookingFieldsEqual(&repriced))

	discounted := *base
	discounted.OriginalPrice = ptr.Ptr(40.0)
	assert.False(t, base.BookingFieldsEqual(&discounted))

	reseated := *base
	reseated.Schedule.DefaultSeats = 12
	assert.False(t, base.BookingFieldsEqual(&reseated))
}

func TestCapacity_KeyAndRemaining(t *testing.T) {
	c := &Capacity{ActivityID: 3, Date: time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC), TotalSeats: 10, ReservedSeats: 3}
	assert.Equal(t, 7, c.RemainingSeats())
	assert.Equal(t, SlotKey{ActivityID: 3, Date: "2024-06-01"}, c.Key())
}
