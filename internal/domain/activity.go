package domain

import (
	"regexp"
	"sort"
	"time"

	"github.com/m04kA/SMC-TourBookingService/pkg/types"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// IsValidSlug reports whether s is a lowercase URL-safe slug
func IsValidSlug(s string) bool {
	return len(s) <= MaxSlugLength && slugPattern.MatchString(s)
}

// Activity represents a bookable tour or experience
type Activity struct {
	ID              int64
	Slug            string
	Name            string
	Description     string
	Images          []string
	Price           float64
	OriginalPrice   *float64
	Currency        string
	DurationMinutes int
	Featured        bool
	Rating          float64
	ReviewCount     int
	Active          bool
	Schedule        Schedule
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Schedule is the recurring template used when no capacity row exists for a slot.
// Empty Weekdays means every day; empty Times means a single all-day slot.
// DefaultSeats of zero disables the template.
type Schedule struct {
	Weekdays     []time.Weekday
	Times        []types.TimeString
	DefaultSeats int
}

// HasDefault returns true if the schedule produces virtual slots
func (s Schedule) HasDefault() bool {
	return s.DefaultSeats > 0
}

// OffersDay returns true if the schedule runs on the weekday of date
func (s Schedule) OffersDay(date time.Time) bool {
	if !s.HasDefault() {
		return false
	}
	if len(s.Weekdays) == 0 {
		return true
	}
	wd := date.Weekday()
	for _, d := range s.Weekdays {
		if d == wd {
			return true
		}
	}
	return false
}

// SlotTimes returns the schedule start times in ascending order.
// A schedule without times yields one zero (all-day) entry.
func (s Schedule) SlotTimes() []types.TimeString {
	if len(s.Times) == 0 {
		return []types.TimeString{{}}
	}
	out := make([]types.TimeString, len(s.Times))
	copy(out, s.Times)
	sort.Slice(out, func(i, j int) bool { return out[i].IsBefore(out[j]) })
	return out
}

// Offers returns true if the schedule produces a slot at (date, t)
func (s Schedule) Offers(date time.Time, t types.TimeString) bool {
	if !s.OffersDay(date) {
		return false
	}
	for _, st := range s.SlotTimes() {
		if st.Compare(t) == 0 {
			return true
		}
	}
	return false
}

// IsBookable returns true if reservations may be admitted against the activity
func (a *Activity) IsBookable() bool {
	return a.Active
}

// BookingFieldsEqual reports whether the fields that affect existing reservations
// are the same in a and b. Name, description, images, featured and rating are free to change.
func (a *Activity) BookingFieldsEqual(b *Activity) bool {
	if a.Slug != b.Slug ||
		a.Price != b.Price ||
		a.Currency != b.Currency ||
		a.DurationMinutes != b.DurationMinutes ||
		a.Active != b.Active ||
		a.Schedule.DefaultSeats != b.Schedule.DefaultSeats {
		return false
	}
	if (a.OriginalPrice == nil) != (b.OriginalPrice == nil) {
		return false
	}
	if a.OriginalPrice != nil && *a.OriginalPrice != *b.OriginalPrice {
		return false
	}
	if !sameWeekdays(a.Schedule.Weekdays, b.Schedule.Weekdays) {
		return false
	}
	at, bt := a.Schedule.Times, b.Schedule.Times
	if len(at) != len(bt) {
		return false
	}
	as, bs := a.Schedule.SlotTimes(), b.Schedule.SlotTimes()
	for i := range as {
		if as[i].Compare(bs[i]) != 0 {
			return false
		}
	}
	return true
}

func sameWeekdays(a, b []time.Weekday) bool {
	if len(a) != len(b) {
		return false
	}
	var setA, setB [7]bool
	for _, d := range a {
		setA[d%7] = true
	}
	for _, d := range b {
		setB[d%7] = true
	}
	return setA == setB
}

// ActivityFilter фильтр списка активностей
type ActivityFilter struct {
	Featured   *bool
	OnlyActive bool
}
