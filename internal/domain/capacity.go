package domain

import (
	"time"

	"github.com/m04kA/SMC-TourBookingService/pkg/types"
)

// Capacity is a persisted bookable slot. 0 <= ReservedSeats <= TotalSeats always holds.
type Capacity struct {
	ID            int64
	ActivityID    int64
	Date          time.Time
	Time          types.TimeString // zero = all-day
	TotalSeats    int
	ReservedSeats int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RemainingSeats returns the number of seats still available
func (c *Capacity) RemainingSeats() int {
	return c.TotalSeats - c.ReservedSeats
}

// Key returns the slot identity of the row
func (c *Capacity) Key() SlotKey {
	return NewSlotKey(c.ActivityID, c.Date, c.Time)
}

// SlotKey identifies a slot by (activity, date, time)
type SlotKey struct {
	ActivityID int64
	Date       string // YYYY-MM-DD
	Time       types.TimeString
}

// NewSlotKey builds a key, truncating date to the calendar day
func NewSlotKey(activityID int64, date time.Time, t types.TimeString) SlotKey {
	return SlotKey{ActivityID: activityID, Date: date.Format(DateFormat), Time: t}
}

// CapacitySlot is a resolved slot: either a persisted row or a virtual one
// synthesized from the activity default schedule
type CapacitySlot struct {
	ID             *int64 // nil for virtual slots
	ActivityID     int64
	ActivitySlug   string
	ActivityName   string
	Date           time.Time
	Time           types.TimeString
	TotalSeats     int
	ReservedSeats  int
	RemainingSeats int
	IsVirtual      bool
}

// IsFull returns true if the slot has no seats left
func (s *CapacitySlot) IsFull() bool {
	return s.RemainingSeats <= 0
}

// CapacityFilter фильтр выборки сохранённых слотов; даты включительно
type CapacityFilter struct {
	ActivityID *int64
	DateFrom   *time.Time
	DateTo     *time.Time
}

// DateOnly truncates t to midnight UTC of its calendar day
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a UTC date
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateFormat, s, time.UTC)
}
