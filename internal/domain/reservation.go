package domain

import (
	"time"

	"github.com/m04kA/SMC-TourBookingService/pkg/types"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
)

// IsValid returns true for known statuses
func (s ReservationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// ReservationSource tells where a reservation came from
type ReservationSource string

const (
	SourceDirect      ReservationSource = "direct"
	SourceWooCommerce ReservationSource = "woocommerce"
	SourceWhatsApp    ReservationSource = "whatsapp"
)

// IsValid returns true for known sources
func (s ReservationSource) IsValid() bool {
	switch s {
	case SourceDirect, SourceWooCommerce, SourceWhatsApp:
		return true
	}
	return false
}

// Reservation represents seats held on a capacity slot
type Reservation struct {
	ID            int64
	Code          string // customer-facing reference (UUID)
	ActivityID    int64
	CapacityID    int64
	Date          time.Time
	Time          types.TimeString
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Seats         int
	Status        ReservationStatus
	Source        ReservationSource
	ExternalID    *string // unique per source
	Notes         *string
	TotalPrice    float64
	Currency      string

	// Denormalized for listings and export
	ActivityName string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CancelledAt *time.Time
}

// IsActive returns true if the reservation holds seats
func (r *Reservation) IsActive() bool {
	return r.Status != StatusCancelled
}

// IsCancelled returns true if the reservation has been cancelled
func (r *Reservation) IsCancelled() bool {
	return r.Status == StatusCancelled
}

// ReservationFilter фильтр списка бронирований; даты включительно
type ReservationFilter struct {
	Status     *ReservationStatus
	Source     *ReservationSource
	ActivityID *int64
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}

// ReservationStats aggregated counters over a date range
type ReservationStats struct {
	Total       int
	Pending     int
	Confirmed   int
	Cancelled   int
	SeatsBooked int     // seats held by non-cancelled reservations
	Revenue     float64 // sum of total price over confirmed reservations
	BySource    map[ReservationSource]int
}

// StatsFilter диапазон дат для статистики (по дате слота)
type StatsFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
}

// StatsGroup is one (source, status) bucket as returned by storage
type StatsGroup struct {
	Source ReservationSource
	Status ReservationStatus
	Count  int
	Seats  int
	Amount float64
}

// AggregateStats folds storage buckets into ReservationStats
func AggregateStats(groups []StatsGroup) *ReservationStats {
	stats := &ReservationStats{BySource: make(map[ReservationSource]int)}
	for _, g := range groups {
		stats.Total += g.Count
		stats.BySource[g.Source] += g.Count
		switch g.Status {
		case StatusPending:
			stats.Pending += g.Count
			stats.SeatsBooked += g.Seats
		case StatusConfirmed:
			stats.Confirmed += g.Count
			stats.SeatsBooked += g.Seats
			stats.Revenue += g.Amount
		case StatusCancelled:
			stats.Cancelled += g.Count
		}
	}
	return stats
}
