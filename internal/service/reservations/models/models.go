package models

import (
	"time"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
)

// Request модели

// ListRequest фильтры списка бронирований; nil = без фильтра
type ListRequest struct {
	Status     *string
	Source     *string
	ActivityID *int64
	Date       *time.Time
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}

// StatsRequest диапазон статистики по дате слота
type StatsRequest struct {
	From *time.Time
	To   *time.Time
}

// Response модели

// ReservationResponse бронирование в ответах API
type ReservationResponse struct {
	ID            int64      `json:"id"`
	Code          string     `json:"code"`
	ActivityID    int64      `json:"activityId"`
	ActivityName  string     `json:"activityName,omitempty"`
	CapacityID    int64      `json:"capacityId"`
	Date          string     `json:"date"`
	Time          *string    `json:"time"`
	CustomerName  string     `json:"customerName"`
	CustomerEmail string     `json:"customerEmail,omitempty"`
	CustomerPhone string     `json:"customerPhone,omitempty"`
	Seats         int        `json:"seats"`
	Status        string     `json:"status"`
	Source        string     `json:"source"`
	ExternalID    *string    `json:"externalId,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	TotalPrice    float64    `json:"totalPrice"`
	Currency      string     `json:"currency"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	CancelledAt   *time.Time `json:"cancelledAt,omitempty"`
}

// ReservationListResponse страница бронирований
type ReservationListResponse struct {
	Reservations []*ReservationResponse `json:"reservations"`
	Limit        int                    `json:"limit"`
	Offset       int                    `json:"offset"`
}

// StatsResponse агрегаты по бронированиям
type StatsResponse struct {
	From        *string        `json:"from,omitempty"`
	To          *string        `json:"to,omitempty"`
	Total       int            `json:"total"`
	Pending     int            `json:"pending"`
	Confirmed   int            `json:"confirmed"`
	Cancelled   int            `json:"cancelled"`
	SeatsBooked int            `json:"seatsBooked"`
	Revenue     float64        `json:"revenue"`
	BySource    map[string]int `json:"bySource"`
}

// FromDomainReservation конвертирует domain модель в response
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	resp := &ReservationResponse{
		ID:            r.ID,
		Code:          r.Code,
		ActivityID:    r.ActivityID,
		ActivityName:  r.ActivityName,
		CapacityID:    r.CapacityID,
		Date:          r.Date.Format(domain.DateFormat),
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		Seats:         r.Seats,
		Status:        string(r.Status),
		Source:        string(r.Source),
		ExternalID:    r.ExternalID,
		Notes:         r.Notes,
		TotalPrice:    r.TotalPrice,
		Currency:      r.Currency,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		CancelledAt:   r.CancelledAt,
	}
	if !r.Time.IsZero() {
		t := r.Time.String()
		resp.Time = &t
	}
	return resp
}

// FromDomainStats конвертирует агрегаты
func FromDomainStats(s *domain.ReservationStats, from, to *time.Time) *StatsResponse {
	resp := &StatsResponse{
		Total:       s.Total,
		Pending:     s.Pending,
		Confirmed:   s.Confirmed,
		Cancelled:   s.Cancelled,
		SeatsBooked: s.SeatsBooked,
		Revenue:     s.Revenue,
		BySource:    make(map[string]int, len(s.BySource)),
	}
	for src, n := range s.BySource {
		resp.BySource[string(src)] = n
	}
	if from != nil {
		v := from.Format(domain.DateFormat)
		resp.From = &v
	}
	if to != nil {
		v := to.Format(domain.DateFormat)
		resp.To = &v
	}
	return resp
}
