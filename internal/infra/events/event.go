// Package events publishes reservation lifecycle events to RabbitMQ.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
)

// Типы событий; используются как routing key
const (
	TypeReservationCreated   = "reservation.created"
	TypeReservationCancelled = "reservation.cancelled"
)

// ReservationEvent is published after a reservation transaction commits.
// It carries enough to notify the customer without querying the database.
type ReservationEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`

	ReservationID int64   `json:"reservation_id"`
	Code          string  `json:"code"`
	ActivityID    int64   `json:"activity_id"`
	CapacityID    int64   `json:"capacity_id"`
	Date          string  `json:"date"`
	Time          string  `json:"time,omitempty"`
	Seats         int     `json:"seats"`
	Status        string  `json:"status"`
	Source        string  `json:"source"`
	ExternalID    string  `json:"external_id,omitempty"`
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email,omitempty"`
	CustomerPhone string  `json:"customer_phone,omitempty"`
	TotalPrice    float64 `json:"total_price"`
	Currency      string  `json:"currency"`
}

// NewReservationEvent builds an event of the given type for r
func NewReservationEvent(eventType string, r *domain.Reservation, at time.Time) ReservationEvent {
	e := ReservationEvent{
		ID:            uuid.NewString(),
		Type:          eventType,
		OccurredAt:    at.UTC(),
		ReservationID: r.ID,
		Code:          r.Code,
		ActivityID:    r.ActivityID,
		CapacityID:    r.CapacityID,
		Date:          r.Date.Format(domain.DateFormat),
		Time:          r.Time.String(),
		Seats:         r.Seats,
		Status:        string(r.Status),
		Source:        string(r.Source),
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		TotalPrice:    r.TotalPrice,
		Currency:      r.Currency,
	}
	if r.ExternalID != nil {
		e.ExternalID = *r.ExternalID
	}
	return e
}
