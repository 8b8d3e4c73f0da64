package create_reservation

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	createReservation "github.com/m04kA/SMC-TourBookingService/internal/usecase/create_reservation"
)

// ActivityRef принимает activityId числом, строкой с числом или slug
type ActivityRef struct {
	ID   int64
	Slug string
}

func (a *ActivityRef) UnmarshalJSON(data []byte) error {
	var id int64
	if err := json.Unmarshal(data, &id); err == nil {
		a.ID = id
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("activityId must be a number or a slug")
	}
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		a.ID = n
		return nil
	}
	a.Slug = s
	return nil
}

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	ActivityID    ActivityRef `json:"activityId"`
	Date          string      `json:"date"`           // "2024-06-01"
	Time          string      `json:"time,omitempty"` // "10:00", пусто = весь день
	Seats         int         `json:"seats"`
	CustomerName  string      `json:"customerName"`
	CustomerEmail string      `json:"customerEmail,omitempty"`
	CustomerPhone string      `json:"customerPhone,omitempty"`
	Status        string      `json:"status,omitempty"`
	Source        string      `json:"source,omitempty"`
	ExternalID    *string     `json:"externalId,omitempty"`
	Notes         *string     `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Статус, источник и внешний id задаёт только оператор, публичные запросы всегда pending и direct.
func (r *CreateReservationRequest) ToUseCaseRequest(operator bool) *createReservation.Request {
	req := &createReservation.Request{
		ActivityID:    r.ActivityID.ID,
		ActivitySlug:  r.ActivityID.Slug,
		Date:          r.Date,
		Time:          r.Time,
		Seats:         r.Seats,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		Notes:         r.Notes,
	}
	if operator {
		req.Status = r.Status
		req.Source = r.Source
		req.ExternalID = r.ExternalID
	}
	return req
}
