package models

import (
	"time"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
)

// Request модели

// CreateCapacityRequest тело создания слота
type CreateCapacityRequest struct {
	ActivityID int64  `json:"activityId"`
	Date       string `json:"date"`
	Time       string `json:"time,omitempty"` // пусто = весь день
	TotalSeats int    `json:"totalSeats"`
}

// ResizeCapacityRequest изменение вместимости
type ResizeCapacityRequest struct {
	TotalSeats int `json:"totalSeats"`
}

// Response модели

// SlotResponse слот в ответах API: сохранённый или виртуальный
type SlotResponse struct {
	ID             *int64  `json:"id"`
	ActivityID     int64   `json:"activityId"`
	ActivitySlug   string  `json:"activitySlug,omitempty"`
	ActivityName   string  `json:"activityName,omitempty"`
	Date           string  `json:"date"`
	Time           *string `json:"time"`
	TotalSeats     int     `json:"totalSeats"`
	ReservedSeats  int     `json:"reservedSeats"`
	RemainingSeats int     `json:"remainingSeats"`
	IsVirtual      bool    `json:"isVirtual"`
}

// SlotListResponse список слотов
type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
	Total int            `json:"total"`
}

// CapacityResponse сохранённая строка вместимости
type CapacityResponse struct {
	SlotResponse
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromDomainSlot конвертирует разрешённый слот
func FromDomainSlot(s domain.CapacitySlot) SlotResponse {
	return SlotResponse{
		ID:             s.ID,
		ActivityID:     s.ActivityID,
		ActivitySlug:   s.ActivitySlug,
		ActivityName:   s.ActivityName,
		Date:           s.Date.Format(domain.DateFormat),
		Time:           timePtr(s.Time.String()),
		TotalSeats:     s.TotalSeats,
		ReservedSeats:  s.ReservedSeats,
		RemainingSeats: s.RemainingSeats,
		IsVirtual:      s.IsVirtual,
	}
}

// FromDomainSlots конвертирует список слотов
func FromDomainSlots(slots []domain.CapacitySlot) *SlotListResponse {
	resp := &SlotListResponse{Slots: make([]SlotResponse, 0, len(slots)), Total: len(slots)}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, FromDomainSlot(s))
	}
	return resp
}

// FromDomainCapacity конвертирует строку вместимости
func FromDomainCapacity(c *domain.Capacity) *CapacityResponse {
	id := c.ID
	return &CapacityResponse{
		SlotResponse: SlotResponse{
			ID:             &id,
			ActivityID:     c.ActivityID,
			Date:           c.Date.Format(domain.DateFormat),
			Time:           timePtr(c.Time.String()),
			TotalSeats:     c.TotalSeats,
			ReservedSeats:  c.ReservedSeats,
			RemainingSeats: c.RemainingSeats(),
		},
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func timePtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
