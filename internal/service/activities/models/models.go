package models

import (
	"time"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
)

// Request модели

// ActivityRequest тело создания и полной замены активности
type ActivityRequest struct {
	Slug             string   `json:"slug"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Images           []string `json:"images"`
	Price            float64  `json:"price"`
	OriginalPrice    *float64 `json:"originalPrice,omitempty"`
	Currency         string   `json:"currency"`
	DurationMinutes  int      `json:"durationMinutes"`
	Featured         bool     `json:"featured"`
	Rating           float64  `json:"rating"`
	ReviewCount      int      `json:"reviewCount"`
	Active           *bool    `json:"active,omitempty"` // по умолчанию true
	ScheduleWeekdays []int    `json:"scheduleWeekdays"` // 0 = воскресенье; пусто = каждый день
	ScheduleTimes    []string `json:"scheduleTimes"`    // HH:MM; пусто = слот на весь день
	DefaultSeats     int      `json:"defaultSeats"`     // 0 = без расписания
}

// ListRequest фильтр списка активностей
type ListRequest struct {
	Featured        *bool
	IncludeInactive bool
}

// Response модели

// ActivityResponse ответ с данными активности
type ActivityResponse struct {
	ID               int64     `json:"id"`
	Slug             string    `json:"slug"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Images           []string  `json:"images"`
	Price            float64   `json:"price"`
	OriginalPrice    *float64  `json:"originalPrice,omitempty"`
	Currency         string    `json:"currency"`
	DurationMinutes  int       `json:"durationMinutes"`
	Featured         bool      `json:"featured"`
	Rating           float64   `json:"rating"`
	ReviewCount      int       `json:"reviewCount"`
	Active           bool      `json:"active"`
	ScheduleWeekdays []int     `json:"scheduleWeekdays"`
	ScheduleTimes    []string  `json:"scheduleTimes"`
	DefaultSeats     int       `json:"defaultSeats"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ActivityListResponse список активностей
type ActivityListResponse struct {
	Activities []*ActivityResponse `json:"activities"`
	Total      int                 `json:"total"`
}

// FromDomainActivity конвертирует domain модель в response
func FromDomainActivity(a *domain.Activity) *ActivityResponse {
	resp := &ActivityResponse{
		ID:               a.ID,
		Slug:             a.Slug,
		Name:             a.Name,
		Description:      a.Description,
		Images:           a.Images,
		Price:            a.Price,
		OriginalPrice:    a.OriginalPrice,
		Currency:         a.Currency,
		DurationMinutes:  a.DurationMinutes,
		Featured:         a.Featured,
		Rating:           a.Rating,
		ReviewCount:      a.ReviewCount,
		Active:           a.Active,
		ScheduleWeekdays: make([]int, 0, len(a.Schedule.Weekdays)),
		ScheduleTimes:    make([]string, 0, len(a.Schedule.Times)),
		DefaultSeats:     a.Schedule.DefaultSeats,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	for _, d := range a.Schedule.Weekdays {
		resp.ScheduleWeekdays = append(resp.ScheduleWeekdays, int(d))
	}
	for _, t := range a.Schedule.SlotTimes() {
		if !t.IsZero() {
			resp.ScheduleTimes = append(resp.ScheduleTimes, t.String())
		}
	}
	return resp
}

// FromDomainActivityList конвертирует список
func FromDomainActivityList(list []*domain.Activity) *ActivityListResponse {
	resp := &ActivityListResponse{
		Activities: make([]*ActivityResponse, 0, len(list)),
		Total:      len(list),
	}
	for _, a := range list {
		resp.Activities = append(resp.Activities, FromDomainActivity(a))
	}
	return resp
}
