package activities

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/internal/service/activities/models"
	"github.com/m04kA/SMC-TourBookingService/pkg/types"
	"github.com/m04kA/SMC-TourBookingService/pkg/validation"
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// toDomain валидирует тело запроса и собирает domain модель
func toDomain(req *models.ActivityRequest) (*domain.Activity, error) {
	slug := strings.TrimSpace(req.Slug)
	if !domain.IsValidSlug(slug) {
		return nil, invalid("slug", "must be lowercase letters, digits and single dashes")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > domain.MaxNameLength {
		return nil, invalid("name", fmt.Sprintf("must be 1 to %d characters", domain.MaxNameLength))
	}

	if req.Price < 0 {
		return nil, invalid("price", "must not be negative")
	}
	if req.OriginalPrice != nil && *req.OriginalPrice < 0 {
		return nil, invalid("originalPrice", "must not be negative")
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	if !currencyPattern.MatchString(currency) {
		return nil, invalid("currency", "must be a 3-letter ISO 4217 code")
	}

	if req.DurationMinutes < 0 || req.DurationMinutes > domain.MaxDurationMinutes {
		return nil, invalid("durationMinutes", "out of range")
	}
	if req.Rating < 0 || req.Rating > 5 {
		return nil, invalid("rating", "must be between 0 and 5")
	}
	if req.ReviewCount < 0 {
		return nil, invalid("reviewCount", "must not be negative")
	}
	if len(req.Images) > domain.MaxImages {
		return nil, invalid("images", fmt.Sprintf("at most %d images", domain.MaxImages))
	}

	schedule, err := toSchedule(req)
	if err != nil {
		return nil, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	images := make([]string, 0, len(req.Images))
	for _, img := range req.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}

	return &domain.Activity{
		Slug:            slug,
		Name:            name,
		Description:     strings.TrimSpace(req.Description),
		Images:          images,
		Price:           req.Price,
		OriginalPrice:   req.OriginalPrice,
		Currency:        currency,
		DurationMinutes: req.DurationMinutes,
		Featured:        req.Featured,
		Rating:          req.Rating,
		ReviewCount:     req.ReviewCount,
		Active:          active,
		Schedule:        schedule,
	}, nil
}

func toSchedule(req *models.ActivityRequest) (domain.Schedule, error) {
	if req.DefaultSeats < 0 || req.DefaultSeats > domain.MaxTotalSeats {
		return domain.Schedule{}, invalid("defaultSeats", fmt.Sprintf("must be 0 to %d", domain.MaxTotalSeats))
	}

	s := domain.Schedule{DefaultSeats: req.DefaultSeats}

	seenDays := make(map[int]bool, len(req.ScheduleWeekdays))
	for _, d := range req.ScheduleWeekdays {
		if d < 0 || d > 6 {
			return domain.Schedule{}, invalid("scheduleWeekdays", "weekday must be 0 (Sunday) to 6")
		}
		if seenDays[d] {
			continue
		}
		seenDays[d] = true
		s.Weekdays = append(s.Weekdays, time.Weekday(d))
	}

	seenTimes := make(map[string]bool, len(req.ScheduleTimes))
	for _, raw := range req.ScheduleTimes {
		t, err := types.NewTimeStringFromString(strings.TrimSpace(raw))
		if err != nil || t.IsZero() {
			return domain.Schedule{}, invalid("scheduleTimes", "times must be HH:MM")
		}
		if seenTimes[t.String()] {
			continue
		}
		seenTimes[t.String()] = true
		s.Times = append(s.Times, t)
	}

	return s, nil
}

func invalid(field, message string) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, validation.NewFieldError(field, message))
}
