package create_reservation

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/pkg/types"
	"github.com/m04kA/SMC-TourBookingService/pkg/validation"
)

const (
	maxExternalIDLength = 200
	maxPhoneLength      = 32
)

// input разобранный и нормализованный запрос
type input struct {
	date   time.Time
	time   types.TimeString
	status domain.ReservationStatus
	source domain.ReservationSource
}

// validateRequest валидирует форму запроса
func validateRequest(req *Request) (*input, error) {
	if req.ActivityID < 0 || (req.ActivityID == 0 && req.ActivitySlug == "") {
		return nil, invalid("activityId", "activityId or slug is required")
	}
	if req.ActivityID == 0 && !domain.IsValidSlug(req.ActivitySlug) {
		return nil, invalid("activityId", "invalid activity slug")
	}

	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return nil, invalid("date", "must be a YYYY-MM-DD date")
	}

	t, err := types.NewTimeStringFromString(req.Time)
	if err != nil {
		return nil, invalid("time", "must be HH:MM")
	}

	if req.Seats < 1 {
		return nil, invalid("seats", "must be at least 1")
	}
	if req.Seats > domain.MaxSeatsPerRequest {
		return nil, invalid("seats", fmt.Sprintf("must not exceed %d", domain.MaxSeatsPerRequest))
	}

	in := &input{date: date, time: t, status: domain.StatusPending, source: domain.SourceDirect}

	if req.Status != "" {
		in.status = domain.ReservationStatus(req.Status)
		if !in.status.IsValid() || in.status == domain.StatusCancelled {
			return nil, invalid("status", "must be pending or confirmed")
		}
	}
	if req.Source != "" {
		in.source = domain.ReservationSource(req.Source)
		if !in.source.IsValid() {
			return nil, invalid("source", "must be direct, woocommerce or whatsapp")
		}
	}

	if req.ExternalID != nil && (*req.ExternalID == "" || len(*req.ExternalID) > maxExternalIDLength) {
		return nil, invalid("externalId", "must be a non-empty string")
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return nil, invalid("notes", fmt.Sprintf("must not exceed %d characters", domain.MaxNotesLength))
	}

	return in, nil
}

// validateCustomer проверяет контактные данные: имя и email или телефон
func validateCustomer(req *Request) error {
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return invalid("customerName", "is required")
	}
	if len(name) > domain.MaxCustomerNameLength {
		return invalid("customerName", fmt.Sprintf("must not exceed %d characters", domain.MaxCustomerNameLength))
	}

	email := strings.TrimSpace(req.CustomerEmail)
	phone := strings.TrimSpace(req.CustomerPhone)
	if email == "" && phone == "" {
		return invalid("customerEmail", "email or phone is required")
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return invalid("customerEmail", "invalid email address")
		}
	}
	if len(phone) > maxPhoneLength {
		return invalid("customerPhone", "invalid phone number")
	}
	return nil
}

func invalid(field, message string) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, validation.NewFieldError(field, message))
}
