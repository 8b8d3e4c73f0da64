package resolve_capacity

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/pkg/validation"
)

// dateRange разобранный диапазон запроса; пустой, если даты не заданы
type dateRange struct {
	from, to *time.Time
}

func (r dateRange) days() []time.Time {
	if r.from == nil {
		return nil
	}
	var out []time.Time
	for d := *r.from; !d.After(*r.to); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

func (r dateRange) single() bool {
	return r.from != nil && r.from.Equal(*r.to)
}

// validateRequest разбирает даты запроса
func validateRequest(req *Request, maxRangeDays int) (dateRange, error) {
	if req.Date != "" {
		if req.From != "" || req.To != "" {
			return dateRange{}, invalid("date", "use either date or from/to")
		}
		d, err := domain.ParseDate(req.Date)
		if err != nil {
			return dateRange{}, invalid("date", "must be a YYYY-MM-DD date")
		}
		return dateRange{from: &d, to: &d}, nil
	}

	if req.From == "" && req.To == "" {
		return dateRange{}, nil
	}
	if req.From == "" {
		return dateRange{}, invalid("from", "is required with to")
	}
	if req.To == "" {
		return dateRange{}, invalid("to", "is required with from")
	}

	from, err := domain.ParseDate(req.From)
	if err != nil {
		return dateRange{}, invalid("from", "must be a YYYY-MM-DD date")
	}
	to, err := domain.ParseDate(req.To)
	if err != nil {
		return dateRange{}, invalid("to", "must be a YYYY-MM-DD date")
	}
	if to.Before(from) {
		return dateRange{}, invalid("to", "must not be before from")
	}
	if days := int(to.Sub(from).Hours()/24) + 1; days > maxRangeDays {
		return dateRange{}, invalid("to", fmt.Sprintf("range must not exceed %d days", maxRangeDays))
	}

	return dateRange{from: &from, to: &to}, nil
}

func invalid(field, message string) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, validation.NewFieldError(field, message))
}
