package list_reservations

import (
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/internal/service/reservations/models"
	"github.com/m04kA/SMC-TourBookingService/pkg/validation"
)

// ToServiceRequest формирует фильтр из query параметров.
// Используется также выгрузкой XLSX.
func ToServiceRequest(query url.Values) (*models.ListRequest, error) {
	req := &models.ListRequest{}

	if v := query.Get("status"); v != "" {
		req.Status = &v
	}
	if v := query.Get("source"); v != "" {
		req.Source = &v
	}
	if v := query.Get("activityId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, validation.NewFieldError("activityId", "must be a number")
		}
		req.ActivityID = &id
	}

	var err error
	if req.Date, err = parseDate(query, "date"); err != nil {
		return nil, err
	}
	if req.DateFrom, err = parseDate(query, "from"); err != nil {
		return nil, err
	}
	if req.DateTo, err = parseDate(query, "to"); err != nil {
		return nil, err
	}

	if v := query.Get("limit"); v != "" {
		if req.Limit, err = strconv.Atoi(v); err != nil {
			return nil, validation.NewFieldError("limit", "must be a number")
		}
	}
	if v := query.Get("offset"); v != "" {
		if req.Offset, err = strconv.Atoi(v); err != nil {
			return nil, validation.NewFieldError("offset", "must be a number")
		}
	}

	return req, nil
}

func parseDate(query url.Values, key string) (*time.Time, error) {
	v := query.Get(key)
	if v == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(v)
	if err != nil {
		return nil, validation.NewFieldError(key, "must be YYYY-MM-DD")
	}
	return &d, nil
}
