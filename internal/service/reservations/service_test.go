package reservations

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/internal/infra/storage/memstore"
	"github.com/m04kA/SMC-TourBookingService/internal/service/reservations/models"
	"github.com/m04kA/SMC-TourBookingService/pkg/logger"
	"github.com/m04kA/SMC-TourBookingService/pkg/ptr"
	"github.com/m04kA/SMC-TourBookingService/pkg/types"
	"github.com/m04kA/SMC-TourBookingService/pkg/validation"
)

var (
	june1 = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	june2 = june1.AddDate(0, 0, 1)
)

func seed(t *testing.T) (*Service, *memstore.Store) {
	t.Helper()
	ctx := context.Background()
	s := memstore.New()

	a, err := s.Activities().Create(ctx, &domain.Activity{Slug: "city-tour", Name: "City tour", Price: 20, Currency: "EUR", Active: true})
	require.NoError(t, err)

	add := func(date time.Time, seats int, status domain.ReservationStatus, source domain.ReservationSource) {
		_, err := s.Reservations().Create(ctx, &domain.Reservation{
			Code: "c", ActivityID: a.ID, Date: date, Time: types.MustTimeString("10:00"), Seats: seats,
			CustomerName: "Ann", Status: status, Source: source, TotalPrice: float64(seats) * 20, Currency: "EUR",
		})
		require.NoError(t, err)
	}
	add(june1, 2, domain.StatusConfirmed, domain.SourceDirect)
	add(june1, 1, domain.StatusPending, domain.SourceWhatsApp)
	add(june2, 3, domain.StatusCancelled, domain.SourceWooCommerce)
	add(june2, 4, domain.StatusConfirmed, domain.SourceWooCommerce)

	return NewService(s.Reservations(), logger.NewNop()), s
}

func TestService_ListFilters(t *testing.T) {
	ctx := context.Background()
	svc, _ := seed(t)

	all, err := svc.List(ctx, &models.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Reservations, 4)
	assert.Equal(t, domain.DefaultListLimit, all.Limit)

	byDate, err := svc.List(ctx, &models.ListRequest{Date: &june2})
	require.NoError(t, err)
	assert.Len(t, byDate.Reservations, 2)

	bySource, err := svc.List(ctx, &models.ListRequest{Source: ptr.Ptr("woocommerce"), Status: ptr.Ptr("confirmed")})
	require.NoError(t, err)
	require.Len(t, bySource.Reservations, 1)
	assert.Equal(t, 4, bySource.Reservations[0].Seats)
	require.NotNil(t, bySource.Reservations[0].Time)
	assert.Equal(t, "10:00", *bySource.Reservations[0].Time)

	page, err := svc.List(ctx, &models.ListRequest{Limit: 3, Offset: 3})
	require.NoError(t, err)
	assert.Len(t, page.Reservations, 1)
}

func TestService_ListValidation(t *testing.T) {
	svc, _ := seed(t)

	tests := []struct {
		name  string
		req   models.ListRequest
		field string
	}{
		{name: "status", req: models.ListRequest{Status: ptr.Ptr("done")}, field: "status"},
		{name: "source", req: models.ListRequest{Source: ptr.Ptr("email")}, field: "source"},
		{name: "limit", req: models.ListRequest{Limit: domain.MaxListLimit + 1}, field: "limit"},
		{name: "offset", req: models.ListRequest{Offset: -1}, field: "offset"},
		{name: "range", req: models.ListRequest{DateFrom: &june2, DateTo: &june1}, field: "to"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.List(context.Background(), &tt.req)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, tt.field, validation.Field(err))
		})
	}
}

func TestService_Stats(t *testing.T) {
	svc, _ := seed(t)

	stats, err := svc.Stats(context.Background(), &models.StatsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 2, stats.Confirmed)
	assert.Equal(t, 1, stats.Cancelled)
	assert.Equal(t, 7, stats.SeatsBooked)
	assert.InDelta(t, 120.0, stats.Revenue, 0.001)
	assert.Equal(t, 2, stats.BySource["woocommerce"])

	day, err := svc.Stats(context.Background(), &models.StatsRequest{From: &june1, To: &june1})
	require.NoError(t, err)
	assert.Equal(t, 2, day.Total)
	require.NotNil(t, day.From)
	assert.Equal(t, "2024-06-01", *day.From)
}

func TestService_GetByID(t *testing.T) {
	svc, _ := seed(t)

	_, err := svc.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestService_ExportWritesWorkbook(t *testing.T) {
	svc, _ := seed(t)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), &models.ListRequest{Status: ptr.Ptr("confirmed")}, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportColumns[:4], rows[0][:4])
	assert.Equal(t, "City tour", rows[1][2])
	assert.Equal(t, "confirmed", rows[1][6])
}
