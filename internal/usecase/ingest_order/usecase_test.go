package ingest_order

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/internal/infra/cache/capacitycache"
	"github.com/m04kA/SMC-TourBookingService/internal/infra/events"
	"github.com/m04kA/SMC-TourBookingService/internal/infra/storage/memstore"
	"github.com/m04kA/SMC-TourBookingService/internal/integrations/woocommerce"
	"github.com/m04kA/SMC-TourBookingService/internal/usecase/cancel_reservation"
	"github.com/m04kA/SMC-TourBookingService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-TourBookingService/pkg/logger"
	"github.com/m04kA/SMC-TourBookingService/pkg/metrics"
	"github.com/m04kA/SMC-TourBookingService/pkg/types"
)

var june1 = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*memstore.Store, *domain.Activity, *UseCase) {
	t.Helper()
	s := memstore.New()
	a, err := s.Activities().Create(context.Background(), &domain.Activity{
		Slug: "city-tour", Name: "City tour", Price: 25, Currency: "EUR", Active: true,
		Schedule: domain.Schedule{DefaultSeats: 10},
	})
	require.NoError(t, err)

	log := logger.NewNop()
	creator := create_reservation.NewUseCase(s.Activities(), s.Capacity(), s.Reservations(), s.TxManager(),
		capacitycache.Nop{}, events.Nop{}, metrics.Nop{}, log)
	canceller := cancel_reservation.NewUseCase(s.Reservations(), s.Capacity(), s.TxManager(),
		capacitycache.Nop{}, events.Nop{}, metrics.Nop{}, log)
	return s, a, NewUseCase(s.Reservations(), creator, canceller, metrics.Nop{}, log)
}

func order(status string, items ...woocommerce.LineItem) *woocommerce.Order {
	return &woocommerce.Order{
		ID:        100,
		Status:    status,
		Billing:   woocommerce.Billing{FirstName: "Ann", LastName: "Smith", Email: "ann@example.com"},
		LineItems: items,
	}
}

func cityTourItem(id int64, qty int) woocommerce.LineItem {
	return woocommerce.LineItem{
		ID: id, SKU: "city-tour", Quantity: qty,
		MetaData: []woocommerce.MetaData{{Key: "booking_date", Value: []byte(`"2024-06-01"`)}},
	}
}

func reserved(t *testing.T, s *memstore.Store, activityID int64) int {
	t.Helper()
	c, err := s.Capacity().GetByKey(context.Background(), activityID, june1, types.TimeString{})
	require.NoError(t, err)
	return c.ReservedSeats
}

func TestExecute_ReplayCreatesOneReservation(t *testing.T) {
	ctx := context.Background()
	s, a, uc := setup(t)
	req := &Request{Order: order(woocommerce.StatusProcessing, cityTourItem(1, 3))}

	first, err := uc.Execute(ctx, req)
	require.NoError(t, err)
	require.Len(t, first.Lines, 1)
	assert.Equal(t, ActionCreated, first.Lines[0].Action)
	assert.Equal(t, "100:1", first.Lines[0].ExternalID)

	second, err := uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, ActionReplayed, second.Lines[0].Action)
	assert.Equal(t, *first.Lines[0].ReservationID, *second.Lines[0].ReservationID)

	all, err := s.Reservations().List(ctx, domain.ReservationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, domain.StatusConfirmed, all[0].Status)
	assert.Equal(t, domain.SourceWooCommerce, all[0].Source)
	assert.Equal(t, "Ann Smith", all[0].CustomerName)
	assert.Equal(t, 3, reserved(t, s, a.ID))
}

func TestExecute_StatusLifecycle(t *testing.T) {
	ctx := context.Background()
	s, a, uc := setup(t)

	resp, err := uc.Execute(ctx, &Request{Order: order(woocommerce.StatusOnHold, cityTourItem(1, 2))})
	require.NoError(t, err)
	assert.Equal(t, ActionCreated, resp.Lines[0].Action)

	r, err := s.Reservations().GetByExternalID(ctx, domain.SourceWooCommerce, "100:1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, r.Status)

	resp, err = uc.Execute(ctx, &Request{Order: order(woocommerce.StatusCompleted, cityTourItem(1, 2))})
	require.NoError(t, err)
	assert.Equal(t, ActionConfirmed, resp.Lines[0].Action)

	resp, err = uc.Execute(ctx, &Request{Order: order(woocommerce.StatusRefunded, cityTourItem(1, 2))})
	require.NoError(t, err)
	assert.Equal(t, ActionCancelled, resp.Lines[0].Action)
	assert.Equal(t, 0, reserved(t, s, a.ID))

	resp, err = uc.Execute(ctx, &Request{Order: order(woocommerce.StatusCancelled, cityTourItem(1, 2))})
	require.NoError(t, err)
	assert.Equal(t, ActionReplayed, resp.Lines[0].Action)
	assert.Equal(t, 0, reserved(t, s, a.ID))
}

func TestExecute_RejectionsAreAcknowledged(t *testing.T) {
	ctx := context.Background()
	s, _, uc := setup(t)

	noDate := woocommerce.LineItem{ID: 2, SKU: "city-tour", Quantity: 1}
	noActivity := woocommerce.LineItem{ID: 3, Quantity: 1,
		MetaData: []woocommerce.MetaData{{Key: "date", Value: []byte(`"2024-06-01"`)}}}
	unknown := woocommerce.LineItem{ID: 4, SKU: "moon-walk", Quantity: 1,
		MetaData: []woocommerce.MetaData{{Key: "date", Value: []byte(`"2024-06-01"`)}}}
	tooMany := cityTourItem(5, 11)

	resp, err := uc.Execute(ctx, &Request{Order: order(woocommerce.StatusProcessing, noDate, noActivity, unknown, tooMany)})
	require.NoError(t, err)
	require.Len(t, resp.Lines, 4)
	for _, line := range resp.Lines {
		assert.Equal(t, ActionRejected, line.Action, line.ExternalID)
		assert.NotEmpty(t, line.Reason)
	}

	all, err := s.Reservations().List(ctx, domain.ReservationFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestExecute_SkipsUnrecordedCancellation(t *testing.T) {
	_, _, uc := setup(t)

	resp, err := uc.Execute(context.Background(), &Request{Order: order(woocommerce.StatusFailed, cityTourItem(1, 1))})
	require.NoError(t, err)
	assert.Equal(t, ActionSkipped, resp.Lines[0].Action)

	resp, err = uc.Execute(context.Background(), &Request{Order: order("draft", cityTourItem(1, 1))})
	require.NoError(t, err)
	assert.Equal(t, ActionSkipped, resp.Lines[0].Action)
}

func TestExecute_NilOrder(t *testing.T) {
	_, _, uc := setup(t)
	_, err := uc.Execute(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
