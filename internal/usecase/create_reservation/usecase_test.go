package create_reservation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/internal/infra/cache/capacitycache"
	"github.com/m04kA/SMC-TourBookingService/internal/infra/events"
	capacityRepo "github.com/m04kA/SMC-TourBookingService/internal/infra/storage/capacity"
	"github.com/m04kA/SMC-TourBookingService/internal/infra/storage/memstore"
	"github.com/m04kA/SMC-TourBookingService/internal/usecase/resolve_capacity"
	"github.com/m04kA/SMC-TourBookingService/pkg/logger"
	"github.com/m04kA/SMC-TourBookingService/pkg/metrics"
	"github.com/m04kA/SMC-TourBookingService/pkg/ptr"
	"github.com/m04kA/SMC-TourBookingService/pkg/types"
	"github.com/m04kA/SMC-TourBookingService/pkg/validation"
)

var june1 = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

type recorder struct {
	mu          sync.Mutex
	invalidated []string
	published   []events.ReservationEvent
	created     int
	rejected    int
}

func (r *recorder) Invalidate(_ context.Context, date string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidated = append(r.invalidated, date)
	return nil
}

func (r *recorder) Publish(_ context.Context, e events.ReservationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published = append(r.published, e)
	return nil
}

func (r *recorder) ReservationCreated(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created++
}

func (r *recorder) CapacityRejected(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected++
}

func setup(t *testing.T, schedule domain.Schedule) (*memstore.Store, *domain.Activity, *UseCase, *recorder) {
	t.Helper()
	s := memstore.New()
	a, err := s.Activities().Create(context.Background(), &domain.Activity{
		Slug: "city-tour", Name: "City tour", Price: 25, Currency: "EUR", Active: true, Schedule: schedule,
	})
	require.NoError(t, err)

	rec := &recorder{}
	uc := NewUseCase(s.Activities(), s.Capacity(), s.Reservations(), s.TxManager(), rec, rec, rec, logger.NewNop())
	return s, a, uc, rec
}

func baseRequest(activityID int64) *Request {
	return &Request{
		ActivityID:    activityID,
		Date:          "2024-06-01",
		Seats:         1,
		CustomerName:  "Ann Smith",
		CustomerEmail: "ann@example.com",
	}
}

func TestExecute_CityTourScenario(t *testing.T) {
	ctx := context.Background()
	s, a, uc, rec := setup(t, domain.Schedule{DefaultSeats: 10})
	resolver := resolve_capacity.NewUseCase(s.Activities(), s.Capacity(), capacitycache.Nop{}, metrics.Nop{}, 31, logger.NewNop())

	before, err := resolver.Execute(ctx, &resolve_capacity.Request{Date: "2024-06-01"})
	require.NoError(t, err)
	require.Len(t, before.Slots, 1)
	assert.True(t, before.Slots[0].IsVirtual)
	assert.Equal(t, 10, before.Slots[0].RemainingSeats)

	req := baseRequest(0)
	req.ActivitySlug = "city-tour"
	req.Seats = 3
	resp, err := uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.False(t, resp.Replayed)
	assert.Equal(t, domain.StatusPending, resp.Reservation.Status)
	assert.Equal(t, domain.SourceDirect, resp.Reservation.Source)
	assert.Equal(t, 75.0, resp.Reservation.TotalPrice)
	assert.Equal(t, "EUR", resp.Reservation.Currency)
	assert.NotEmpty(t, resp.Reservation.Code)
	assert.Equal(t, a.ID, resp.Reservation.ActivityID)

	after, err := resolver.Execute(ctx, &resolve_capacity.Request{Date: "2024-06-01"})
	require.NoError(t, err)
	require.Len(t, after.Slots, 1)
	assert.False(t, after.Slots[0].IsVirtual)
	assert.Equal(t, 7, after.Slots[0].RemainingSeats)

	assert.Equal(t, []string{"2024-06-01"}, rec.invalidated)
	require.Len(t, rec.published, 1)
	assert.Equal(t, events.TypeReservationCreated, rec.published[0].Type)
	assert.Equal(t, 1, rec.created)
}

func TestExecute_ConcurrentAdmissionsOnSingleSeat(t *testing.T) {
	ctx := context.Background()
	s, a, uc, rec := setup(t, domain.Schedule{})
	_, err := s.Capacity().Create(ctx, &domain.Capacity{ActivityID: a.ID, Date: june1, TotalSeats: 1})
	require.NoError(t, err)

	const n = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		exceeded  int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(ctx, baseRequest(a.ID))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case assert.ErrorIs(t, err, ErrCapacityExceeded):
				exceeded++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, exceeded)
	assert.Equal(t, n-1, rec.rejected)

	slot, err := s.Capacity().GetByKey(ctx, a.ID, june1, types.TimeString{})
	require.NoError(t, err)
	assert.Equal(t, 1, slot.ReservedSeats)
}

func TestExecute_ExternalIDReplay(t *testing.T) {
	ctx := context.Background()
	s, a, uc, rec := setup(t, domain.Schedule{DefaultSeats: 10})

	req := baseRequest(a.ID)
	req.Seats = 2
	req.Source = string(domain.SourceWooCommerce)
	req.Status = string(domain.StatusConfirmed)
	req.ExternalID = ptr.Ptr("100:1")

	first, err := uc.Execute(ctx, req)
	require.NoError(t, err)
	second, err := uc.Execute(ctx, req)
	require.NoError(t, err)

	assert.True(t, second.Replayed)
	assert.Equal(t, first.Reservation.ID, second.Reservation.ID)

	all, err := s.Reservations().List(ctx, domain.ReservationFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	slot, err := s.Capacity().GetByKey(ctx, a.ID, june1, types.TimeString{})
	require.NoError(t, err)
	assert.Equal(t, 2, slot.ReservedSeats)
	assert.Len(t, rec.published, 1)
}

func TestExecute_SlotResolution(t *testing.T) {
	ctx := context.Background()
	_, a, uc, _ := setup(t, domain.Schedule{
		DefaultSeats: 4,
		Weekdays:     []time.Weekday{time.Saturday},
		Times:        []types.TimeString{types.MustTimeString("10:00")},
	})

	req := baseRequest(a.ID)
	req.Time = "11:00"
	_, err := uc.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrSlotNotFound)

	req.Time = "10:00"
	req.Date = "2024-06-02" // воскресенье
	_, err = uc.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrSlotNotFound)

	req.Date = "2024-06-01"
	req.Seats = 5
	_, err = uc.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	req.Seats = 4
	resp, err := uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "10:00", resp.Reservation.Time.String())
}

func TestExecute_ActivityNotFound(t *testing.T) {
	ctx := context.Background()
	s, a, uc, _ := setup(t, domain.Schedule{DefaultSeats: 10})

	_, err := uc.Execute(ctx, baseRequest(a.ID+100))
	assert.ErrorIs(t, err, ErrActivityNotFound)

	a.Active = false
	_, err = s.Activities().Update(ctx, a)
	require.NoError(t, err)
	_, err = uc.Execute(ctx, baseRequest(a.ID))
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestExecute_Validation(t *testing.T) {
	_, a, uc, _ := setup(t, domain.Schedule{DefaultSeats: 10})

	tests := []struct {
		name   string
		modify func(r *Request)
		field  string
	}{
		{name: "no activity", modify: func(r *Request) { r.ActivityID = 0 }, field: "activityId"},
		{name: "bad slug", modify: func(r *Request) { r.ActivityID = 0; r.ActivitySlug = "City Tour" }, field: "activityId"},
		{name: "bad date", modify: func(r *Request) { r.Date = "2024/06/01" }, field: "date"},
		{name: "bad time", modify: func(r *Request) { r.Time = "25:00" }, field: "time"},
		{name: "zero seats", modify: func(r *Request) { r.Seats = 0 }, field: "seats"},
		{name: "cancelled status", modify: func(r *Request) { r.Status = "cancelled" }, field: "status"},
		{name: "unknown source", modify: func(r *Request) { r.Source = "fax" }, field: "source"},
		{name: "no name", modify: func(r *Request) { r.CustomerName = " " }, field: "customerName"},
		{name: "no contact", modify: func(r *Request) { r.CustomerEmail = "" }, field: "customerEmail"},
		{name: "bad email", modify: func(r *Request) { r.CustomerEmail = "not-an-email" }, field: "customerEmail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest(a.ID)
			tt.modify(req)
			_, err := uc.Execute(context.Background(), req)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, tt.field, validation.Field(err))
		})
	}
}

func TestExecute_CustomerCheckedAfterCapacity(t *testing.T) {
	ctx := context.Background()
	s, a, uc, _ := setup(t, domain.Schedule{})
	_, err := s.Capacity().Create(ctx, &domain.Capacity{ActivityID: a.ID, Date: june1, TotalSeats: 1})
	require.NoError(t, err)

	req := baseRequest(a.ID)
	req.Seats = 2
	req.CustomerName = ""
	_, err = uc.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	// проваленная валидация не списывает места
	req.Seats = 1
	_, err = uc.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidInput)
	slot, err := s.Capacity().GetByKey(ctx, a.ID, june1, types.TimeString{})
	require.NoError(t, err)
	assert.Equal(t, 0, slot.ReservedSeats)
}

type mockCapacityRepo struct {
	mock.Mock
}

func (m *mockCapacityRepo) GetByKey(ctx context.Context, activityID int64, date time.Time, t types.TimeString) (*domain.Capacity, error) {
	args := m.Called(ctx, activityID, date, t)
	c, _ := args.Get(0).(*domain.Capacity)
	return c, args.Error(1)
}

func (m *mockCapacityRepo) Materialize(ctx context.Context, activityID int64, date time.Time, t types.TimeString, totalSeats int) (*domain.Capacity, error) {
	args := m.Called(ctx, activityID, date, t, totalSeats)
	c, _ := args.Get(0).(*domain.Capacity)
	return c, args.Error(1)
}

func (m *mockCapacityRepo) Reserve(ctx context.Context, id int64, seats int) (*domain.Capacity, error) {
	args := m.Called(ctx, id, seats)
	c, _ := args.Get(0).(*domain.Capacity)
	return c, args.Error(1)
}

func TestExecute_GuardRejectsAfterPrecheck(t *testing.T) {
	s := memstore.New()
	a, err := s.Activities().Create(context.Background(), &domain.Activity{
		Slug: "city-tour", Name: "City tour", Price: 25, Currency: "EUR", Active: true,
	})
	require.NoError(t, err)

	caps := &mockCapacityRepo{}
	caps.On("GetByKey", mock.Anything, a.ID, mock.Anything, types.TimeString{}).
		Return(&domain.Capacity{ID: 9, ActivityID: a.ID, Date: june1, TotalSeats: 5, ReservedSeats: 4}, nil)
	caps.On("Reserve", mock.Anything, int64(9), 1).Return(nil, capacityRepo.ErrInsufficientSeats)

	rec := &recorder{}
	uc := NewUseCase(s.Activities(), caps, s.Reservations(), s.TxManager(), rec, rec, rec, logger.NewNop())

	_, err = uc.Execute(context.Background(), baseRequest(a.ID))
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, 1, rec.rejected)
	assert.Empty(t, rec.published)
	caps.AssertExpectations(t)
	caps.AssertNotCalled(t, "Materialize", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
