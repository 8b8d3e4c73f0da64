package cancel_reservation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/internal/infra/events"
	"github.com/m04kA/SMC-TourBookingService/internal/infra/storage/memstore"
	"github.com/m04kA/SMC-TourBookingService/pkg/logger"
	"github.com/m04kA/SMC-TourBookingService/pkg/types"
)

var june1 = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

type recorder struct {
	mu          sync.Mutex
	invalidated int
	published   []events.ReservationEvent
	cancelled   int
}

func (r *recorder) Invalidate(context.Context, string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidated++
	return nil
}

func (r *recorder) Publish(_ context.Context, e events.ReservationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published = append(r.published, e)
	return nil
}

func (r *recorder) ReservationCancelled(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled++
}

// seed создаёт слот на 10 мест и бронирование на 3 места
func seed(t *testing.T) (*memstore.Store, *domain.Capacity, *domain.Reservation) {
	t.Helper()
	ctx := context.Background()
	s := memstore.New()

	a, err := s.Activities().Create(ctx, &domain.Activity{Slug: "city-tour", Name: "City tour", Price: 20, Currency: "EUR", Active: true})
	require.NoError(t, err)
	c, err := s.Capacity().Create(ctx, &domain.Capacity{ActivityID: a.ID, Date: june1, TotalSeats: 10})
	require.NoError(t, err)
	_, err = s.Capacity().Reserve(ctx, c.ID, 3)
	require.NoError(t, err)
	r, err := s.Reservations().Create(ctx, &domain.Reservation{
		Code: "code", ActivityID: a.ID, CapacityID: c.ID, Date: june1, Seats: 3,
		CustomerName: "Ann", Status: domain.StatusConfirmed, Source: domain.SourceDirect,
	})
	require.NoError(t, err)
	return s, c, r
}

func TestExecute_DoubleCancelReleasesOnce(t *testing.T) {
	ctx := context.Background()
	s, c, r := seed(t)
	rec := &recorder{}
	uc := NewUseCase(s.Reservations(), s.Capacity(), s.TxManager(), rec, rec, rec, logger.NewNop())

	first, err := uc.Execute(ctx, &Request{ReservationID: r.ID})
	require.NoError(t, err)
	assert.True(t, first.Changed)
	assert.Equal(t, domain.StatusCancelled, first.Reservation.Status)
	assert.NotNil(t, first.Reservation.CancelledAt)

	second, err := uc.Execute(ctx, &Request{ReservationID: r.ID})
	require.NoError(t, err)
	assert.False(t, second.Changed)

	slot, err := s.Capacity().GetByKey(ctx, c.ActivityID, june1, types.TimeString{})
	require.NoError(t, err)
	assert.Equal(t, 0, slot.ReservedSeats)

	assert.Equal(t, 1, rec.invalidated)
	assert.Equal(t, 1, rec.cancelled)
	require.Len(t, rec.published, 1)
	assert.Equal(t, events.TypeReservationCancelled, rec.published[0].Type)
}

func TestExecute_ConcurrentCancels(t *testing.T) {
	ctx := context.Background()
	s, c, r := seed(t)
	rec := &recorder{}
	uc := NewUseCase(s.Reservations(), s.Capacity(), s.TxManager(), rec, rec, rec, logger.NewNop())

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		changed int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := uc.Execute(ctx, &Request{ReservationID: r.ID})
			if assert.NoError(t, err) && resp.Changed {
				mu.Lock()
				changed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, changed)
	slot, err := s.Capacity().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, slot.ReservedSeats)
}

func TestExecute_NotFoundAndInvalid(t *testing.T) {
	s, _, _ := seed(t)
	rec := &recorder{}
	uc := NewUseCase(s.Reservations(), s.Capacity(), s.TxManager(), rec, rec, rec, logger.NewNop())

	_, err := uc.Execute(context.Background(), &Request{ReservationID: 999})
	assert.ErrorIs(t, err, ErrReservationNotFound)

	_, err = uc.Execute(context.Background(), &Request{ReservationID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
