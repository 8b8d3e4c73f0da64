package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	activityRepo "github.com/m04kA/SMC-TourBookingService/internal/infra/storage/activity"
	capacityRepo "github.com/m04kA/SMC-TourBookingService/internal/infra/storage/capacity"
	reservationRepo "github.com/m04kA/SMC-TourBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-TourBookingService/pkg/ptr"
	"github.com/m04kA/SMC-TourBookingService/pkg/types"
)

var slotDate = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func seedActivity(t *testing.T, s *Store, slug string) *domain.Activity {
	t.Helper()
	a, err := s.Activities().Create(context.Background(), &domain.Activity{
		Slug: slug, Name: slug, Price: 20, Currency: "EUR", Active: true,
		Schedule: domain.Schedule{DefaultSeats: 10},
	})
	require.NoError(t, err)
	return a
}

func TestActivities_SlugUnique(t *testing.T) {
	s := New()
	seedActivity(t, s, "city-tour")

	_, err := s.Activities().Create(context.Background(), &domain.Activity{Slug: "city-tour"})
	assert.ErrorIs(t, err, activityRepo.ErrSlugTaken)
}

func TestCapacity_ReserveGuard(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := seedActivity(t, s, "city-tour")

	c, err := s.Capacity().Create(ctx, &domain.Capacity{ActivityID: a.ID, Date: slotDate, TotalSeats: 2})
	require.NoError(t, err)

	_, err = s.Capacity().Reserve(ctx, c.ID, 2)
	require.NoError(t, err)

	_, err = s.Capacity().Reserve(ctx, c.ID, 1)
	assert.ErrorIs(t, err, capacityRepo.ErrInsufficientSeats)

	_, err = s.Capacity().Release(ctx, c.ID, 3)
	assert.ErrorIs(t, err, capacityRepo.ErrInsufficientReserved)

	_, err = s.Capacity().Resize(ctx, c.ID, 1)
	assert.ErrorIs(t, err, capacityRepo.ErrBelowReserved)

	_, err = s.Capacity().Create(ctx, &domain.Capacity{ActivityID: a.ID, Date: slotDate, TotalSeats: 5})
	assert.ErrorIs(t, err, capacityRepo.ErrCapacityExists)
}

func TestCapacity_MaterializeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := seedActivity(t, s, "city-tour")
	at := types.MustTimeString("10:00")

	first, err := s.Capacity().Materialize(ctx, a.ID, slotDate, at, 10)
	require.NoError(t, err)
	_, err = s.Capacity().Reserve(ctx, first.ID, 4)
	require.NoError(t, err)

	second, err := s.Capacity().Materialize(ctx, a.ID, slotDate, at, 10)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 4, second.ReservedSeats)
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := seedActivity(t, s, "city-tour")
	errBoom := errors.New("boom")

	err := s.TxManager().DoSerializable(ctx, func(txCtx context.Context) error {
		c, err := s.Capacity().Materialize(txCtx, a.ID, slotDate, types.TimeString{}, 10)
		require.NoError(t, err)
		_, err = s.Capacity().Reserve(txCtx, c.ID, 3)
		require.NoError(t, err)
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	_, err = s.Capacity().GetByKey(ctx, a.ID, slotDate, types.TimeString{})
	assert.ErrorIs(t, err, capacityRepo.ErrCapacityNotFound)
}

func TestReservations_ExternalIDUnique(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := seedActivity(t, s, "city-tour")

	newRes := func() *domain.Reservation {
		return &domain.Reservation{
			Code: "c", ActivityID: a.ID, Date: slotDate, Seats: 1, CustomerName: "Ann",
			Status: domain.StatusConfirmed, Source: domain.SourceWooCommerce, ExternalID: ptr.Ptr("100:1"),
		}
	}

	created, err := s.Reservations().Create(ctx, newRes())
	require.NoError(t, err)
	assert.Equal(t, "city-tour", created.ActivityName)

	_, err = s.Reservations().Create(ctx, newRes())
	assert.ErrorIs(t, err, reservationRepo.ErrDuplicateExternalID)

	found, err := s.Reservations().GetByExternalID(ctx, domain.SourceWooCommerce, "100:1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	require.NoError(t, s.Reservations().MarkCancelled(ctx, created.ID, time.Now()))
	assert.ErrorIs(t, s.Reservations().MarkCancelled(ctx, created.ID, time.Now()), reservationRepo.ErrStatusConflict)

	err = s.Activities().Delete(ctx, a.ID)
	assert.ErrorIs(t, err, activityRepo.ErrActivityInUse)
}
