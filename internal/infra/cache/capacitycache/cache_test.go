package capacitycache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/pkg/types"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb, time.Minute), mr
}

func sampleSlots() []domain.CapacitySlot {
	return []domain.CapacitySlot{{
		ActivityID:     1,
		ActivitySlug:   "city-tour",
		ActivityName:   "City tour",
		Date:           time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Time:           types.MustTimeString("10:00"),
		TotalSeats:     10,
		RemainingSeats: 10,
		IsVirtual:      true,
	}}
}

func TestCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	_, version, hit, err := c.Get(ctx, "2024-06-01", "all")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "2024-06-01", "all", version, sampleSlots()))

	slots, _, hit, err := c.Get(ctx, "2024-06-01", "all")
	require.NoError(t, err)
	require.True(t, hit)
	require.Len(t, slots, 1)
	assert.Equal(t, "10:00", slots[0].Time.String())
	assert.True(t, slots[0].IsVirtual)
}

func TestCache_InvalidateDate(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	_, version, _, _ := c.Get(ctx, "2024-06-01", "all")
	require.NoError(t, c.Set(ctx, "2024-06-01", "all", version, sampleSlots()))
	_, otherVersion, _, _ := c.Get(ctx, "2024-06-02", "all")
	require.NoError(t, c.Set(ctx, "2024-06-02", "all", otherVersion, sampleSlots()))

	require.NoError(t, c.Invalidate(ctx, "2024-06-01"))

	_, _, hit, err := c.Get(ctx, "2024-06-01", "all")
	require.NoError(t, err)
	assert.False(t, hit)

	_, _, hit, err = c.Get(ctx, "2024-06-02", "all")
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestCache_StaleWriteAfterInvalidationIsUnreachable(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	_, version, _, _ := c.Get(ctx, "2024-06-01", "all")
	require.NoError(t, c.Invalidate(ctx, "2024-06-01"))
	require.NoError(t, c.Set(ctx, "2024-06-01", "all", version, sampleSlots()))

	_, _, hit, err := c.Get(ctx, "2024-06-01", "all")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCache_InvalidateAll(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	_, version, _, _ := c.Get(ctx, "2024-06-01", "1")
	require.NoError(t, c.Set(ctx, "2024-06-01", "1", version, sampleSlots()))
	require.NoError(t, c.InvalidateAll(ctx))

	_, _, hit, err := c.Get(ctx, "2024-06-01", "1")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCache_RedisDown(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	mr.Close()

	_, _, hit, err := c.Get(ctx, "2024-06-01", "all")
	assert.False(t, hit)
	assert.ErrorIs(t, err, ErrCache)
}
