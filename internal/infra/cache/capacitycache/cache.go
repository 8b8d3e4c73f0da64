// Package capacitycache caches resolved capacity slots in Redis.
//
// Entries are keyed by a version pair: a global counter bumped when activity
// schedules change and a per-date counter bumped by every admission or
// cancellation on that date. Bumping a counter orphans old entries, which then
// expire by TTL.
package capacitycache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
)

const (
	keyPrefix  = "capacity"
	globalKey  = keyPrefix + ":v:all"
	versionTTL = 7 * 24 * time.Hour
)

var ErrCache = errors.New("capacitycache: redis error")

// Cache Redis-кэш слотов
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New создает кэш; ttl ограничивает жизнь записи
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func dateVersionKey(date string) string {
	return fmt.Sprintf("%s:v:%s", keyPrefix, date)
}

func entryKey(date, scope, version string) string {
	return fmt.Sprintf("%s:slots:%s:%s:%s", keyPrefix, date, scope, version)
}

// Get возвращает закэшированные слоты и версию, под которой их нужно сохранять при промахе
func (c *Cache) Get(ctx context.Context, date, scope string) ([]domain.CapacitySlot, string, bool, error) {
	vals, err := c.rdb.MGet(ctx, globalKey, dateVersionKey(date)).Result()
	if err != nil {
		return nil, "", false, fmt.Errorf("%w: read versions: %w", ErrCache, err)
	}
	version := fmt.Sprintf("%s.%s", versionPart(vals[0]), versionPart(vals[1]))

	raw, err := c.rdb.Get(ctx, entryKey(date, scope, version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, version, false, nil
	}
	if err != nil {
		return nil, version, false, fmt.Errorf("%w: read entry: %w", ErrCache, err)
	}

	var slots []domain.CapacitySlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		// Битую запись считаем промахом, она будет перезаписана
		return nil, version, false, nil
	}
	return slots, version, true, nil
}

// Set сохраняет слоты под версией, полученной из Get
func (c *Cache) Set(ctx context.Context, date, scope, version string, slots []domain.CapacitySlot) error {
	raw, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("%w: encode entry: %w", ErrCache, err)
	}
	if err := c.rdb.Set(ctx, entryKey(date, scope, version), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: write entry: %w", ErrCache, err)
	}
	return nil
}

// Invalidate сбрасывает записи одной даты
func (c *Cache) Invalidate(ctx context.Context, date string) error {
	return c.bump(ctx, dateVersionKey(date))
}

// InvalidateAll сбрасывает все записи (изменилось расписание активности)
func (c *Cache) InvalidateAll(ctx context.Context) error {
	return c.bump(ctx, globalKey)
}

func (c *Cache) bump(ctx context.Context, key string) error {
	pipe := c.rdb.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, versionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: bump %s: %w", ErrCache, key, err)
	}
	return nil
}

func versionPart(v interface{}) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return "0"
}

// Nop кэш для конфигурации без Redis
type Nop struct{}

func (Nop) Get(context.Context, string, string) ([]domain.CapacitySlot, string, bool, error) {
	return nil, "", false, nil
}

func (Nop) Set(context.Context, string, string, string, []domain.CapacitySlot) error { return nil }

func (Nop) Invalidate(context.Context, string) error { return nil }

func (Nop) InvalidateAll(context.Context) error { return nil }
