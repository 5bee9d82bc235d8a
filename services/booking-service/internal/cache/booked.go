// Package cache keeps business-local booked times per business date in Redis.
package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
)

// BookedSlotCache stores the booked business-local times of one business date under one key.
// An empty day is stored as an empty string so that it still counts as a hit.
type BookedSlotCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewBookedSlotCache(rdb *redis.Client, ttl time.Duration, prefix string) *BookedSlotCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "booked"
	}
	return &BookedSlotCache{rdb: rdb, ttl: ttl, prefix: prefix}
}

func Key(prefix string, businessDate model.CalendarDate) string {
	return prefix + ":" + businessDate.String()
}

func (c *BookedSlotCache) Get(ctx context.Context, businessDate model.CalendarDate) ([]model.ClockTime, bool, error) {
	raw, err := c.rdb.Get(ctx, Key(c.prefix, businessDate)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	clocks, err := Decode(raw)
	if err != nil {
		return nil, false, err
	}
	return clocks, true, nil
}

func (c *BookedSlotCache) Set(ctx context.Context, businessDate model.CalendarDate, clocks []model.ClockTime) error {
	return c.rdb.Set(ctx, Key(c.prefix, businessDate), Encode(clocks), c.ttl).Err()
}

func (c *BookedSlotCache) Invalidate(ctx context.Context, businessDates ...model.CalendarDate) error {
	if len(businessDates) == 0 {
		return nil
	}
	keys := make([]string, 0, len(businessDates))
	for _, d := range businessDates {
		keys = append(keys, Key(c.prefix, d))
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *BookedSlotCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Encode joins clocks as "HH:MM,HH:MM".
func Encode(clocks []model.ClockTime) string {
	parts := make([]string, 0, len(clocks))
	for _, c := range clocks {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ",")
}

func Decode(raw string) ([]model.ClockTime, error) {
	if raw == "" {
		return []model.ClockTime{}, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]model.ClockTime, 0, len(parts))
	for _, p := range parts {
		c, err := model.ParseClock(p)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
