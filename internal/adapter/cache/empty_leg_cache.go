package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/srgjo27/charter_flights/internal/core/domain"
	"github.com/srgjo27/charter_flights/internal/core/ports"
)

const generationKey = "empty_legs:generation"

// EmptyLegCache stores search results under a key that embeds a generation
// counter. Invalidate bumps the counter, orphaning every older entry until
// its TTL expires.
type EmptyLegCache struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ ports.EmptyLegCache = (*EmptyLegCache)(nil)

func NewEmptyLegCache(rdb *redis.Client, ttl time.Duration) *EmptyLegCache {
	return &EmptyLegCache{rdb: rdb, ttl: ttl}
}

// Generation returns the current cache generation. A missing counter reads as 0.
func (c *EmptyLegCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("failed to read cache generation: %w", err)
	}
	return gen, nil
}

func (c *EmptyLegCache) Get(ctx context.Context, gen int64, q ports.EmptyLegQuery) ([]domain.ScheduledLeg, bool, error) {
	key := Key(gen, q)
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	var legs []domain.ScheduledLeg
	if err := json.Unmarshal(data, &legs); err != nil {
		return nil, false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return legs, true, nil
}

// Set stores legs under gen, the generation the caller read before scanning.
func (c *EmptyLegCache) Set(ctx context.Context, gen int64, q ports.EmptyLegQuery, legs []domain.ScheduledLeg) error {
	data, err := json.Marshal(legs)
	if err != nil {
		return fmt.Errorf("failed to encode empty legs: %w", err)
	}
	return c.rdb.Set(ctx, Key(gen, q), data, c.ttl).Err()
}

func (c *EmptyLegCache) Invalidate(ctx context.Context) error {
	return c.rdb.Incr(ctx, generationKey).Err()
}

// Key renders the cache key for q under generation gen.
func Key(gen int64, q ports.EmptyLegQuery) string {
	return fmt.Sprintf("empty_legs:%d:%s:%s:%d:%d", gen, q.DepartureAirport, q.ArrivalAirport, q.Start.UnixNano(), q.End.UnixNano())
}
