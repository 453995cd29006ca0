package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/rayan-crm-api/internal/observability"
)

// ViewCache stores computed views in Redis under keys carrying the store
// revision, so an entry can never be served after a mutation. A nil client
// disables caching.
type ViewCache struct {
	client    *redis.Client
	ttl       time.Duration
	namespace string
	logger    zerolog.Logger
}

// NewViewCache builds a cache scoped to this process. Each process owns its
// own store, so revisions of different processes never share keys.
func NewViewCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *ViewCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ViewCache{
		client:    client,
		ttl:       ttl,
		namespace: uuid.NewString(),
		logger:    logger.With().Str("component", "view_cache").Logger(),
	}
}

func (c *ViewCache) key(view string, revision uint64) string {
	return fmt.Sprintf("crm:view:%s:%s:r%d", c.namespace, view, revision)
}

// cachedView returns the cached value of view at revision, computing and
// storing it on a miss. Cache failures are logged and never surface.
func cachedView[T any](ctx context.Context, c *ViewCache, view string, revision uint64, compute func() T) T {
	if c == nil || c.client == nil {
		return timedView(view, compute)
	}

	key := c.key(view, revision)
	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		var out T
		if unmarshalErr := json.Unmarshal([]byte(cached), &out); unmarshalErr == nil {
			observability.ViewCache().WithLabelValues(view, "hit").Inc()
			return out
		}
	case !errors.Is(err, redis.Nil):
		c.logger.Warn().Err(err).Str("view", view).Msg("failed to read view cache")
	}
	observability.ViewCache().WithLabelValues(view, "miss").Inc()

	out := timedView(view, compute)
	payload, err := json.Marshal(out)
	if err != nil {
		return out
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("view", view).Msg("failed to store view cache")
	}
	return out
}

func timedView[T any](view string, compute func() T) T {
	start := time.Now()
	out := compute()
	observability.ViewCompute().WithLabelValues(view).Observe(time.Since(start).Seconds())
	return out
}
