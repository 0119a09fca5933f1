package geocoder

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"homenet/internal/platform/metrics"
	platformredis "homenet/internal/platform/redis"
)

const cacheKeyPrefix = "geocoder:suggest:"

// CachedClient is a read-through cache in front of another Client. The
// reconciliation sweeps retry failed tickets every tick with the same address
// text, so repeated queries are the common case. Cache failures degrade to
// the upstream client, never to an error.
type CachedClient struct {
	next    Client
	cache   *platformredis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewCachedClient wraps next with a redis cache. A nil cache client returns
// next unchanged.
func NewCachedClient(next Client, cache *platformredis.Client, ttl time.Duration, m *metrics.Metrics, log *slog.Logger) Client {
	if cache == nil {
		return next
	}
	if log == nil {
		log = slog.Default()
	}
	return &CachedClient{next: next, cache: cache, ttl: ttl, metrics: m, log: log}
}

func (c *CachedClient) Suggest(ctx context.Context, query string) ([]Suggestion, error) {
	key := cacheKeyPrefix + query

	if raw, err := c.cache.Get(ctx, key).Bytes(); err == nil {
		var cached []Suggestion
		if err := json.Unmarshal(raw, &cached); err == nil {
			c.metrics.RecordGeocodeCacheHit()
			return cached, nil
		}
		// Unreadable entry: fall through and overwrite it.
		c.log.Debug("dropping unreadable geocoder cache entry", "key", key)
	}

	c.metrics.RecordGeocodeCacheMiss()
	suggestions, err := c.next.Suggest(ctx, query)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(suggestions); err == nil {
		if err := c.cache.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.log.Debug("geocoder cache write failed", "error", err)
		}
	}
	return suggestions, nil
}
