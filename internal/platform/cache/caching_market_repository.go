// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"fox_trade/internal/feature/kline/domain/entity"
	"fox_trade/internal/feature/kline/usecase"
)

// CachingMarketRepository decorates a MarketRepository with Redis caching.
// Only found responses are cached; an unknown secid always reaches the upstream
// so that the fallback protocol sees fresh answers.
type CachingMarketRepository struct {
	inner     usecase.MarketRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.MarketRepository = (*CachingMarketRepository)(nil)

// NewCachingMarketRepository decorates a MarketRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "klines".
func NewCachingMarketRepository(rdb *redis.Client, ttl time.Duration, inner usecase.MarketRepository, namespace string) *CachingMarketRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "klines"
	}
	return &CachingMarketRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// GetKLines returns cached records when present, otherwise asks the inner repository.
func (c *CachingMarketRepository) GetKLines(ctx context.Context, id entity.SecID, q entity.Query) ([]string, bool, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.GetKLines(ctx, id, q)
	}

	key := c.cacheKey(id, q)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []string
		if err := json.Unmarshal(b, &out); err == nil {
			return out, true, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to upstream
	out, found, err := c.inner.GetKLines(ctx, id, q)
	if err != nil || !found {
		return out, found, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, true, nil
}

// cacheKey generates a cache key for a specific query.
func (c *CachingMarketRepository) cacheKey(id entity.SecID, q entity.Query) string {
	return fmt.Sprintf("%s:%s:%s:%s:%s",
		c.namespace,
		safe(id.String()),
		safe(q.Date),
		q.Interval.Code(),
		q.Adjustment.Code(),
	)
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
