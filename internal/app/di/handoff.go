package di

import (
	"github.com/redis/go-redis/v9"

	"fox_trade/internal/app/config"
	"fox_trade/internal/feature/dailyreport/usecase"
	"fox_trade/internal/platform/handoff"
)

// NewHandoffStore creates a HandoffStore implementation.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to an in-process map, which only works when
// extract and report run in the same process. Entries expire after cfg.TTL in both cases.
func NewHandoffStore(rdb *redis.Client, cfg config.HandoffConfig) usecase.HandoffStore {
	if rdb != nil {
		return handoff.NewRedisStore(rdb, cfg.Prefix, cfg.TTL)
	}
	return handoff.NewMemoryStore(cfg.TTL)
}
