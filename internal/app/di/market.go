// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	"fox_trade/internal/app/config"
	"fox_trade/internal/feature/kline/usecase"
	"fox_trade/internal/platform/cache"
	"fox_trade/internal/platform/externalapi/eastmoney"
	infrahttp "fox_trade/internal/platform/http"
	"fox_trade/internal/shared/ratelimiter"
)

// NewMarket creates a fully configured EastMoneyMarket with HTTP client and rate limiter,
// wrapped in the Redis cache when rdb is available and caching is enabled.
func NewMarket(cfg eastmoney.Config, rdb *redis.Client, cacheCfg config.CacheConfig) usecase.MarketRepository {
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout, cfg.Headers())
	limiter := ratelimiter.NewRateLimiter(cfg.RequestsPerSecond, time.Second)
	market := eastmoney.NewEastMoneyMarket(cfg, httpClient, limiter)

	if rdb == nil || !cacheCfg.Enabled {
		return market
	}
	ttl := cacheCfg.TTL
	if ttl <= 0 {
		// 当日分は引けまで確定しないため、次の引けで失効させる
		ttl = cache.TimeUntilNextMarketClose()
	}
	return cache.NewCachingMarketRepository(rdb, ttl, market, "klines")
}
