package di

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fox_trade/internal/app/config"
	"fox_trade/internal/platform/cache"
	"fox_trade/internal/platform/externalapi/eastmoney"
	"fox_trade/internal/platform/handoff"
)

func TestNewMarket(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	tests := []struct {
		name       string
		rdb        *redis.Client
		cacheCfg   config.CacheConfig
		wantCached bool
	}{
		{name: "no redis", rdb: nil, cacheCfg: config.CacheConfig{Enabled: true}},
		{name: "cache disabled", rdb: rdb, cacheCfg: config.CacheConfig{Enabled: false}},
		{name: "cached", rdb: rdb, cacheCfg: config.CacheConfig{Enabled: true, TTL: time.Minute}, wantCached: true},
		{name: "cached until market close", rdb: rdb, cacheCfg: config.CacheConfig{Enabled: true}, wantCached: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := NewMarket(eastmoney.DefaultConfig(), tt.rdb, tt.cacheCfg)

			_, cached := m.(*cache.CachingMarketRepository)
			assert.Equal(t, tt.wantCached, cached)
			if !tt.wantCached {
				assert.IsType(t, &eastmoney.EastMoneyMarket{}, m)
			}
		})
	}
}

func TestNewHandoffStore(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	assert.IsType(t, &handoff.RedisStore{}, NewHandoffStore(rdb, config.HandoffConfig{}))
	assert.IsType(t, &handoff.MemoryStore{}, NewHandoffStore(nil, config.HandoffConfig{}))
}

func TestNewContainer_SQLiteWithoutRedis(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", filepath.Join(t.TempDir(), "runs.db"))
	t.Setenv("REDIS_HOST", "")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	var out bytes.Buffer
	c, err := NewContainer(cfg, &out)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, c.Close()) })

	assert.Nil(t, c.Redis)
	assert.NotNil(t, c.Runner)
	assert.Equal(t, "Asia/Shanghai", c.Location.String())
	assert.Equal(t, "002707", string(c.Job.Symbol))

	checks := c.HealthChecks()
	require.Contains(t, checks, "db")
	assert.NotContains(t, checks, "redis")
	assert.NoError(t, checks["db"](context.Background()))
}

func TestNewContainer_WithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", filepath.Join(t.TempDir(), "runs.db"))
	t.Setenv("REDIS_HOST", mr.Host())
	t.Setenv("REDIS_PORT", mr.Port())
	t.Setenv("REDIS_PASSWORD", "")
	t.Setenv("REDIS_DB", "")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	c, err := NewContainer(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, c.Close()) })

	require.NotNil(t, c.Redis)
	checks := c.HealthChecks()
	require.Contains(t, checks, "redis")
	assert.NoError(t, checks["redis"](context.Background()))
}
