package redis

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("REDIS_DB", "2")

	cfg := LoadConfig()

	assert.Equal(t, "cache:6379", cfg.Addr())
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, 2, cfg.DB)
	assert.True(t, cfg.Enabled())
}

func TestLoadConfig_Disabled(t *testing.T) {
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_DB", "")

	cfg := LoadConfig()

	assert.False(t, cfg.Enabled())
	assert.Equal(t, 0, cfg.DB)
}

func TestNewRedisClient(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)

	rdb, err := NewRedisClient(Config{Host: mr.Host(), Port: mr.Port()})

	require.NoError(t, err)
	defer rdb.Close()
	assert.Equal(t, mr.Addr(), rdb.Options().Addr)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	t.Parallel()
	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.Start())
	host, port := mr.Host(), mr.Port()
	mr.Close()

	rdb, err := NewRedisClient(Config{Host: host, Port: port})

	assert.Error(t, err)
	assert.Nil(t, rdb)
}
