// Package handoff stores the values one job step hands to the next, scoped to a run ID.
package handoff

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fox_trade/internal/feature/dailyreport/usecase"
)

// DefaultTTL keeps handed-off values around long enough for the report step and later inspection.
const DefaultTTL = 24 * time.Hour

// RedisStore implements usecase.HandoffStore using one Redis hash per run.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ usecase.HandoffStore = (*RedisStore)(nil)

// NewRedisStore creates a new RedisStore. A non-positive ttl uses DefaultTTL.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "handoff"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

// runKey returns the Redis key for a run's hash.
func (s *RedisStore) runKey(runID string) string {
	return fmt.Sprintf("%s:%s", s.prefix, runID)
}

// Put writes values into the run's hash and refreshes its TTL.
func (s *RedisStore) Put(ctx context.Context, runID string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	key := s.runKey(runID)
	args := make([]any, 0, len(values)*2)
	for k, v := range values {
		args = append(args, k, v)
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, args...)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("handoff put %s: %w", runID, err)
	}
	return nil
}

// Get returns every value handed off for runID.
func (s *RedisStore) Get(ctx context.Context, runID string) (map[string]string, error) {
	values, err := s.client.HGetAll(ctx, s.runKey(runID)).Result()
	if err != nil {
		return nil, fmt.Errorf("handoff get %s: %w", runID, err)
	}
	if len(values) == 0 {
		return nil, usecase.ErrHandoffNotFound
	}
	return values, nil
}
