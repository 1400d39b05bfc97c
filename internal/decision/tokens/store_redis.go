package tokens

import (
	"context"
	"fmt"
	"time"

	platformredis "clearway/internal/platform/redis"
)

const usedKeyPrefix = "decision:token:used:"

// RedisUsageStore tracks redeemed token IDs in Redis so single-use holds
// across replicas. SET NX is atomic: exactly one caller wins per jti.
type RedisUsageStore struct {
	client *platformredis.Client
}

// NewRedisUsageStore creates a usage store over the shared Redis client.
func NewRedisUsageStore(client *platformredis.Client) *RedisUsageStore {
	return &RedisUsageStore{client: client}
}

// MarkUsed records the jti with the token TTL. Returns true on first use.
func (s *RedisUsageStore) MarkUsed(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	first, err := s.client.SetNX(ctx, usedKeyPrefix+jti, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("mark token used: %w", err)
	}
	return first, nil
}

var _ UsageStore = (*RedisUsageStore)(nil)
