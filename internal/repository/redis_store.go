package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

// redisClient is the subset of go-redis used by RedisStore.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisStore keeps values as plain Redis strings without expiry.
type RedisStore struct {
	client redisClient
	logger *zap.Logger
}

// NewRedisStore constructs a Redis backed store.
func NewRedisStore(client redisClient, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{client: client, logger: logger}
}

// Get returns the bytes stored under key or ErrStoreMiss.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.client == nil {
		return nil, appErrors.ErrStoreMiss
	}
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.ErrStoreMiss
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return raw, nil
}

// Set replaces the bytes stored under key.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if s.client == nil {
		return fmt.Errorf("redis store not configured")
	}
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	s.logger.Debug("redis store updated", zap.String("key", key), zap.Int("bytes", len(value)))
	return nil
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("redis store not configured")
	}
	return s.client.Ping(ctx).Err()
}

// Name identifies the driver.
func (s *RedisStore) Name() string { return "redis" }

// Close releases the underlying Redis connection if present.
func (s *RedisStore) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
