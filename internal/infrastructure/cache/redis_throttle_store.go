package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wms/backend/internal/domain/integration"
)

// RedisThrottleStore implements ThrottleStore using Redis.
// This is suitable for distributed deployments where multiple instances
// need to share alert suppression state.
type RedisThrottleStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisThrottleStore creates a new Redis-based throttle store
func NewRedisThrottleStore(cfg RedisConfig) (*RedisThrottleStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisThrottleStore{
		client:    client,
		keyPrefix: "alert:throttle:",
	}, nil
}

// NewRedisThrottleStoreWithClient creates a store with an existing Redis client
// This is useful for testing or when sharing a client across components
func NewRedisThrottleStoreWithClient(client *redis.Client, keyPrefix string) *RedisThrottleStore {
	if keyPrefix == "" {
		keyPrefix = "alert:throttle:"
	}
	return &RedisThrottleStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// ShouldSend atomically records the fingerprint with the window as TTL.
// SETNX returns true only for the first caller inside the window.
func (s *RedisThrottleStore) ShouldSend(ctx context.Context, fingerprint string, window time.Duration) (bool, error) {
	key := s.keyPrefix + fingerprint

	ok, err := s.client.SetNX(ctx, key, "1", window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record alert fingerprint: %w", err)
	}
	return ok, nil
}

// Close closes the Redis client
func (s *RedisThrottleStore) Close() error {
	return s.client.Close()
}

// Ensure RedisThrottleStore implements ThrottleStore
var _ integration.ThrottleStore = (*RedisThrottleStore)(nil)
