package middleware

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a CounterStore backed by Redis, so the rate limit is shared
// across replicas behind a load balancer.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
// Returns an error so the caller can fall back to NewMemoryStore.
func NewRedisStore(addr, password string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisStore{client: client, prefix: "ratelimit:"}, nil
}

// Hit increments the window counter for key. The expiry is set only when the
// key is first created, which fixes the window start at the first request.
func (s *RedisStore) Hit(key string, window time.Duration) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	full := s.prefix + key

	count, err := s.client.Incr(ctx, full).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = s.client.Expire(ctx, full, window).Err()
	}

	return int(count), nil
}

// Close releases the underlying Redis connection.
func (s *RedisStore) Close() error { return s.client.Close() }
