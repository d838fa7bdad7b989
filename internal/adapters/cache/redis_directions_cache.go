package cache

import (
	"context"
	"errors"
	"fmt"
	"friend-locator-service/internal/platform/obs"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "directions:"

// RedisDirectionsCache keeps raw directions responses in Redis with a TTL.
type RedisDirectionsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDirectionsCache(client *redis.Client, ttl time.Duration) *RedisDirectionsCache {
	return &RedisDirectionsCache{client: client, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}

	return client, nil
}

func redisKey(origin, destination string) string {
	return redisKeyPrefix + origin + "|" + destination
}

func (c *RedisDirectionsCache) Get(
	ctx context.Context,
	origin string,
	destination string,
) (_ []byte, _ bool, err error) {
	defer obs.Time(ctx, "directions.cache.redis.Get")(&err)

	if strings.TrimSpace(origin) == "" || strings.TrimSpace(destination) == "" {
		return nil, false, errors.New("get directions cache: origin and destination must not be empty")
	}

	body, err := c.client.Get(ctx, redisKey(origin, destination)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get directions cache: %w", err)
	}

	return body, true, nil
}

func (c *RedisDirectionsCache) Put(
	ctx context.Context,
	origin string,
	destination string,
	body []byte,
) error {
	if strings.TrimSpace(origin) == "" || strings.TrimSpace(destination) == "" {
		return errors.New("insert directions cache: origin and destination must not be empty")
	}

	if err := c.client.Set(ctx, redisKey(origin, destination), body, c.ttl).Err(); err != nil {
		return fmt.Errorf("insert directions cache %q -> %q: %w", origin, destination, err)
	}

	return nil
}
