package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/rpgo/investment-calculator/internal/domain"
)

// RedisCache stores projection results as JSON in Redis with a TTL, so
// several API replicas can share memoized results.
type RedisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisCache creates a Redis-backed cache.
func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		rdb:    rdb,
		ttl:    ttl,
		prefix: "invcalc:projection:",
	}
}

// NewRedisCacheFromURL parses a redis:// URL and connects lazily.
func NewRedisCacheFromURL(url string, ttl time.Duration) (*RedisCache, func() error, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	return NewRedisCache(rdb, ttl), rdb.Close, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (*domain.ProjectionResult, bool, error) {
	data, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var res domain.ProjectionResult
	if err := json.Unmarshal(data, &res); err != nil {
		// A corrupt entry is treated as a miss; it will be overwritten.
		return nil, false, nil
	}
	return &res, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, result *domain.ProjectionResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(key), data, c.ttl).Err()
}

func (c *RedisCache) key(k string) string { return c.prefix + k }
