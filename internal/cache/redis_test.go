package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisCacheFromURL(t *testing.T) {
	c, closeFn, err := NewRedisCacheFromURL("redis://localhost:6379/2", time.Hour)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "invcalc:projection:abc", c.key("abc"))
	assert.Equal(t, time.Hour, c.ttl)
	assert.NoError(t, closeFn())

	_, _, err = NewRedisCacheFromURL("http://not-redis", time.Hour)
	assert.Error(t, err)
}

func TestRedisCache_UnreachableServer(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()
	c := NewRedisCache(rdb, time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, ok, err := c.Get(ctx, "k")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, c.Set(ctx, "k", result(1)))
}
