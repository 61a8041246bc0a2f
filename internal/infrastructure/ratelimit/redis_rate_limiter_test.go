package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	err := client.Ping(ctx).Err()
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	client.FlushDB(ctx)

	t.Cleanup(func() {
		client.FlushDB(ctx)
		client.Close()
	})

	return client
}

func TestRedisRateLimiter_Allow_PerMinute(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)

	limit := Limit{PerMinute: 5}
	key := "create:0xabc"

	for i := 0; i < 5; i++ {
		allowed, err := limiter.Allow(key, limit)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := limiter.Allow(key, limit)
	require.NoError(t, err)
	assert.False(t, allowed, "6th request should be denied")
}

func TestRedisRateLimiter_Allow_SeparateKeys(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)

	limit := Limit{PerMinute: 1}

	allowed, err := limiter.Allow("resolve:1.2.3.4", limit)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow("resolve:1.2.3.4", limit)
	require.NoError(t, err)
	assert.False(t, allowed)

	// A different caller has its own window.
	allowed, err = limiter.Allow("resolve:5.6.7.8", limit)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisRateLimiter_Reset(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)

	limit := Limit{PerMinute: 1}
	key := "create:0xdef"

	allowed, err := limiter.Allow(key, limit)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow(key, limit)
	require.NoError(t, err)
	assert.False(t, allowed)

	require.NoError(t, limiter.Reset(key))

	allowed, err = limiter.Allow(key, limit)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisRateLimiter_GetRemaining(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)

	limit := Limit{PerMinute: 10}
	key := "create:0x123"

	for i := 0; i < 3; i++ {
		_, err := limiter.Allow(key, limit)
		require.NoError(t, err)
	}

	used, err := limiter.GetRemaining(key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(3), used)
}
