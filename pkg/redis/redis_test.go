package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockpulse/backend/pkg/config"
)

func disabledClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(&config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)
	return client
}

// liveClient connects to REDIS_TEST_ADDR (host:port) or skips
func liveClient(t *testing.T) *Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	host, port := os.Getenv("REDIS_TEST_HOST"), os.Getenv("REDIS_TEST_PORT")
	if host == "" || port == "" {
		t.Skip("REDIS_TEST_HOST/REDIS_TEST_PORT not set")
	}
	client, err := New(&config.Config{Redis: config.RedisConfig{Enabled: true, Host: host, Port: port}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewClient_Disabled(t *testing.T) {
	client := disabledClient(t)

	assert.False(t, client.Enabled())
	assert.Nil(t, client.Redis())
	assert.NoError(t, client.Ping(context.Background()))
	assert.NoError(t, client.Close())
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(disabledClient(t), "test")
	cfg := UpstreamRateLimit("yahoo", 5)

	// When Redis is disabled, all requests should be allowed
	allowed, remaining, err := limiter.Allow(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, cfg.Limit, remaining)
	assert.NoError(t, limiter.Wait(context.Background(), cfg))
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(disabledClient(t), "test")
	ctx := context.Background()

	// When Redis is disabled, cache operations should be no-ops
	require.NoError(t, cache.Set(ctx, "key", "value", time.Minute))

	var result string
	found, err := cache.Get(ctx, "key", &result)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, cache.Delete(ctx, "key"))
}

func TestUpstreamRateLimit(t *testing.T) {
	cfg := UpstreamRateLimit("yahoo", 7)

	assert.Equal(t, "yahoo", cfg.Key)
	assert.Equal(t, 7, cfg.Limit)
	assert.Equal(t, time.Second, cfg.Window)
}

func TestCache_Live(t *testing.T) {
	client := liveClient(t)
	cache := NewCache(client, "stockpulse-test")
	ctx := context.Background()

	type payload struct {
		Price float64 `json:"price"`
	}

	require.NoError(t, cache.Set(ctx, "quote:TCS.NSE", payload{Price: 4012.5}, time.Minute))
	t.Cleanup(func() { _ = cache.Delete(ctx, "quote:TCS.NSE") })

	var got payload
	found, err := cache.Get(ctx, "quote:TCS.NSE", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 4012.5, got.Price)

	found, err = cache.Get(ctx, "quote:MISSING", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRateLimiter_Live(t *testing.T) {
	client := liveClient(t)
	limiter := NewRateLimiter(client, "stockpulse-test")
	cfg := RateLimitConfig{Key: "live-" + time.Now().Format("150405.000"), Limit: 2, Window: time.Minute}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, _, err := limiter.Allow(ctx, cfg)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, remaining, err := limiter.Allow(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Zero(t, remaining)
}

func TestRateLimiter_LiveSameMillisecondAdmissions(t *testing.T) {
	client := liveClient(t)
	limiter := NewRateLimiter(client, "stockpulse-test")
	ctx := context.Background()

	at := time.Now()
	limiter.now = func() time.Time { return at }

	cfg := RateLimitConfig{Key: "same-ms-" + at.Format("150405.000"), Limit: 5, Window: time.Second}
	key := "stockpulse-test:ratelimit:" + cfg.Key
	ms := at.UnixMilli()
	t.Cleanup(func() { client.Redis().Del(ctx, key) })

	// One admission already in this millisecond and one about to be trimmed,
	// so the trimmed count matches the existing member's index
	require.NoError(t, client.Redis().ZAdd(ctx, key,
		redis.Z{Score: float64(ms), Member: fmt.Sprintf("%d-1", ms)},
		redis.Z{Score: float64(ms - 5000), Member: "expired"},
	).Err())

	allowed, _, err := limiter.Allow(ctx, cfg)
	require.NoError(t, err)
	require.True(t, allowed)

	count, err := client.Redis().ZCard(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	for i := 0; i < 3; i++ {
		allowed, _, err = limiter.Allow(ctx, cfg)
		require.NoError(t, err)
		require.True(t, allowed)
	}

	allowed, _, err = limiter.Allow(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, allowed, "fifth admission in the window must be refused")
}
