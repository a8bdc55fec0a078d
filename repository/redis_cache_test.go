package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := NewRedisCache(RedisOptions{Address: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })
	return cache, mr
}

func TestRedisCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestRedisCache(t)

	require.NoError(t, cache.Ping(ctx))
	require.NoError(t, cache.Set(ctx, "session:abc", "+15551234567", 0))

	val, ok := cache.Get(ctx, "session:abc")
	assert.True(t, ok)
	assert.Equal(t, "+15551234567", val)

	require.NoError(t, cache.Delete(ctx, "session:abc"))
	_, ok = cache.Get(ctx, "session:abc")
	assert.False(t, ok)

	assert.NoError(t, cache.Delete(ctx, "missing"))
}

func TestRedisCache_TTL(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestRedisCache(t)

	require.NoError(t, cache.Set(ctx, "otp:+15551234567", "111111", 5*time.Minute))
	assert.Equal(t, 5*time.Minute, mr.TTL("otp:+15551234567"))

	mr.FastForward(5 * time.Minute)
	_, ok := cache.Get(ctx, "otp:+15551234567")
	assert.False(t, ok)
}

func TestRedisCache_PingFailsWhenServerDown(t *testing.T) {
	cache, mr := newTestRedisCache(t)
	mr.Close()

	assert.Error(t, cache.Ping(context.Background()))
}
