package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecializationCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewSpecializationCache(client)
	ctx := context.Background()

	_, ok := c.Get(ctx)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, []string{"Cardiology", "Dermatology"}))

	got, ok := c.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, []string{"Cardiology", "Dermatology"}, got)

	mr.FastForward(11 * time.Minute)
	_, ok = c.Get(ctx)
	assert.False(t, ok, "entry expires after ttl")

	require.NoError(t, c.Set(ctx, []string{"Neurology"}))
	require.NoError(t, c.Invalidate(ctx))
	_, ok = c.Get(ctx)
	assert.False(t, ok)
}

func TestSpecializationCacheWithoutRedis(t *testing.T) {
	c := NewSpecializationCache(nil)
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, []string{"x"}))
	_, ok := c.Get(ctx)
	assert.False(t, ok)
	assert.NoError(t, c.Invalidate(ctx))

	var nilCache *SpecializationCache
	_, ok = nilCache.Get(ctx)
	assert.False(t, ok)
}
