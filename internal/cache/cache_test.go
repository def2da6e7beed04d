package cache_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statusteacher/statusteacher/internal/cache"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "statuscode:gemini:404", cache.Key("statuscode", "gemini", 404))
	assert.Equal(t, "claude:200", cache.Key("", "claude", 200))
	assert.Equal(t, "500", cache.Key("", "", 500))
}

func TestNoop_AlwaysMisses(t *testing.T) {
	ctx := context.Background()
	c := cache.NewNoop()

	c.Set(ctx, "k", "v", time.Minute)
	got, ok := c.Get(ctx, "k")

	assert.False(t, ok)
	assert.Empty(t, got)
	assert.Equal(t, "none", c.Kind())
}

func TestMemory_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewMemory(8)
	require.NoError(t, err)

	c.Set(ctx, "statuscode:gemini:404", `{"code":404}`, 0)

	got, ok := c.Get(ctx, "statuscode:gemini:404")
	require.True(t, ok)
	assert.Equal(t, `{"code":404}`, got)

	_, ok = c.Get(ctx, "statuscode:gemini:405")
	assert.False(t, ok)
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c, err := cache.NewMemory(8, cache.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	c.Set(ctx, "short", "a", time.Minute)
	c.Set(ctx, "default", "b", 0)

	now = now.Add(59 * time.Second)
	_, ok := c.Get(ctx, "short")
	assert.True(t, ok, "entry should live until its TTL")

	now = now.Add(time.Second)
	_, ok = c.Get(ctx, "short")
	assert.False(t, ok, "entry should expire at its TTL")
	assert.Equal(t, 1, c.Len())

	now = now.Add(cache.DefaultTTL - time.Minute - time.Second)
	_, ok = c.Get(ctx, "default")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok = c.Get(ctx, "default")
	assert.False(t, ok)
}

func TestMemory_ExpiryKeepsRefreshedEntry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	var c *cache.Memory
	refresh := false
	// The refresh lands after Get has read the stale entry and before it
	// decides to remove it.
	clock := func() time.Time {
		if refresh {
			refresh = false
			c.Set(ctx, "k", "fresh", time.Minute)
		}
		return now
	}
	c, err := cache.NewMemory(8, cache.WithClock(clock))
	require.NoError(t, err)

	c.Set(ctx, "k", "stale", time.Second)
	now = now.Add(2 * time.Second)
	refresh = true

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok, "stale read should miss")

	got, ok := c.Get(ctx, "k")
	require.True(t, ok, "refreshed entry must survive expiry of the old one")
	assert.Equal(t, "fresh", got)
}

func TestMemory_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewMemory(2)
	require.NoError(t, err)

	c.Set(ctx, "a", "1", time.Hour)
	c.Set(ctx, "b", "2", time.Hour)
	_, _ = c.Get(ctx, "a")
	c.Set(ctx, "c", "3", time.Hour)

	_, ok := c.Get(ctx, "b")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "a")
	assert.True(t, ok)
	_, ok = c.Get(ctx, "c")
	assert.True(t, ok)
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewMemory(64)
	require.NoError(t, err)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", (i+j)%16)
				c.Set(ctx, key, "v", time.Minute)
				c.Get(ctx, key)
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	assert.LessOrEqual(t, c.Len(), 16)
}

func TestRedis_UnreachableServerIsTolerated(t *testing.T) {
	ctx := context.Background()

	c, err := cache.NewRedis(ctx, "127.0.0.1:1")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	c.Set(ctx, "k", "v", time.Minute)
	got, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Empty(t, got)
	assert.Equal(t, "redis", c.Kind())
}

func TestRedis_InvalidURL(t *testing.T) {
	_, err := cache.NewRedis(context.Background(), "redis://:bad@host:notaport/0")
	assert.Error(t, err)
}
