package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheSetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := New(Config{DefaultTTL: time.Minute, CleanupInterval: time.Minute})
	defer c.Close()

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	c.Set(ctx, "k", 42)
	v, ok := c.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	c.Delete(ctx, "k")
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := New(Config{DefaultTTL: 10 * time.Millisecond, CleanupInterval: time.Minute})
	defer c.Close()

	c.Set(ctx, "k", "v")
	time.Sleep(20 * time.Millisecond)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestCacheMaxItemsEviction(t *testing.T) {
	ctx := context.Background()
	evicted := []string{}
	c := New(Config{
		DefaultTTL:      time.Minute,
		CleanupInterval: time.Minute,
		MaxItems:        2,
		OnEviction:      func(key string) { evicted = append(evicted, key) },
	})
	defer c.Close()

	c.Set(ctx, "a", 1)
	c.Set(ctx, "b", 2)
	c.Set(ctx, "c", 3)
	assert.Len(t, evicted, 1)

	_, ok := c.Get(ctx, "c")
	assert.True(t, ok)
}
