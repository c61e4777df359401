package cache

import (
	"context"
	"testing"
	"time"
)

func newTestCache(maxItems int) *Cache {
	return New(Config{
		DefaultTTL:      time.Minute,
		CleanupInterval: time.Minute,
		MaxItems:        maxItems,
	})
}

func TestCacheSetGet(t *testing.T) {
	c := newTestCache(10)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "a", 1)
	if v, ok := c.Get(ctx, "a"); !ok || v.(int) != 1 {
		t.Errorf("expected 1, got %v (ok=%v)", v, ok)
	}
	if _, ok := c.Get(ctx, "missing"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := newTestCache(10)
	defer c.Close()
	ctx := context.Background()

	c.SetWithTTL(ctx, "a", 1, 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get(ctx, "a"); ok {
		t.Error("expected expired entry to be gone")
	}
}

func TestCacheLRUEviction(t *testing.T) {
	c := newTestCache(2)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "a", 1)
	c.Set(ctx, "b", 2)
	// Touch "a" so "b" becomes the eviction candidate.
	c.Get(ctx, "a")
	c.Set(ctx, "c", 3)

	if _, ok := c.Get(ctx, "b"); ok {
		t.Error("expected b to be evicted")
	}
	if _, ok := c.Get(ctx, "a"); !ok {
		t.Error("expected a to survive")
	}
	if _, ok := c.Get(ctx, "c"); !ok {
		t.Error("expected c to be present")
	}
}

func TestCacheDelete(t *testing.T) {
	c := newTestCache(10)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "a", 1)
	c.Delete(ctx, "a")
	if _, ok := c.Get(ctx, "a"); ok {
		t.Error("expected deleted entry to be gone")
	}
}
