package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestCache(t *testing.T) *TTLCache[string] {
	t.Helper()
	c := New[string](time.Hour, zap.NewNop())
	t.Cleanup(c.Stop)
	return c
}

func TestCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)

	c.Set("weather:grimentz:2026-01-17", "forecast", time.Minute)

	got, ok := c.Get("weather:grimentz:2026-01-17")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != "forecast" {
		t.Errorf("got %q, want %q", got, "forecast")
	}
}

func TestCacheMissOnUnknownKey(t *testing.T) {
	c := newTestCache(t)

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := newTestCache(t)

	c.Set("key", "value", 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("key"); ok {
		t.Error("expected miss after TTL elapsed")
	}
	if c.Len() != 0 {
		t.Errorf("expected expired entry to be deleted on lookup, Len() = %d", c.Len())
	}
}

func TestCacheLastWriteWins(t *testing.T) {
	c := newTestCache(t)

	c.Set("key", "old", time.Minute)
	c.Set("key", "new", time.Minute)

	got, ok := c.Get("key")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != "new" {
		t.Errorf("got %q, want %q", got, "new")
	}
}

func TestCacheSetRefreshesExpiry(t *testing.T) {
	c := newTestCache(t)

	c.Set("key", "value", 10*time.Millisecond)
	c.Set("key", "value", time.Minute)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("key"); !ok {
		t.Error("expected hit after expiry was refreshed")
	}
}

func TestCacheClear(t *testing.T) {
	c := newTestCache(t)

	c.Set("a", "1", time.Minute)
	c.Set("b", "2", time.Minute)
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", c.Len())
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := newTestCache(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key-%d", j%8)
				c.Set(key, fmt.Sprintf("value-%d-%d", n, j), time.Minute)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() != 8 {
		t.Errorf("Len() = %d, want 8", c.Len())
	}
}

func TestCacheSweepRemovesExpired(t *testing.T) {
	c := New[int](10*time.Millisecond, zap.NewNop())
	defer c.Stop()

	c.Set("stale", 1, time.Millisecond)
	c.Set("live", 2, time.Minute)

	time.Sleep(50 * time.Millisecond)

	if c.Len() != 1 {
		t.Errorf("Len() = %d after sweep, want 1", c.Len())
	}
	if _, ok := c.Get("live"); !ok {
		t.Error("expected unexpired entry to survive the sweep")
	}
}

func TestCacheStopIsIdempotent(t *testing.T) {
	c := New[int](time.Hour, zap.NewNop())
	c.Stop()
	c.Stop()
}
