package cache

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a concurrency-safe keyed store with per-entry expiry.
// A read past an entry's TTL is a miss, never a stale hit. Expired
// entries are deleted lazily on lookup; a background sweep additionally
// reclaims entries nobody reads again.
type TTLCache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	logger  *zap.Logger

	sweepInterval time.Duration
	stopSweep     chan struct{}
	stopOnce      sync.Once
}

// New creates a TTLCache and starts its sweep goroutine. Call Stop when
// the cache is no longer needed.
func New[V any](sweepInterval time.Duration, logger *zap.Logger) *TTLCache[V] {
	c := &TTLCache[V]{
		entries:       make(map[string]entry[V]),
		logger:        logger,
		sweepInterval: sweepInterval,
		stopSweep:     make(chan struct{}),
	}

	go c.sweepLoop()

	return c
}

// Set stores value under key for ttl from now. A later Set for the same
// key replaces the previous value and expiry.
func (c *TTLCache[V]) Set(key string, value V, ttl time.Duration) {
	expiresAt := time.Now().Add(ttl)

	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, expiresAt: expiresAt}
	c.mu.Unlock()

	c.logger.Debug("Cache entry stored",
		zap.String("key", key),
		zap.Time("expires_at", expiresAt))
}

// Get returns the value for key if present and not expired.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}

	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have
		// refreshed the entry since the read above.
		if cur, ok := c.entries[key]; ok && time.Now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()

		c.logger.Debug("Cache entry expired", zap.String("key", key))
		return zero, false
	}

	return e.value, true
}

// Len reports the number of stored entries, expired ones included.
func (c *TTLCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries.
func (c *TTLCache[V]) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry[V])
	c.mu.Unlock()
}

// Stop terminates the background sweep goroutine.
func (c *TTLCache[V]) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopSweep)
	})
}

func (c *TTLCache[V]) sweepLoop() {
	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stopSweep:
			return
		}
	}
}

func (c *TTLCache[V]) sweep() {
	now := time.Now()
	removed := 0

	c.mu.Lock()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	c.mu.Unlock()

	if removed > 0 {
		c.logger.Debug("Swept expired cache entries", zap.Int("count", removed))
	}
}
