package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is a mutex-guarded in-memory Cacher. Values are copied on the
// way in and on the way out so callers can never mutate cached state.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	defaultTTL time.Duration
	maxSize    int
	stopCh     chan struct{}
	closed     bool

	hits   int64
	misses int64
	sets   int64
	bytes  int64
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCacheOptions configures the memory cache.
type MemoryCacheOptions struct {
	DefaultTTL      time.Duration
	MaxSize         int           // Maximum number of entries (0 = unlimited)
	CleanupInterval time.Duration // Interval for expired entry cleanup (0 = no cleanup)
}

// NewMemoryCache creates a new memory cache with the given options.
func NewMemoryCache(opts MemoryCacheOptions) *MemoryCache {
	c := &MemoryCache{
		entries:    make(map[string]memoryEntry),
		defaultTTL: opts.DefaultTTL,
		maxSize:    opts.MaxSize,
		stopCh:     make(chan struct{}),
	}
	if opts.CleanupInterval > 0 {
		go c.cleanupLoop(opts.CleanupInterval)
	}
	return c
}

// NewSimpleMemoryCache creates an unbounded memory cache with just a TTL.
func NewSimpleMemoryCache(ttl time.Duration) *MemoryCache {
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      ttl,
		CleanupInterval: time.Minute,
	})
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrCacheClosed
	}

	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, ErrCacheMiss
	}
	if time.Now().After(entry.expiresAt) {
		c.removeLocked(key, entry)
		c.misses++
		return nil, ErrCacheMiss
	}

	c.hits++
	result := make([]byte, len(entry.value))
	copy(result, entry.value)
	return result, nil
}

// Set stores a value in the cache. A zero ttl means the default TTL.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCacheClosed
	}

	// At capacity, reclaim expired entries before inserting
	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.removeExpiredLocked()
	}

	if old, ok := c.entries[key]; ok {
		c.bytes -= int64(len(old.value))
	}
	c.entries[key] = memoryEntry{value: valueCopy, expiresAt: time.Now().Add(ttl)}
	c.bytes += int64(len(valueCopy))
	c.sets++
	return nil
}

// Delete removes a key from the cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCacheClosed
	}
	if entry, ok := c.entries[key]; ok {
		c.removeLocked(key, entry)
	}
	return nil
}

// Clear removes all entries from the cache.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCacheClosed
	}
	c.entries = make(map[string]memoryEntry)
	c.bytes = 0
	return nil
}

// Has reports whether a key exists and has not expired.
func (c *MemoryCache) Has(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false, ErrCacheClosed
	}

	entry, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	if time.Now().After(entry.expiresAt) {
		c.removeLocked(key, entry)
		return false, nil
	}
	return true, nil
}

// Close stops the cleanup goroutine and rejects further use.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.stopCh)
	}
	return nil
}

// Stats returns current cache statistics.
func (c *MemoryCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.hits + c.misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(c.hits) / float64(total) * 100
	}
	return Stats{
		Hits:    c.hits,
		Misses:  c.misses,
		Sets:    c.sets,
		Items:   len(c.entries),
		HitRate: hitRate,
		Size:    c.bytes,
	}
}

// ResetStats resets the cache statistics.
func (c *MemoryCache) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hits, c.misses, c.sets = 0, 0, 0
}

func (c *MemoryCache) removeLocked(key string, entry memoryEntry) {
	delete(c.entries, key)
	c.bytes -= int64(len(entry.value))
}

func (c *MemoryCache) removeExpiredLocked() {
	now := time.Now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			c.removeLocked(key, entry)
		}
	}
}

func (c *MemoryCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			if c.closed {
				c.mu.Unlock()
				return
			}
			c.removeExpiredLocked()
			c.mu.Unlock()
		case <-c.stopCh:
			return
		}
	}
}
