package cache

import (
	"fmt"
	"log/slog"
	"time"
)

// Cache backend types.
const (
	TypeMemory = "memory"
	TypeRedis  = "redis"
)

// Config holds configuration for cache creation.
type Config struct {
	// Type is the cache backend type: "memory" or "redis"
	Type string

	// RedisURL is the Redis connection URL (only for redis type)
	// Example: redis://localhost:6379/0
	RedisURL string

	// Prefix is the key prefix for Redis (only for redis type)
	Prefix string

	// DefaultTTL is the default TTL for cache entries
	DefaultTTL time.Duration

	// MaxSize is the maximum number of entries for memory cache (0 = unlimited)
	MaxSize int

	// CleanupInterval is the interval for expired entry cleanup
	CleanupInterval time.Duration

	// FallbackToMemory falls back to a memory cache when Redis is unreachable
	// instead of failing startup.
	FallbackToMemory bool
}

// DefaultConfig returns default cache configuration.
func DefaultConfig() Config {
	return Config{
		Type:            TypeMemory,
		DefaultTTL:      time.Hour,
		MaxSize:         10000,
		CleanupInterval: time.Minute,
	}
}

// New creates a cache based on the provided configuration.
func New(cfg Config) (Cacher, error) {
	if cfg.Type == TypeRedis && cfg.RedisURL != "" {
		opts := DefaultRedisCacheOptions()
		opts.URL = cfg.RedisURL
		if cfg.Prefix != "" {
			opts.Prefix = cfg.Prefix
		}
		if cfg.DefaultTTL > 0 {
			opts.DefaultTTL = cfg.DefaultTTL
		}

		redisCache, err := NewRedisCache(opts)
		if err == nil {
			return redisCache, nil
		}
		if !cfg.FallbackToMemory {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		slog.Warn("redis unavailable, falling back to memory cache", "error", err)
	}

	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: cfg.CleanupInterval,
	}), nil
}
