// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Repository backends selectable via ONEWS_REPO_BACKEND.
const (
	RepoBackendSQLite = "sqlite"
	RepoBackendMemory = "memory"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"ONEWS_DB_PATH" envDefault:"./data/onews.db"`
	ServerHost string `env:"ONEWS_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"ONEWS_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"ONEWS_ENV" envDefault:"development"`
	LogLevel   string `env:"ONEWS_LOG_LEVEL" envDefault:"info"`

	// Cache configuration
	RedisURL     string `env:"ONEWS_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"ONEWS_CACHE_PREFIX" envDefault:"onews:"`  // Redis key prefix
	CacheTTL     int    `env:"ONEWS_CACHE_TTL" envDefault:"3600"`       // Default cache TTL in seconds
	CacheMaxSize int    `env:"ONEWS_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// Repository configuration
	RepoBackend   string `env:"ONEWS_REPO_BACKEND" envDefault:"sqlite"` // sqlite or memory
	RepoPath      string `env:"ONEWS_REPO_PATH"`                        // JSON file for the memory backend
	RepoLatencyMS int    `env:"ONEWS_REPO_LATENCY_MS" envDefault:"0"`   // Artificial backend latency

	// Seeding configuration
	DoSeed bool `env:"ONEWS_DO_SEED" envDefault:"false"` // Enable database seeding
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	switch cfg.RepoBackend {
	case RepoBackendSQLite, RepoBackendMemory:
	default:
		return nil, fmt.Errorf("ONEWS_REPO_BACKEND must be %q or %q, got %q",
			RepoBackendSQLite, RepoBackendMemory, cfg.RepoBackend)
	}

	if cfg.RepoLatencyMS < 0 {
		return nil, fmt.Errorf("ONEWS_REPO_LATENCY_MS must not be negative, got %d", cfg.RepoLatencyMS)
	}

	return cfg, nil
}
