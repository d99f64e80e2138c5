// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/onews-go/internal/cache"
	"github.com/olegiv/onews-go/internal/config"
	"github.com/olegiv/onews-go/internal/content"
	"github.com/olegiv/onews-go/internal/handler"
	"github.com/olegiv/onews-go/internal/logging"
	"github.com/olegiv/onews-go/internal/middleware"
	"github.com/olegiv/onews-go/internal/scheduler"
	"github.com/olegiv/onews-go/internal/service"
	"github.com/olegiv/onews-go/internal/store"
	"github.com/olegiv/onews-go/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "oNews - News Publishing Server\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ONEWS_DB_PATH          SQLite database path (default: ./data/onews.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ONEWS_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ONEWS_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ONEWS_REPO_BACKEND     Post repository backend: sqlite|memory (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ONEWS_REPO_PATH        JSON file for the memory backend (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ONEWS_REPO_LATENCY_MS  Artificial repository latency in milliseconds (default: 0)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ONEWS_REDIS_URL        Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ONEWS_DO_SEED          Seed demo posts on startup (default: false)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
		_, _ = fmt.Printf("onews %s\n", info)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Initialize database
	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the event log table
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if err := store.SeedDemo(ctx, db, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding demo content: %w", err)
	}

	// Initialize cache backend
	cacheConfig := cache.DefaultConfig()
	cacheConfig.Prefix = cfg.CachePrefix
	cacheConfig.DefaultTTL = time.Duration(cfg.CacheTTL) * time.Second
	cacheConfig.MaxSize = cfg.CacheMaxSize
	if cfg.UseRedisCache() {
		cacheConfig.Type = cache.TypeRedis
		cacheConfig.RedisURL = cfg.RedisURL
		cacheConfig.FallbackToMemory = true
	}
	cacher, err := cache.New(cacheConfig)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() {
		if err := cacher.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	tags := cache.NewTags(cacher)

	// Build the post repository for the configured backend
	repo, err := buildRepository(cfg, db)
	if err != nil {
		return fmt.Errorf("initializing repository: %w", err)
	}
	cached := content.NewCachedRepository(repo, cacher, tags, cacheConfig.DefaultTTL)

	posts := service.NewPostService(cached, tags, logger)
	h := handler.NewHandler(cached, posts, logger)

	// Initialize and start scheduler
	sched := scheduler.New(cached, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// Router
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Group(func(r chi.Router) {
		r.Use(middleware.WriteRateLimit(2, 5))
		r.Post("/admin/posts", h.CreatePost)
	})
	r.Get("/admin/posts", h.ListPosts)
	r.Get("/admin/posts/{id}", h.GetPost)
	r.Get("/posts", h.ListPublicPosts)
	r.Get("/post/{slug}", h.GetPublicPost)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// buildRepository selects the post repository backend from configuration.
func buildRepository(cfg *config.Config, db *sql.DB) (content.Repository, error) {
	latency := time.Duration(cfg.RepoLatencyMS) * time.Millisecond

	switch cfg.RepoBackend {
	case config.RepoBackendMemory:
		slog.Info("using memory repository", "path", cfg.RepoPath, "latency", latency)
		return content.NewMemoryRepository(content.MemoryRepositoryOptions{
			Path:    cfg.RepoPath,
			Latency: latency,
		})
	default:
		slog.Info("using sqlite repository")
		return content.NewSQLiteRepository(db), nil
	}
}
