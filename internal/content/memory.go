// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/olegiv/onews-go/internal/model"
)

var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository is a lightweight Repository for testing and bootstrapping.
// Posts live in a mutex-guarded map, optionally persisted to a JSON file so
// content survives restarts. An optional per-operation latency simulates a
// slow backend; it honors context cancellation.
type MemoryRepository struct {
	mu      sync.RWMutex
	posts   map[string]model.Post
	path    string
	latency time.Duration
}

// MemoryRepositoryOptions configures the memory repository.
type MemoryRepositoryOptions struct {
	// Path is an optional JSON file the repository loads on startup and
	// rewrites after every successful create (empty = in-memory only).
	Path string

	// Latency is an optional artificial delay applied to every operation.
	Latency time.Duration
}

// NewMemoryRepository creates a memory repository, loading existing posts
// from the JSON file when a path is configured and the file exists.
func NewMemoryRepository(opts MemoryRepositoryOptions) (*MemoryRepository, error) {
	r := &MemoryRepository{
		posts:   make(map[string]model.Post),
		path:    opts.Path,
		latency: opts.Latency,
	}

	if opts.Path != "" {
		data, err := os.ReadFile(opts.Path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// First run, nothing to load
		case err != nil:
			return nil, fmt.Errorf("reading posts file: %w", err)
		default:
			var posts []model.Post
			if err := json.Unmarshal(data, &posts); err != nil {
				return nil, fmt.Errorf("parsing posts file: %w", err)
			}
			for _, p := range posts {
				r.posts[p.ID] = p
			}
		}
	}

	return r, nil
}

// Create persists a new post. A slug collision surfaces as ErrDuplicateSlug.
func (r *MemoryRepository) Create(ctx context.Context, post *model.Post) error {
	if err := r.delay(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.posts {
		if existing.Slug == post.Slug {
			return ErrDuplicateSlug
		}
	}
	if _, ok := r.posts[post.ID]; ok {
		return fmt.Errorf("%w: duplicate post id %s", ErrStoreUnavailable, post.ID)
	}

	r.posts[post.ID] = *post

	if err := r.persistLocked(); err != nil {
		// Keep the no-partial-write guarantee: roll the entry back
		delete(r.posts, post.ID)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// FindAll returns every post, newest first.
func (r *MemoryRepository) FindAll(ctx context.Context) ([]model.Post, error) {
	if err := r.delay(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedLocked(func(model.Post) bool { return true }), nil
}

// FindAllPublic returns published posts, newest first.
func (r *MemoryRepository) FindAllPublic(ctx context.Context) ([]model.Post, error) {
	if err := r.delay(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedLocked(func(p model.Post) bool { return p.Published }), nil
}

// FindByID returns a post by ID regardless of publication state.
func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	if err := r.delay(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.posts[id]; ok {
		return &p, nil
	}
	return nil, ErrPostNotFound
}

// FindBySlugPublic returns a published post by slug.
func (r *MemoryRepository) FindBySlugPublic(ctx context.Context, slug string) (*model.Post, error) {
	if err := r.delay(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.posts {
		if p.Published && p.Slug == slug {
			return &p, nil
		}
	}
	return nil, ErrPostNotFound
}

// sortedLocked returns matching posts ordered like the SQLite backend:
// created_at descending, id descending as tie-break. Callers hold r.mu.
func (r *MemoryRepository) sortedLocked(match func(model.Post) bool) []model.Post {
	var posts []model.Post
	for _, p := range r.posts {
		if match(p) {
			posts = append(posts, p)
		}
	}

	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
	return posts
}

// persistLocked rewrites the JSON file atomically. Callers hold r.mu.
func (r *MemoryRepository) persistLocked() error {
	if r.path == "" {
		return nil
	}

	posts := r.sortedLocked(func(model.Post) bool { return true })
	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding posts: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("creating posts dir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing posts file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replacing posts file: %w", err)
	}
	return nil
}

// delay simulates backend latency, aborting early when the context is done.
func (r *MemoryRepository) delay(ctx context.Context) error {
	if r.latency <= 0 {
		return nil
	}

	timer := time.NewTimer(r.latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
