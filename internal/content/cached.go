// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/onews-go/internal/cache"
	"github.com/olegiv/onews-go/internal/model"
)

var _ Repository = (*CachedRepository)(nil)

// CachedRepository decorates a Repository with read-through caching of the
// public read paths. Cache keys embed the current "posts" tag token, so an
// Invalidate on that tag strands every cached entry at once and the next read
// recomputes from the underlying repository. Writes and administrative reads
// pass straight through. A failing cache never fails a read: the decorator
// falls back to the underlying repository.
type CachedRepository struct {
	repo  Repository
	cache cache.Cacher
	tags  *cache.Tags
	ttl   time.Duration
}

// NewCachedRepository wraps repo with read-through caching.
func NewCachedRepository(repo Repository, c cache.Cacher, tags *cache.Tags, ttl time.Duration) *CachedRepository {
	return &CachedRepository{
		repo:  repo,
		cache: c,
		tags:  tags,
		ttl:   ttl,
	}
}

// Create delegates to the underlying repository. Invalidation is the
// pipeline's responsibility, so a failed create never touches the tag.
func (r *CachedRepository) Create(ctx context.Context, post *model.Post) error {
	return r.repo.Create(ctx, post)
}

// FindAll delegates to the underlying repository (administrative view,
// uncached so editors always see fresh state including drafts).
func (r *CachedRepository) FindAll(ctx context.Context) ([]model.Post, error) {
	return r.repo.FindAll(ctx)
}

// FindByID delegates to the underlying repository.
func (r *CachedRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	return r.repo.FindByID(ctx, id)
}

// FindAllPublic returns the published posts list, cached under the current
// "posts" tag token.
func (r *CachedRepository) FindAllPublic(ctx context.Context) ([]model.Post, error) {
	key, ok := r.key(ctx, "public-list")
	if !ok {
		return r.repo.FindAllPublic(ctx)
	}

	if data, err := r.cache.Get(ctx, key); err == nil {
		var posts []model.Post
		if err := json.Unmarshal(data, &posts); err == nil {
			return posts, nil
		}
		// Corrupt entry: drop it and recompute
		_ = r.cache.Delete(ctx, key)
	}

	posts, err := r.repo.FindAllPublic(ctx)
	if err != nil {
		return nil, err
	}

	r.set(ctx, key, posts)
	return posts, nil
}

// FindBySlugPublic returns a published post by slug, cached under the current
// "posts" tag token. Misses (ErrPostNotFound) are not cached.
func (r *CachedRepository) FindBySlugPublic(ctx context.Context, slug string) (*model.Post, error) {
	key, ok := r.key(ctx, "slug:"+slug)
	if !ok {
		return r.repo.FindBySlugPublic(ctx, slug)
	}

	if data, err := r.cache.Get(ctx, key); err == nil {
		var post model.Post
		if err := json.Unmarshal(data, &post); err == nil {
			return &post, nil
		}
		_ = r.cache.Delete(ctx, key)
	}

	post, err := r.repo.FindBySlugPublic(ctx, slug)
	if err != nil {
		return nil, err
	}

	r.set(ctx, key, post)
	return post, nil
}

// key builds a tag-token-scoped cache key. Returns ok=false when the tag
// registry is unreachable, in which case the caller bypasses the cache.
func (r *CachedRepository) key(ctx context.Context, suffix string) (string, bool) {
	token, err := r.tags.Token(ctx, TagPosts)
	if err != nil {
		slog.Warn("posts tag token unavailable, bypassing cache", "error", err)
		return "", false
	}
	return fmt.Sprintf("%s:%s:%s", TagPosts, token, suffix), true
}

// set stores a value in the cache, logging rather than propagating failures.
func (r *CachedRepository) set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		slog.Warn("encoding cached posts", "error", err)
		return
	}
	if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
		slog.Warn("writing posts cache", "key", key, "error", err)
	}
}
