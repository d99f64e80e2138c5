// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content provides the post repository abstraction: one contract over
// interchangeable backing stores, plus a cached read-through decorator.
package content

import (
	"context"
	"errors"

	"github.com/olegiv/onews-go/internal/model"
)

// TagPosts is the cache tag invalidated whenever the posts collection changes.
const TagPosts = "posts"

var (
	// ErrPostNotFound is returned by single-item reads when no matching
	// (published, where applicable) post exists. An expected outcome.
	ErrPostNotFound = errors.New("post not found")

	// ErrDuplicateSlug is returned by Create when a post with the same slug
	// already exists. Slug collisions are rejected, never silently resolved.
	ErrDuplicateSlug = errors.New("post slug already exists")

	// ErrStoreUnavailable is returned when the backing store cannot be reached
	// or refuses the operation for reasons unrelated to the post itself.
	ErrStoreUnavailable = errors.New("content store unavailable")
)

// Repository is the post persistence contract. All backends honor identical
// ordering (created_at descending, id descending as tie-break) and filtering
// semantics, so callers are backend-agnostic. Reads are side-effect-free.
type Repository interface {
	// Create persists exactly one new post. It either writes the full entity
	// or nothing: no partial write is ever observable to readers.
	Create(ctx context.Context, post *model.Post) error

	// FindAll returns every post, published or not, newest first.
	FindAll(ctx context.Context) ([]model.Post, error)

	// FindAllPublic returns published posts, newest first.
	FindAllPublic(ctx context.Context) ([]model.Post, error)

	// FindByID returns a post by ID regardless of publication state.
	// Returns ErrPostNotFound when no such post exists.
	FindByID(ctx context.Context, id string) (*model.Post, error)

	// FindBySlugPublic returns a published post by slug. Returns
	// ErrPostNotFound when no published post carries the slug, including when
	// an unpublished one does.
	FindBySlugPublic(ctx context.Context, slug string) (*model.Post, error)
}
