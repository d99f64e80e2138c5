// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/olegiv/onews-go/internal/model"
	"github.com/olegiv/onews-go/internal/store"
)

var _ Repository = (*SQLiteRepository)(nil)

// SQLiteRepository is the durable-store-backed Repository over the SQLite
// query layer. The unique index on the slug column enforces slug uniqueness;
// the single-row insert is the atomicity boundary.
type SQLiteRepository struct {
	queries *store.Queries
}

// NewSQLiteRepository creates a Repository over the given database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{queries: store.New(db)}
}

// Create persists a new post. A slug collision surfaces as ErrDuplicateSlug.
func (r *SQLiteRepository) Create(ctx context.Context, post *model.Post) error {
	_, err := r.queries.CreatePost(ctx, store.CreatePostParams{
		ID:         post.ID,
		Title:      post.Title,
		Slug:       post.Slug,
		Excerpt:    post.Excerpt,
		Body:       post.Body,
		CoverImage: post.CoverImage,
		Published:  post.Published,
		CreatedAt:  post.CreatedAt,
		UpdatedAt:  post.UpdatedAt,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// FindAll returns every post, newest first.
func (r *SQLiteRepository) FindAll(ctx context.Context) ([]model.Post, error) {
	posts, err := r.queries.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return posts, nil
}

// FindAllPublic returns published posts, newest first.
func (r *SQLiteRepository) FindAllPublic(ctx context.Context) ([]model.Post, error) {
	posts, err := r.queries.ListPublishedPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return posts, nil
}

// FindByID returns a post by ID regardless of publication state.
func (r *SQLiteRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	post, err := r.queries.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &post, nil
}

// FindBySlugPublic returns a published post by slug.
func (r *SQLiteRepository) FindBySlugPublic(ctx context.Context, slug string) (*model.Post, error) {
	post, err := r.queries.GetPublishedPostBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &post, nil
}

// isUniqueViolation reports whether err is a SQLite unique constraint error.
// The modernc driver exposes no typed constraint error, so the message is
// the only reliable signal.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
