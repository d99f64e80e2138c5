// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/olegiv/onews-go/internal/model"
)

// DBTX is the subset of *sql.DB and *sql.Tx used by Queries.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries provides typed access to the database.
type Queries struct {
	db DBTX
}

// New creates a new Queries instance.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries instance bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const postColumns = `id, title, slug, excerpt, body,
	cover_image_url, cover_image_width, cover_image_height, cover_image_alt,
	published, created_at, updated_at`

// CreatePostParams holds the fields for creating a post.
type CreatePostParams struct {
	ID         string
	Title      string
	Slug       string
	Excerpt    string
	Body       string
	CoverImage model.CoverImage
	Published  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CreatePost inserts a single post row.
func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (model.Post, error) {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO posts (`+postColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.ID, arg.Title, arg.Slug, arg.Excerpt, arg.Body,
		arg.CoverImage.URL, arg.CoverImage.Width, arg.CoverImage.Height, arg.CoverImage.Alt,
		arg.Published, arg.CreatedAt, arg.UpdatedAt,
	)
	if err != nil {
		return model.Post{}, err
	}

	return model.Post{
		ID:         arg.ID,
		Title:      arg.Title,
		Slug:       arg.Slug,
		Excerpt:    arg.Excerpt,
		Body:       arg.Body,
		CoverImage: arg.CoverImage,
		Published:  arg.Published,
		CreatedAt:  arg.CreatedAt,
		UpdatedAt:  arg.UpdatedAt,
	}, nil
}

// ListPosts returns all posts, newest first.
func (q *Queries) ListPosts(ctx context.Context) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+postColumns+` FROM posts
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanPosts(rows)
}

// ListPublishedPosts returns published posts, newest first.
func (q *Queries) ListPublishedPosts(ctx context.Context) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE published = 1
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanPosts(rows)
}

// GetPostByID returns a post by its ID, published or not.
func (q *Queries) GetPostByID(ctx context.Context, id string) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE id = ?`, id)
	return scanPost(row)
}

// GetPublishedPostBySlug returns a published post by its slug.
func (q *Queries) GetPublishedPostBySlug(ctx context.Context, slug string) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE published = 1 AND slug = ?`, slug)
	return scanPost(row)
}

// CountPostsBySlug returns the number of posts with the given slug.
func (q *Queries) CountPostsBySlug(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE slug = ?`, slug).Scan(&count)
	return count, err
}

// CountPosts returns the total number of posts.
func (q *Queries) CountPosts(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count)
	return count, err
}

// scanner abstracts *sql.Row and *sql.Rows scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (model.Post, error) {
	var p model.Post
	err := s.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Body,
		&p.CoverImage.URL, &p.CoverImage.Width, &p.CoverImage.Height, &p.CoverImage.Alt,
		&p.Published, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func scanPosts(rows *sql.Rows) ([]model.Post, error) {
	var posts []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
