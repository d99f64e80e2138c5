// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides business logic services.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/olegiv/onews-go/internal/cache"
	"github.com/olegiv/onews-go/internal/content"
	"github.com/olegiv/onews-go/internal/form"
	"github.com/olegiv/onews-go/internal/model"
	"github.com/olegiv/onews-go/internal/util"
)

// PostService orchestrates post creation: validation, entity construction,
// persistence and cache invalidation.
type PostService struct {
	repo   content.Repository
	tags   *cache.Tags
	logger *slog.Logger
}

// CreateResult is the outcome of one creation attempt. Exactly one of
// RedirectTo or Errors is set. FormState echoes the submitted fields so a
// caller can redisplay the form without data loss.
type CreateResult struct {
	Post       *model.Post
	FormState  *model.PublicPost
	Errors     []string
	RedirectTo string
}

// NewPostService creates a new post service.
func NewPostService(repo content.Repository, tags *cache.Tags, logger *slog.Logger) *PostService {
	return &PostService{repo: repo, tags: tags, logger: logger}
}

// Create runs the post-creation pipeline over a raw form submission.
// Validation failures and store failures both come back as Errors plus an
// echo of the input; only a durably persisted post triggers invalidation of
// the posts tag and a redirect target.
func (s *PostService) Create(ctx context.Context, raw map[string]string) CreateResult {
	validated, fieldErrs := form.ParseCreate(raw)
	if len(fieldErrs) > 0 {
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, fe.Message)
		}
		return CreateResult{
			FormState: model.NewPartialPublicPost(raw),
			Errors:    msgs,
		}
	}

	now := time.Now().UTC()
	post := &model.Post{
		ID:      uuid.NewString(),
		Title:   validated.Title,
		Slug:    util.Slugify(validated.Title),
		Excerpt: validated.Excerpt,
		Body:    validated.Body,
		CoverImage: model.CoverImage{
			URL:    validated.CoverImageURL,
			Width:  validated.CoverImageWidth,
			Height: validated.CoverImageHeight,
			Alt:    validated.CoverImageAlt,
		},
		Published: validated.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return CreateResult{
			FormState: model.NewPublicPost(post),
			Errors:    []string{createErrorMessage(err)},
		}
	}

	// Invalidate before handing back the redirect so a reader that follows
	// it immediately sees the new post.
	if err := s.tags.Invalidate(ctx, content.TagPosts); err != nil {
		s.logger.Warn("cache invalidation failed after create",
			"post_id", post.ID, "error", err)
	}

	return CreateResult{
		Post:       post,
		RedirectTo: fmt.Sprintf("/admin/posts/%s?created=1", post.ID),
	}
}

func createErrorMessage(err error) string {
	switch {
	case errors.Is(err, content.ErrDuplicateSlug):
		return "a post with this title already exists"
	case errors.Is(err, content.ErrStoreUnavailable):
		return "the post could not be saved, try again later"
	default:
		return err.Error()
	}
}

var markdown = goldmark.New(
	goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
)

var bodyPolicy = bluemonday.UGCPolicy()

// BodyHTML renders a post body from Markdown to sanitized HTML.
func BodyHTML(body string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("render body: %w", err)
	}
	return bodyPolicy.Sanitize(buf.String()), nil
}
