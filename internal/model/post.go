// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strconv"
	"time"
)

// CoverImage holds the optional cover image data of a post.
type CoverImage struct {
	URL    string `json:"url"`
	Width  int64  `json:"width"`
	Height int64  `json:"height"`
	Alt    string `json:"alt"`
}

// Post represents a stored news post. It is the authoritative,
// repository-owned shape: ID, Slug and the timestamps are assigned once at
// creation time and never by a caller.
type Post struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Slug       string     `json:"slug"`
	Excerpt    string     `json:"excerpt"`
	Body       string     `json:"body"`
	CoverImage CoverImage `json:"cover_image"`
	Published  bool       `json:"published"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// IsPublished returns true if the post is visible on the public site.
func (p *Post) IsPublished() bool {
	return p.Published
}

// PublicPost is a display-safe projection of a post. All optional fields keep
// their raw string form so the projection can be built from an untyped form
// submission without ever failing, e.g. to echo partial input back after a
// validation error.
type PublicPost struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Slug             string `json:"slug"`
	Excerpt          string `json:"excerpt"`
	Body             string `json:"body"`
	CoverImageURL    string `json:"cover_image_url"`
	CoverImageWidth  int64  `json:"cover_image_width"`
	CoverImageHeight int64  `json:"cover_image_height"`
	CoverImageAlt    string `json:"cover_image_alt"`
	Published        bool   `json:"published"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

// NewPublicPost projects a stored post into its public shape.
func NewPublicPost(p *Post) *PublicPost {
	return &PublicPost{
		ID:               p.ID,
		Title:            p.Title,
		Slug:             p.Slug,
		Excerpt:          p.Excerpt,
		Body:             p.Body,
		CoverImageURL:    p.CoverImage.URL,
		CoverImageWidth:  p.CoverImage.Width,
		CoverImageHeight: p.CoverImage.Height,
		CoverImageAlt:    p.CoverImage.Alt,
		Published:        p.Published,
		CreatedAt:        p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// NewPartialPublicPost builds a projection from whatever raw form fields are
// present. Missing keys become zero values, malformed numbers and booleans are
// ignored. It never fails.
func NewPartialPublicPost(raw map[string]string) *PublicPost {
	p := &PublicPost{
		Title:         raw["title"],
		Excerpt:       raw["excerpt"],
		Body:          raw["body"],
		CoverImageURL: raw["cover_image_url"],
		CoverImageAlt: raw["cover_image_alt"],
	}

	if w, err := strconv.ParseInt(raw["cover_image_width"], 10, 64); err == nil {
		p.CoverImageWidth = w
	}
	if h, err := strconv.ParseInt(raw["cover_image_height"], 10, 64); err == nil {
		p.CoverImageHeight = h
	}
	if published, err := strconv.ParseBool(raw["published"]); err == nil {
		p.Published = published
	} else if raw["published"] == "on" {
		// HTML checkboxes submit "on"
		p.Published = true
	}

	return p
}
