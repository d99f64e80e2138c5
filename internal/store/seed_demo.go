// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/olegiv/onews-go/internal/model"
	"github.com/olegiv/onews-go/internal/util"
)

// DemoPostCount is the number of demo posts created by SeedDemo.
const DemoPostCount = 8

// SeedDemo fills an empty database with demo posts for showcasing oNews.
// It is a no-op when seeding is disabled or posts already exist.
func SeedDemo(ctx context.Context, db *sql.DB, enabled bool) error {
	if !enabled {
		return nil
	}

	queries := New(db)

	count, err := queries.CountPosts(ctx)
	if err != nil {
		return fmt.Errorf("counting posts: %w", err)
	}
	if count > 0 {
		slog.Info("posts already exist, skipping demo seed")
		return nil
	}

	slog.Info("seeding demo posts", "count", DemoPostCount)

	faker := gofakeit.New(0)
	now := time.Now().UTC()

	for i := 0; i < DemoPostCount; i++ {
		title := faker.Sentence(5)
		// Stagger creation times so list ordering is visible in demos
		createdAt := now.Add(-time.Duration(DemoPostCount-i) * 24 * time.Hour)

		_, err := queries.CreatePost(ctx, CreatePostParams{
			ID:      uuid.NewString(),
			Title:   title,
			Slug:    util.Slugify(title),
			Excerpt: faker.Sentence(12),
			Body:    faker.Paragraph(3, 4, 10, "\n\n"),
			CoverImage: model.CoverImage{
				URL:    fmt.Sprintf("/images/news_%02d.png", i+1),
				Width:  1200,
				Height: 720,
				Alt:    title,
			},
			// Leave a couple of drafts to exercise the public filter
			Published: i%4 != 0,
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		})
		if err != nil {
			return fmt.Errorf("creating demo post %d: %w", i, err)
		}
	}

	return nil
}
