// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/olegiv/onews-go/internal/store"
	"github.com/olegiv/onews-go/internal/testutil"
)

func newTestLogger(t *testing.T) (*slog.Logger, *store.Queries) {
	t.Helper()
	db := testutil.TestDB(t)
	inner := slog.NewTextHandler(io.Discard, nil)
	return slog.New(NewEventLogHandler(inner, db)), store.New(db)
}

func recentEvents(t *testing.T, queries *store.Queries) []store.Event {
	t.Helper()
	events, err := queries.ListRecentEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	return events
}

func TestEventLogHandler_WarnPersisted(t *testing.T) {
	logger, queries := newTestLogger(t)

	logger.Warn("cache invalidation failed after create", "post_id", "abc-123")

	events := recentEvents(t, queries)
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	e := events[0]
	if e.Level != store.EventLevelWarning {
		t.Errorf("Level = %q, want %q", e.Level, store.EventLevelWarning)
	}
	if e.Category != store.EventCategoryCache {
		t.Errorf("Category = %q, want %q", e.Category, store.EventCategoryCache)
	}
	if !strings.Contains(e.Metadata, `"post_id":"abc-123"`) {
		t.Errorf("Metadata = %q", e.Metadata)
	}
}

func TestEventLogHandler_InfoNotPersisted(t *testing.T) {
	logger, queries := newTestLogger(t)

	logger.Info("server started", "addr", ":8080")

	if events := recentEvents(t, queries); len(events) != 0 {
		t.Fatalf("len(events) = %d, want 0", len(events))
	}
}

func TestEventLogHandler_ExplicitCategory(t *testing.T) {
	logger, queries := newTestLogger(t)

	logger.Error("disk full", "category", store.EventCategoryStore)

	events := recentEvents(t, queries)
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].Level != store.EventLevelError {
		t.Errorf("Level = %q", events[0].Level)
	}
	if events[0].Category != store.EventCategoryStore {
		t.Errorf("Category = %q, want %q", events[0].Category, store.EventCategoryStore)
	}
}

func TestEventLogHandler_CategoryInference(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"post create rejected", store.EventCategoryContent},
		{"cache backend unreachable", store.EventCategoryCache},
		{"database migration pending", store.EventCategoryStore},
		{"unexpected shutdown", store.EventCategorySystem},
	}
	for _, tt := range tests {
		logger, queries := newTestLogger(t)
		logger.Warn(tt.msg)
		events := recentEvents(t, queries)
		if len(events) != 1 {
			t.Fatalf("%q: len(events) = %d", tt.msg, len(events))
		}
		if events[0].Category != tt.want {
			t.Errorf("%q: Category = %q, want %q", tt.msg, events[0].Category, tt.want)
		}
	}
}
