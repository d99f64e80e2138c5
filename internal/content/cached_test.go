package content

import (
	"context"
	"testing"
	"time"

	"github.com/olegiv/onews-go/internal/cache"
	"github.com/olegiv/onews-go/internal/model"
)

// countingRepo wraps a Repository and counts calls that reach it, so tests
// can tell a cache hit from a recompute.
type countingRepo struct {
	Repository
	findAllPublic    int
	findBySlugPublic int
}

func (c *countingRepo) FindAllPublic(ctx context.Context) ([]model.Post, error) {
	c.findAllPublic++
	return c.Repository.FindAllPublic(ctx)
}

func (c *countingRepo) FindBySlugPublic(ctx context.Context, slug string) (*model.Post, error) {
	c.findBySlugPublic++
	return c.Repository.FindBySlugPublic(ctx, slug)
}

func newCachedFixture(t *testing.T) (*CachedRepository, *countingRepo, *cache.Tags) {
	t.Helper()
	inner, err := NewMemoryRepository(MemoryRepositoryOptions{})
	if err != nil {
		t.Fatalf("NewMemoryRepository: %v", err)
	}
	counting := &countingRepo{Repository: inner}
	c := cache.NewSimpleMemoryCache(time.Hour)
	t.Cleanup(func() { _ = c.Close() })
	tags := cache.NewTags(c)
	return NewCachedRepository(counting, c, tags, time.Hour), counting, tags
}

func TestCachedRepository_ListServedFromCache(t *testing.T) {
	repo, counting, _ := newCachedFixture(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testPost("id-1", "one", true, time.Now().UTC())); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := 0; i < 3; i++ {
		posts, err := repo.FindAllPublic(ctx)
		if err != nil {
			t.Fatalf("FindAllPublic #%d: %v", i, err)
		}
		if len(posts) != 1 {
			t.Fatalf("FindAllPublic #%d: len = %d, want 1", i, len(posts))
		}
	}
	if counting.findAllPublic != 1 {
		t.Errorf("backend FindAllPublic calls = %d, want 1", counting.findAllPublic)
	}
}

func TestCachedRepository_InvalidateForcesRecompute(t *testing.T) {
	repo, counting, tags := newCachedFixture(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	if err := repo.Create(ctx, testPost("id-1", "one", true, base)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.FindAllPublic(ctx); err != nil {
		t.Fatalf("FindAllPublic: %v", err)
	}

	// A write that bypasses invalidation stays invisible behind the cache
	if err := repo.Create(ctx, testPost("id-2", "two", true, base.Add(time.Minute))); err != nil {
		t.Fatalf("Create: %v", err)
	}
	posts, err := repo.FindAllPublic(ctx)
	if err != nil {
		t.Fatalf("FindAllPublic: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("before invalidation: len = %d, want cached 1", len(posts))
	}

	if err := tags.Invalidate(ctx, TagPosts); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	posts, err = repo.FindAllPublic(ctx)
	if err != nil {
		t.Fatalf("FindAllPublic: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("after invalidation: len = %d, want 2", len(posts))
	}
	if counting.findAllPublic != 2 {
		t.Errorf("backend FindAllPublic calls = %d, want 2", counting.findAllPublic)
	}
}

func TestCachedRepository_SlugServedFromCache(t *testing.T) {
	repo, counting, tags := newCachedFixture(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testPost("id-1", "cached-slug", true, time.Now().UTC())); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := 0; i < 2; i++ {
		post, err := repo.FindBySlugPublic(ctx, "cached-slug")
		if err != nil {
			t.Fatalf("FindBySlugPublic #%d: %v", i, err)
		}
		if post.ID != "id-1" {
			t.Fatalf("FindBySlugPublic #%d: ID = %q", i, post.ID)
		}
	}
	if counting.findBySlugPublic != 1 {
		t.Errorf("backend FindBySlugPublic calls = %d, want 1", counting.findBySlugPublic)
	}

	if err := tags.Invalidate(ctx, TagPosts); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, err := repo.FindBySlugPublic(ctx, "cached-slug"); err != nil {
		t.Fatalf("FindBySlugPublic after invalidation: %v", err)
	}
	if counting.findBySlugPublic != 2 {
		t.Errorf("backend FindBySlugPublic calls = %d, want 2", counting.findBySlugPublic)
	}
}

func TestCachedRepository_NotFoundNotCached(t *testing.T) {
	repo, counting, _ := newCachedFixture(t)
	ctx := context.Background()

	if _, err := repo.FindBySlugPublic(ctx, "missing"); err != ErrPostNotFound {
		t.Fatalf("FindBySlugPublic: err = %v, want ErrPostNotFound", err)
	}
	if _, err := repo.FindBySlugPublic(ctx, "missing"); err != ErrPostNotFound {
		t.Fatalf("FindBySlugPublic: err = %v, want ErrPostNotFound", err)
	}
	// Misses always reach the backend
	if counting.findBySlugPublic != 2 {
		t.Errorf("backend FindBySlugPublic calls = %d, want 2", counting.findBySlugPublic)
	}
}

func TestCachedRepository_AdminReadsBypassCache(t *testing.T) {
	repo, _, _ := newCachedFixture(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	if err := repo.Create(ctx, testPost("id-1", "one", true, base)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.FindAll(ctx); err != nil {
		t.Fatalf("FindAll: %v", err)
	}

	if err := repo.Create(ctx, testPost("id-2", "two", false, base.Add(time.Minute))); err != nil {
		t.Fatalf("Create: %v", err)
	}
	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("FindAll after write: len = %d, want 2 (no stale cache)", len(all))
	}

	got, err := repo.FindByID(ctx, "id-2")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Slug != "two" {
		t.Errorf("Slug = %q, want %q", got.Slug, "two")
	}
}
