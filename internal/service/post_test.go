package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/onews-go/internal/cache"
	"github.com/olegiv/onews-go/internal/content"
	"github.com/olegiv/onews-go/internal/model"
	"github.com/olegiv/onews-go/internal/testutil"
)

// failingRepo reports a fixed error from Create and is never read.
type failingRepo struct {
	content.Repository
	err error
}

func (f *failingRepo) Create(ctx context.Context, post *model.Post) error {
	return f.err
}

func validSubmission() map[string]string {
	return map[string]string{
		"title":              "Breaking: Service Tests Pass",
		"excerpt":            "A short excerpt.",
		"body":               "The complete body text.",
		"cover_image_url":    "/images/news_02.png",
		"cover_image_width":  "1200",
		"cover_image_height": "720",
		"cover_image_alt":    "cover",
		"published":          "true",
	}
}

func newFixture(t *testing.T) (*PostService, content.Repository, *cache.Tags, cache.Cacher) {
	t.Helper()
	repo, err := content.NewMemoryRepository(content.MemoryRepositoryOptions{})
	require.NoError(t, err)
	c := cache.NewSimpleMemoryCache(time.Hour)
	t.Cleanup(func() { _ = c.Close() })
	tags := cache.NewTags(c)
	return NewPostService(repo, tags, testutil.TestLogger()), repo, tags, c
}

func TestCreate_Success(t *testing.T) {
	svc, repo, _, _ := newFixture(t)

	res := svc.Create(context.Background(), validSubmission())
	require.Empty(t, res.Errors)
	require.NotNil(t, res.Post)

	assert.NotEmpty(t, res.Post.ID)
	assert.Equal(t, "breaking-service-tests-pass", res.Post.Slug)
	assert.True(t, res.Post.Published)
	assert.False(t, res.Post.CreatedAt.IsZero())
	assert.Equal(t, res.Post.CreatedAt, res.Post.UpdatedAt)
	assert.Equal(t, "/admin/posts/"+res.Post.ID+"?created=1", res.RedirectTo)

	stored, err := repo.FindByID(context.Background(), res.Post.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Post.Slug, stored.Slug)
}

func TestCreate_SuccessRotatesPostsTag(t *testing.T) {
	svc, _, tags, _ := newFixture(t)
	ctx := context.Background()

	before, err := tags.Token(ctx, content.TagPosts)
	require.NoError(t, err)

	res := svc.Create(ctx, validSubmission())
	require.Empty(t, res.Errors)

	after, err := tags.Token(ctx, content.TagPosts)
	require.NoError(t, err)
	assert.NotEqual(t, before, after, "posts tag token should rotate on create")
}

func TestCreate_ValidationFailure(t *testing.T) {
	svc, _, tags, _ := newFixture(t)
	ctx := context.Background()

	before, err := tags.Token(ctx, content.TagPosts)
	require.NoError(t, err)

	raw := validSubmission()
	delete(raw, "title")
	raw["excerpt"] = "kept value"

	res := svc.Create(ctx, raw)
	require.Nil(t, res.Post)
	require.Empty(t, res.RedirectTo)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "title")

	// Submitted fields are echoed back for redisplay
	require.NotNil(t, res.FormState)
	assert.Equal(t, "kept value", res.FormState.Excerpt)

	after, err := tags.Token(ctx, content.TagPosts)
	require.NoError(t, err)
	assert.Equal(t, before, after, "invalid input must not rotate the tag")
}

func TestCreate_DuplicateSlug(t *testing.T) {
	svc, _, tags, _ := newFixture(t)
	ctx := context.Background()

	res := svc.Create(ctx, validSubmission())
	require.Empty(t, res.Errors)

	before, err := tags.Token(ctx, content.TagPosts)
	require.NoError(t, err)

	res = svc.Create(ctx, validSubmission())
	require.Nil(t, res.Post)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "already exists")
	require.NotNil(t, res.FormState)
	assert.Equal(t, "Breaking: Service Tests Pass", res.FormState.Title)

	after, err := tags.Token(ctx, content.TagPosts)
	require.NoError(t, err)
	assert.Equal(t, before, after, "failed persist must not rotate the tag")
}

func TestCreate_StoreUnavailable(t *testing.T) {
	repo := &failingRepo{err: content.ErrStoreUnavailable}
	c := cache.NewSimpleMemoryCache(time.Hour)
	t.Cleanup(func() { _ = c.Close() })
	svc := NewPostService(repo, cache.NewTags(c), testutil.TestLogger())

	res := svc.Create(context.Background(), validSubmission())
	require.Nil(t, res.Post)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "try again later")
}

func TestBodyHTML(t *testing.T) {
	out, err := BodyHTML("# Heading\n\nSome *emphasis* here.")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<em>emphasis</em>")

	out, err = BodyHTML(`before <script>alert("x")</script> after`)
	require.NoError(t, err)
	assert.False(t, strings.Contains(out, "<script>"), "script must be stripped: %q", out)
}
