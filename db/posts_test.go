package db_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"blogg/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *db.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "blog.db")
	require.NoError(t, db.Migrate(path))

	posts, err := db.NewDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { posts.Close() })

	return posts
}

func TestCreateAndListPosts(t *testing.T) {
	posts := testDB(t)
	ctx := context.Background()

	empty, err := posts.ListPosts(ctx)
	assert.NoError(t, err)
	assert.Empty(t, empty)

	before := time.Now().UTC().Add(-time.Second)
	created, err := posts.CreatePost(ctx, "Ada", "First post")
	require.NoError(t, err)
	after := time.Now().UTC().Add(time.Second)

	assert.Equal(t, "Ada", created.Author)
	assert.Equal(t, "First post", created.Content)
	assert.True(t, created.CreatedAt.After(before) && created.CreatedAt.Before(after),
		"created_at should fall within the call window")

	listed, err := posts.ListPosts(ctx)
	assert.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.Id, listed[0].Id)
	assert.Equal(t, "Ada", listed[0].Author)
	assert.Equal(t, "First post", listed[0].Content)
}

func TestListPostsNewestFirst(t *testing.T) {
	posts := testDB(t)
	ctx := context.Background()

	first, err := posts.CreatePost(ctx, "Ada", "one")
	require.NoError(t, err)
	second, err := posts.CreatePost(ctx, "Grace", "two")
	require.NoError(t, err)
	third, err := posts.CreatePost(ctx, "Joan", "three")
	require.NoError(t, err)

	listed, err := posts.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)

	// Ordered by id strictly descending
	assert.Equal(t, []int64{third.Id, second.Id, first.Id},
		[]int64{listed[0].Id, listed[1].Id, listed[2].Id})
	assert.Greater(t, listed[0].Id, listed[1].Id)
	assert.Greater(t, listed[1].Id, listed[2].Id)
}

func TestGetPost(t *testing.T) {
	posts := testDB(t)
	ctx := context.Background()

	created, err := posts.CreatePost(ctx, "Ada", "hello")
	require.NoError(t, err)

	got, err := posts.GetPost(ctx, created.Id)
	assert.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = posts.GetPost(ctx, 999)
	assert.ErrorIs(t, err, db.ErrPostNotFound)
}

func TestUpdatePost(t *testing.T) {
	posts := testDB(t)
	ctx := context.Background()

	created, err := posts.CreatePost(ctx, "Ada", "draft")
	require.NoError(t, err)

	updated, err := posts.UpdatePost(ctx, created.Id, "Ada Lovelace", "final")
	require.NoError(t, err)
	assert.Equal(t, created.Id, updated.Id)
	assert.Equal(t, "Ada Lovelace", updated.Author)
	assert.Equal(t, "final", updated.Content)

	// Edits never touch the creation time
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	_, err = posts.UpdatePost(ctx, 999, "nobody", "nothing")
	assert.ErrorIs(t, err, db.ErrPostNotFound)
}

func TestDeletePost(t *testing.T) {
	posts := testDB(t)
	ctx := context.Background()

	created, err := posts.CreatePost(ctx, "Ada", "gone soon")
	require.NoError(t, err)

	require.NoError(t, posts.DeletePost(ctx, created.Id))

	_, err = posts.GetPost(ctx, created.Id)
	assert.ErrorIs(t, err, db.ErrPostNotFound)

	listed, err := posts.ListPosts(ctx)
	assert.NoError(t, err)
	assert.Empty(t, listed)

	assert.ErrorIs(t, posts.DeletePost(ctx, created.Id), db.ErrPostNotFound)
}
