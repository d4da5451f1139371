package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"blogstore/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	service := f.posts

	t.Run("create then get", func(t *testing.T) {
		post, err := service.Create(ctx, &models.CreatePostRequest{
			Title:    "T",
			Category: "C",
			Content:  "# Hello",
		})
		require.NoError(t, err)
		assert.Greater(t, post.ID, 0)
		assert.NotNil(t, post.Comments)
		assert.Empty(t, post.Comments)

		got, err := service.Get(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "T", got.Title)
		assert.Equal(t, "C", got.Category)
		assert.Equal(t, "# Hello", got.Content)
		assert.False(t, got.CreatedAt.IsZero())
		assert.False(t, got.UpdatedAt.IsZero())
		assert.Contains(t, got.ContentHTML, "Hello</h1>")
	})

	t.Run("get missing post", func(t *testing.T) {
		_, err := service.Get(ctx, 999)
		requireKind(t, err, ErrNotFound)
	})

	t.Run("create validation", func(t *testing.T) {
		tests := []struct {
			name string
			req  *models.CreatePostRequest
		}{
			{"missing title", &models.CreatePostRequest{Category: "C"}},
			{"missing category", &models.CreatePostRequest{Title: "T"}},
			{"bad read time", &models.CreatePostRequest{Title: "T", Category: "C", ReadTime: &models.ReadTime{Value: 5, Unit: "days"}}},
			{"bad cover", &models.CreatePostRequest{Title: "T", Category: "C", Cover: "nope"}},
			{"unknown author", &models.CreatePostRequest{Title: "T", Category: "C", Author: 42}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := service.Create(ctx, tt.req)
				requireKind(t, err, ErrValidation)
			})
		}
	})

	t.Run("author is resolved", func(t *testing.T) {
		user, err := f.users.Register(ctx, &models.RegisterRequest{
			FirstName: "Ana", LastName: "Smith", Email: "ana@x.com", Password: "secret123",
		})
		require.NoError(t, err)

		post, err := service.Create(ctx, &models.CreatePostRequest{Title: "By Ana", Category: "C", Author: user.ID})
		require.NoError(t, err)
		require.NotNil(t, post.Author)
		assert.Equal(t, "Ana", post.Author.FirstName)

		mine, err := service.ListByAuthor(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, post.ID, mine[0].ID)

		_, err = service.ListByAuthor(ctx, 999)
		requireKind(t, err, ErrNotFound)
	})

	t.Run("update applies only supplied fields", func(t *testing.T) {
		post, err := service.Create(ctx, &models.CreatePostRequest{Title: "Old", Category: "C", Content: "body"})
		require.NoError(t, err)

		updated, err := service.Update(ctx, post.ID, &models.UpdatePostRequest{Title: ptr("New")})
		require.NoError(t, err)
		assert.Equal(t, "New", updated.Title)
		assert.Equal(t, "C", updated.Category)
		assert.Equal(t, "body", updated.Content)
	})

	t.Run("update errors", func(t *testing.T) {
		_, err := service.Update(ctx, 999, &models.UpdatePostRequest{Title: ptr("x")})
		requireKind(t, err, ErrNotFound)

		post, err := service.Create(ctx, &models.CreatePostRequest{Title: "T", Category: "C"})
		require.NoError(t, err)

		_, err = service.Update(ctx, post.ID, &models.UpdatePostRequest{})
		requireKind(t, err, ErrValidation)

		_, err = service.Update(ctx, post.ID, &models.UpdatePostRequest{Title: ptr("")})
		requireKind(t, err, ErrValidation)

		_, err = service.Update(ctx, post.ID, &models.UpdatePostRequest{Author: ptr(77)})
		requireKind(t, err, ErrValidation)
	})

	t.Run("delete", func(t *testing.T) {
		post, err := service.Create(ctx, &models.CreatePostRequest{Title: "T", Category: "C"})
		require.NoError(t, err)

		require.NoError(t, service.Delete(ctx, post.ID))
		requireKind(t, service.Delete(ctx, post.ID), ErrNotFound)

		_, err = service.Get(ctx, post.ID)
		requireKind(t, err, ErrNotFound)
	})

	t.Run("delete cascades to comments", func(t *testing.T) {
		post, err := service.Create(ctx, &models.CreatePostRequest{Title: "T", Category: "C"})
		require.NoError(t, err)
		c, err := f.comments.Create(ctx, post.ID, &models.CreateCommentRequest{Comment: "nice", Rate: ptr(5.0)})
		require.NoError(t, err)

		require.NoError(t, service.Delete(ctx, post.ID))

		left, err := f.store.Comments.ListByPost(post.ID)
		require.NoError(t, err)
		assert.Empty(t, left)
		_, err = f.store.Comments.Get(post.ID, c.ID)
		assert.Error(t, err)
	})
}

func TestPostServiceList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	service := f.posts

	for i := 1; i <= 7; i++ {
		_, err := service.Create(ctx, &models.CreatePostRequest{Title: fmt.Sprintf("Post %d", i), Category: "C"})
		require.NoError(t, err)
	}
	first, err := service.List(ctx, DefaultPage, DefaultPageSize)
	require.NoError(t, err)
	_, err = f.comments.Create(ctx, first.Posts[0].ID, &models.CreateCommentRequest{Comment: "hi", Rate: ptr(4.0)})
	require.NoError(t, err)

	t.Run("first page", func(t *testing.T) {
		page, err := service.List(ctx, 1, 3)
		require.NoError(t, err)
		require.Len(t, page.Posts, 3)
		assert.Equal(t, 1, page.CurrentPage)
		assert.Equal(t, 7, page.TotalPosts)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, "Post 7", page.Posts[0].Title, "newest first")
		assert.Len(t, page.Posts[0].Comments, 1, "comments are resolved")
	})

	t.Run("last page", func(t *testing.T) {
		page, err := service.List(ctx, 3, 3)
		require.NoError(t, err)
		require.Len(t, page.Posts, 1)
		assert.Equal(t, "Post 1", page.Posts[0].Title)
	})

	t.Run("past the end", func(t *testing.T) {
		page, err := service.List(ctx, 9, 3)
		require.NoError(t, err)
		assert.Empty(t, page.Posts)
		assert.Equal(t, 3, page.TotalPages)
	})

	t.Run("bad window", func(t *testing.T) {
		for _, w := range [][2]int{{0, 3}, {1, 0}, {1, MaxPageSize + 1}, {-1, 3}} {
			_, err := service.List(ctx, w[0], w[1])
			requireKind(t, err, ErrValidation)
		}
	})
}

func TestPostServiceAttachCover(t *testing.T) {
	ctx := context.Background()

	t.Run("upload then persist", func(t *testing.T) {
		f := newFixture(t)
		post, err := f.posts.Create(ctx, &models.CreatePostRequest{Title: "T", Category: "C"})
		require.NoError(t, err)

		updated, err := f.posts.AttachCover(ctx, post.ID, testAsset(), "http://localhost")
		require.NoError(t, err)
		assert.Equal(t, f.uploader.url, updated.Cover)

		stored, err := f.posts.Get(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, f.uploader.url, stored.Cover)
	})

	t.Run("failed upload leaves cover unchanged", func(t *testing.T) {
		f := newFixture(t)
		post, err := f.posts.Create(ctx, &models.CreatePostRequest{Title: "T", Category: "C", Cover: "https://old.example.com/a.png"})
		require.NoError(t, err)
		before, err := f.store.Posts.GetByID(post.ID)
		require.NoError(t, err)

		f.uploader.err = errors.New("backend down")
		_, err = f.posts.AttachCover(ctx, post.ID, testAsset(), "")
		requireKind(t, err, ErrUpload)

		after, err := f.store.Posts.GetByID(post.ID)
		require.NoError(t, err)
		assert.Equal(t, "https://old.example.com/a.png", after.Cover)
		assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
	})

	t.Run("missing post is checked before uploading", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.posts.AttachCover(ctx, 999, testAsset(), "")
		requireKind(t, err, ErrNotFound)
		assert.Zero(t, f.uploader.calls)
	})

	t.Run("no asset", func(t *testing.T) {
		f := newFixture(t)
		post, err := f.posts.Create(ctx, &models.CreatePostRequest{Title: "T", Category: "C"})
		require.NoError(t, err)

		_, err = f.posts.AttachCover(ctx, post.ID, nil, "")
		requireKind(t, err, ErrUpload)
		assert.Equal(t, "no file uploaded", Message(err))
		assert.Zero(t, f.uploader.calls)
	})
}
