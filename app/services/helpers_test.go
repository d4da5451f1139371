package services

import (
	"context"
	"errors"
	"testing"

	"blogstore/app/auth"
	"blogstore/app/media"
	"blogstore/app/repositories/mock"

	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	url   string
	err   error
	calls int
}

func (f *fakeUploader) Upload(ctx context.Context, asset *media.Asset, target media.Target) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type fixture struct {
	store    *mock.Store
	uploader *fakeUploader
	posts    *PostService
	comments *CommentService
	users    *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := mock.NewStore()
	tokens, err := auth.NewTokens("test-secret", 0)
	require.NoError(t, err)
	up := &fakeUploader{url: "https://cdn.example.com/public-cloud/cover.png"}
	return &fixture{
		store:    store,
		uploader: up,
		posts:    NewPostService(store.Posts, store.Comments, store.Users, up),
		comments: NewCommentService(store.Comments, store.Posts, store.Users),
		users:    NewUserService(store.Users, tokens, up, ""),
	}
}

func testAsset() *media.Asset {
	return &media.Asset{Filename: "c.png", Field: "cover", ContentType: "image/png", Data: []byte{1}}
}

func ptr[T any](v T) *T {
	return &v
}

func requireKind(t *testing.T, err error, kind error) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, kind), "expected %v, got %v", kind, err)
}
