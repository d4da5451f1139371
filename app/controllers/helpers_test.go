package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"blogstore/app/auth"
	"blogstore/app/media"
	"blogstore/app/repositories/mock"
	"blogstore/app/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

type stubUploader struct {
	url string
	err error
}

func (s *stubUploader) Upload(ctx context.Context, asset *media.Asset, target media.Target) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.url + "/" + string(target.Kind) + asset.Extension(), nil
}

type testEnv struct {
	store  *mock.Store
	router *mux.Router
	cloud  *stubUploader
	tokens *auth.Tokens
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := mock.NewStore()
	tokens, err := auth.NewTokens("test-secret", 0)
	require.NoError(t, err)

	local := &stubUploader{url: "http://example.com/public"}
	cloud := &stubUploader{url: "https://cdn.example.com"}

	postService := services.NewPostService(store.Posts, store.Comments, store.Users, cloud)
	commentService := services.NewCommentService(store.Comments, store.Posts, store.Users)
	userService := services.NewUserService(store.Users, tokens, cloud, "")

	pc := NewPostController(postService, local, cloud, 1024)
	cc := NewCommentController(commentService)
	uc := NewUserController(userService, postService, cloud, 1024)

	router := mux.NewRouter()
	router.HandleFunc("/posts", pc.Index).Methods("GET")
	router.HandleFunc("/posts/create", pc.Create).Methods("POST")
	router.HandleFunc("/posts/upload", pc.UploadLocal).Methods("POST")
	router.HandleFunc("/posts/cloudUpload", pc.UploadCloud).Methods("POST")
	router.HandleFunc("/posts/update/{id:[0-9]+}", pc.Update).Methods("PATCH")
	router.HandleFunc("/posts/delete/{id:[0-9]+}", pc.Delete).Methods("DELETE")
	router.HandleFunc("/posts/{id:[0-9]+}", pc.Show).Methods("GET")
	router.HandleFunc("/posts/{id:[0-9]+}/uploadCover", pc.UploadCover).Methods("POST")
	router.HandleFunc("/posts/{id:[0-9]+}/comments", cc.Index).Methods("GET")
	router.HandleFunc("/posts/{id:[0-9]+}/comments/create", cc.Create).Methods("POST")
	router.HandleFunc("/posts/{id:[0-9]+}/comments/{commentId:[0-9]+}", cc.Show).Methods("GET")
	router.HandleFunc("/posts/{id:[0-9]+}/comments/update/{commentId:[0-9]+}", cc.Update).Methods("PATCH")
	router.HandleFunc("/posts/{id:[0-9]+}/delete/{commentId:[0-9]+}", cc.Delete).Methods("DELETE")
	router.HandleFunc("/register", uc.Register).Methods("POST")
	router.HandleFunc("/login", uc.Login).Methods("POST")
	router.HandleFunc("/users", uc.Index).Methods("GET")
	router.HandleFunc("/users/{id:[0-9]+}", uc.Show).Methods("GET")
	router.HandleFunc("/users/{id:[0-9]+}/update", uc.Update).Methods("PATCH")
	router.HandleFunc("/users/{id:[0-9]+}/posts", uc.Posts).Methods("GET")
	router.HandleFunc("/user/avatarUpload", uc.AvatarUpload).Methods("POST")
	router.HandleFunc("/user/{id:[0-9]+}/editAvatar", uc.EditAvatar).Methods("POST")
	router.HandleFunc("/me", uc.Me).Methods("GET")

	return &testEnv{store: store, router: router, cloud: cloud, tokens: tokens}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) upload(t *testing.T, path, field, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type response struct {
	StatusCode  int             `json:"statusCode"`
	Message     string          `json:"message"`
	Payload     json.RawMessage `json:"payload"`
	CurrentPage int             `json:"currentPage"`
	TotalPages  int             `json:"totalPages"`
	TotalPosts  int             `json:"totalPosts"`
	Posts       []struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
	} `json:"posts"`
	Comments []struct {
		ID      int `json:"id"`
		RefPost int `json:"refPost"`
	} `json:"comments"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response {
	t.Helper()
	var res response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	return res
}

func payload[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(decode(t, w).Payload, &v))
	return v
}
