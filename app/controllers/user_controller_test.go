package controllers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"blogstore/app/auth"
	"blogstore/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const anaBody = `{"firstName":"Ana","lastName":"Smith","email":"ana@x.com","password":"secret123"}`

func TestUserController(t *testing.T) {
	env := setupTestEnv(t)

	var ana models.User
	t.Run("register", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/register", anaBody)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		ana = payload[models.User](t, w)
		assert.NotZero(t, ana.ID)
		assert.NotContains(t, w.Body.String(), "secret123")
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("register duplicate", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/register", anaBody)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "email already registered", decode(t, w).Message)
	})

	t.Run("login", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/login", `{"email":"ana@x.com","password":"secret123"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		token := w.Header().Get("Authorization")
		require.NotEmpty(t, token)

		claims, err := env.tokens.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, ana.ID, claims.UserID)

		w = env.do(t, http.MethodPost, "/login", `{"email":"nobody@x.com","password":"secret123"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = env.do(t, http.MethodPost, "/login", `{"email":"ana@x.com","password":"nope-nope"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list and show", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/users", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"users"`)

		w = env.do(t, http.MethodGet, fmt.Sprintf("/users/%d", ana.ID), "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Ana", payload[models.User](t, w).FirstName)

		w = env.do(t, http.MethodGet, "/users/999", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("update", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, fmt.Sprintf("/users/%d/update", ana.ID), `{"lastName":"Jones"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "Jones", payload[models.User](t, w).LastName)

		w = env.do(t, http.MethodPatch, fmt.Sprintf("/users/%d/update", ana.ID), `{"role":"root"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("posts by author", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/posts/create", fmt.Sprintf(`{"title":"Mine","category":"C","author":%d}`, ana.ID))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = env.do(t, http.MethodGet, fmt.Sprintf("/users/%d/posts", ana.ID), "")
		require.Equal(t, http.StatusOK, w.Code)
		res := decode(t, w)
		require.Len(t, res.Posts, 1)
		assert.Equal(t, "Mine", res.Posts[0].Title)

		w = env.do(t, http.MethodGet, "/users/999/posts", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("avatars", func(t *testing.T) {
		w := env.upload(t, "/user/avatarUpload", "avatar", "me.png", pngBytes)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{"avatar":"https://cdn.example.com/avatar.png"}`, w.Body.String())

		w = env.upload(t, fmt.Sprintf("/user/%d/editAvatar", ana.ID), "avatar", "me.png", pngBytes)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "https://cdn.example.com/avatar.png", payload[models.User](t, w).Avatar)

		w = env.upload(t, fmt.Sprintf("/user/%d/editAvatar", ana.ID), "", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = env.upload(t, "/user/999/editAvatar", "avatar", "me.png", pngBytes)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("me", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req = req.WithContext(auth.WithClaims(context.Background(), &auth.Claims{UserID: ana.ID}))
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, ana.ID, payload[models.User](t, rec).ID)
	})
}
