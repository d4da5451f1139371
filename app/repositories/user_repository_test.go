package repositories

import (
	"bytes"
	"testing"

	"blogstore/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	store := newTestStore(t)
	repo := store.Users

	user := &models.User{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "  Ada@Example.com ",
		Password:  "hash",
	}
	require.NoError(t, repo.Create(user))

	t.Run("defaults", func(t *testing.T) {
		assert.Greater(t, user.ID, 0)
		assert.Equal(t, "ada@example.com", user.Email)
		assert.Equal(t, models.RoleAuthor, user.Role)
		assert.Equal(t, models.DefaultAvatar, user.Avatar)
	})

	t.Run("password hash is persisted", func(t *testing.T) {
		stored, err := repo.GetByID(user.ID)
		require.NoError(t, err)
		assert.Equal(t, "hash", stored.Password)
	})

	t.Run("get by email ignores case", func(t *testing.T) {
		found, err := repo.GetByEmail("ADA@example.COM")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)

		_, err = repo.GetByEmail("nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := repo.Create(&models.User{FirstName: "A", LastName: "B", Email: "ada@example.com", Password: "x"})
		assert.ErrorIs(t, err, ErrDuplicateEmail)
	})

	t.Run("list", func(t *testing.T) {
		require.NoError(t, repo.Create(&models.User{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", Password: "x"}))
		users, err := repo.List()
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "Ada", users[0].FirstName)
	})

	t.Run("patch moves the email index", func(t *testing.T) {
		_, err := repo.Patch(user.ID, func(u *models.User) error {
			u.Email = "countess@example.com"
			return nil
		})
		require.NoError(t, err)

		_, err = repo.GetByEmail("ada@example.com")
		assert.ErrorIs(t, err, ErrNotFound)

		found, err := repo.GetByEmail("countess@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, "hash", found.Password)
	})

	t.Run("patch onto a taken email", func(t *testing.T) {
		_, err := repo.Patch(user.ID, func(u *models.User) error {
			u.Email = "grace@example.com"
			return nil
		})
		assert.ErrorIs(t, err, ErrDuplicateEmail)

		stored, err := repo.GetByID(user.ID)
		require.NoError(t, err)
		assert.Equal(t, "countess@example.com", stored.Email)
	})

	t.Run("patch missing user", func(t *testing.T) {
		_, err := repo.Patch(9999, func(u *models.User) error { return nil })
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStoreClearAndBackup(t *testing.T) {
	store := newTestStore(t)
	post := &models.Post{Title: "Backed up", Category: "Go"}
	require.NoError(t, store.Posts.Create(post))

	var buf bytes.Buffer
	require.NoError(t, store.Backup(&buf))

	require.NoError(t, store.Clear())
	_, err := store.Posts.GetByID(post.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Restore(&buf))
	restored, err := store.Posts.GetByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Backed up", restored.Title)
}
