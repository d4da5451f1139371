package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"blogstore/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, ":5050", cfg.Addr)
	assert.Equal(t, "data/badger", cfg.DataDir)
	assert.Equal(t, "public", cfg.PublicDir)
	assert.Equal(t, BackendLocal, cfg.MediaBackend)
	assert.Equal(t, 72*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 30*time.Second, cfg.UploadTimeout)
	assert.Equal(t, int64(10485760), cfg.MaxUploadBytes)
	assert.Equal(t, models.DefaultAvatar, cfg.DefaultAvatar)
	assert.Equal(t, "public-cloud", cfg.S3().CoverFolder)
	assert.Equal(t, "user-profile", cfg.S3().AvatarFolder)
	assert.False(t, cfg.CloudEnabled())
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"BLOG_ADDR":          ":8080",
		"BLOG_MEDIA_BACKEND": "s3",
		"S3_BUCKET":          "blog",
		"S3_ENDPOINT":        "http://minio:9000",
		"JWT_TTL":            "1h",
		"MAX_UPLOAD_BYTES":   "1024",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
	assert.True(t, cfg.CloudEnabled())
	assert.Equal(t, "http://minio:9000", cfg.S3().Endpoint)
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad duration", env: map[string]string{"JWT_TTL": "soon"}},
		{name: "bad size", env: map[string]string{"MAX_UPLOAD_BYTES": "ten"}},
		{name: "unknown backend", env: map[string]string{"BLOG_MEDIA_BACKEND": "ftp"}},
		{name: "s3 without bucket", env: map[string]string{"BLOG_MEDIA_BACKEND": "s3"}},
		{name: "bad base url", env: map[string]string{"BLOG_PUBLIC_BASE_URL": "not a url"}},
		{name: "bad log level", env: map[string]string{"LOG_LEVEL": "loud"}},
		{name: "zero timeout", env: map[string]string{"UPLOAD_TIMEOUT": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(envMap(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BLOG_ADDR=:6060\n"), 0o600))
	t.Setenv("BLOG_ADDR", "")
	os.Unsetenv("BLOG_ADDR")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":6060", cfg.Addr)
	os.Unsetenv("BLOG_ADDR")

	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
