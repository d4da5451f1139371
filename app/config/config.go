// Package config loads process configuration once at startup. Values
// come from an optional .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"blogstore/app/media"
	"blogstore/app/models"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// Config holds every setting the server needs.
type Config struct {
	Addr          string `validate:"required"`
	DataDir       string `validate:"required"`
	PublicDir     string `validate:"required"`
	PublicBaseURL string `validate:"omitempty,url"`
	MediaBackend  string `validate:"oneof=local s3"`

	JWTSecret string
	JWTTTL    time.Duration `validate:"gt=0"`

	S3Bucket        string `validate:"required_if=MediaBackend s3"`
	S3Region        string
	S3Endpoint      string `validate:"omitempty,url"`
	S3PublicBaseURL string `validate:"omitempty,url"`
	S3CoverFolder   string `validate:"required"`
	S3AvatarFolder  string `validate:"required"`

	UploadTimeout  time.Duration `validate:"gt=0"`
	MaxUploadBytes int64         `validate:"gt=0"`
	DefaultAvatar  string        `validate:"required,url"`
	LogLevel       string        `validate:"oneof=debug info warn warning error"`
}

// Load reads the given .env files, or ./.env when none are named, and
// then the environment. Missing files are ignored.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds and validates a Config using getenv for lookups.
func FromEnv(getenv func(string) string) (*Config, error) {
	e := env{getenv: getenv}
	cfg := &Config{
		Addr:            e.str("BLOG_ADDR", ":5050"),
		DataDir:         e.str("BLOG_DATA_DIR", "data/badger"),
		PublicDir:       e.str("BLOG_PUBLIC_DIR", "public"),
		PublicBaseURL:   e.str("BLOG_PUBLIC_BASE_URL", ""),
		MediaBackend:    e.str("BLOG_MEDIA_BACKEND", BackendLocal),
		JWTSecret:       e.str("JWT_SECRET", ""),
		JWTTTL:          e.duration("JWT_TTL", 72*time.Hour),
		S3Bucket:        e.str("S3_BUCKET", ""),
		S3Region:        e.str("S3_REGION", ""),
		S3Endpoint:      e.str("S3_ENDPOINT", ""),
		S3PublicBaseURL: e.str("S3_PUBLIC_BASE_URL", ""),
		S3CoverFolder:   e.str("S3_COVER_FOLDER", "public-cloud"),
		S3AvatarFolder:  e.str("S3_AVATAR_FOLDER", "user-profile"),
		UploadTimeout:   e.duration("UPLOAD_TIMEOUT", 30*time.Second),
		MaxUploadBytes:  e.int64("MAX_UPLOAD_BYTES", media.DefaultMaxBytes),
		DefaultAvatar:   e.str("DEFAULT_AVATAR", models.DefaultAvatar),
		LogLevel:        e.str("LOG_LEVEL", "info"),
	}
	if len(e.errs) > 0 {
		return nil, errors.Join(e.errs...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid config: %s failed %q", verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// CloudEnabled reports whether an S3 bucket is configured.
func (c *Config) CloudEnabled() bool {
	return c.S3Bucket != ""
}

// S3 returns the settings for the cloud uploader.
func (c *Config) S3() media.S3Config {
	return media.S3Config{
		Bucket:        c.S3Bucket,
		Region:        c.S3Region,
		Endpoint:      c.S3Endpoint,
		PublicBaseURL: c.S3PublicBaseURL,
		CoverFolder:   c.S3CoverFolder,
		AvatarFolder:  c.S3AvatarFolder,
	}
}

type env struct {
	getenv func(string) string
	errs   []error
}

func (e *env) str(key, def string) string {
	if v := e.getenv(key); v != "" {
		return v
	}
	return def
}

func (e *env) duration(key string, def time.Duration) time.Duration {
	v := e.getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
	}
	return d
}

func (e *env) int64(key string, def int64) int64 {
	v := e.getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
	}
	return n
}
