// Package media stores uploaded images and reports the URL they are
// served from. Callers persist that URL only after Upload succeeds.
package media

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// DefaultMaxBytes bounds a single uploaded asset.
const DefaultMaxBytes = 10 << 20

var (
	// ErrUpload is returned when a backend fails or yields no usable URL.
	ErrUpload = errors.New("upload failed")
	// ErrNoAsset is returned when a request carries no file.
	ErrNoAsset = errors.New("no file uploaded")
	// ErrInvalidAsset is returned for files that are not acceptable images.
	ErrInvalidAsset = errors.New("invalid asset")
)

// Kind says what an asset is attached to.
type Kind string

const (
	KindCover  Kind = "cover"
	KindAvatar Kind = "avatar"
)

// Target identifies where an asset is going. Origin is the scheme and
// host of the inbound request and is used when no base URL is configured.
type Target struct {
	Kind   Kind
	Origin string
}

// Asset is an uploaded file held in memory.
type Asset struct {
	Filename    string
	Field       string
	ContentType string
	Data        []byte
}

// Uploader stores an asset and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, asset *Asset, target Target) (string, error)
}

// imageTypes are the accepted content types with the filename extensions
// a file of that type may carry. The first extension is used for files
// uploaded without one. SVG is not accepted since it can carry script.
var imageTypes = []struct {
	mime string
	exts []string
}{
	{"image/png", []string{".png"}},
	{"image/jpeg", []string{".jpg", ".jpeg", ".jpe", ".jfif"}},
	{"image/gif", []string{".gif"}},
	{"image/webp", []string{".webp"}},
	{"image/avif", []string{".avif"}},
	{"image/bmp", []string{".bmp"}},
	{"image/tiff", []string{".tif", ".tiff"}},
	{"image/x-icon", []string{".ico"}},
}

// NewAsset checks size and sniffs the content type of data. Only the
// image types above are accepted, and a filename extension must agree
// with the sniffed type.
func NewAsset(field, filename string, data []byte, maxBytes int64) (*Asset, error) {
	if len(data) == 0 {
		return nil, ErrNoAsset
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidAsset, maxBytes)
	}

	mt := mimetype.Detect(data)
	exts, ok := extensionsFor(mt)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an accepted image type", ErrInvalidAsset, mt.String())
	}
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" && !slices.Contains(exts, ext) {
		return nil, fmt.Errorf("%w: extension %s does not match %s", ErrInvalidAsset, ext, mt.String())
	}
	return &Asset{
		Filename:    filename,
		Field:       field,
		ContentType: mt.String(),
		Data:        data,
	}, nil
}

func extensionsFor(mt *mimetype.MIME) ([]string, bool) {
	for _, t := range imageTypes {
		if mt.Is(t.mime) {
			return t.exts, true
		}
	}
	return nil, false
}

// Extension returns the lowercased extension of the original filename,
// falling back to the one implied by the sniffed content type.
func (a *Asset) Extension() string {
	if ext := strings.ToLower(filepath.Ext(a.Filename)); ext != "" {
		return ext
	}
	for _, t := range imageTypes {
		if t.mime == a.ContentType {
			return t.exts[0]
		}
	}
	return ""
}

// objectName builds a collision-free name: <field>-<unixMillis>-<uuid><ext>.
func objectName(a *Asset, now time.Time) string {
	field := a.Field
	if field == "" {
		field = "file"
	}
	return fmt.Sprintf("%s-%d-%s%s", field, now.UnixMilli(), uuid.NewString(), a.Extension())
}

func uploadErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUpload, fmt.Sprintf(format, args...))
}

// timed bounds every upload of the wrapped backend.
type timed struct {
	next    Uploader
	timeout time.Duration
}

// WithTimeout wraps u so that each upload is cancelled after d.
func WithTimeout(u Uploader, d time.Duration) Uploader {
	if d <= 0 {
		return u
	}
	return &timed{next: u, timeout: d}
}

func (t *timed) Upload(ctx context.Context, asset *Asset, target Target) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	url, err := t.next.Upload(ctx, asset, target)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, ErrUpload) {
		return "", fmt.Errorf("%w: timed out after %s: %v", ErrUpload, t.timeout, err)
	}
	return url, err
}

// Unavailable is used for a backend that is not configured.
type Unavailable struct {
	Reason string
}

func (u Unavailable) Upload(context.Context, *Asset, Target) (string, error) {
	return "", uploadErr("%s", u.Reason)
}
