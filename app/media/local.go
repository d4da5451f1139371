package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalUploader writes assets into a directory served under /public/.
type LocalUploader struct {
	Dir     string
	BaseURL string
	now     func() time.Time
}

// NewLocalUploader creates the directory if needed.
func NewLocalUploader(dir, baseURL string) (*LocalUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalUploader{Dir: dir, BaseURL: baseURL, now: time.Now}, nil
}

func (u *LocalUploader) Upload(ctx context.Context, asset *Asset, target Target) (string, error) {
	if asset == nil {
		return "", ErrNoAsset
	}
	if err := ctx.Err(); err != nil {
		return "", uploadErr("%v", err)
	}

	base := u.BaseURL
	if base == "" {
		base = target.Origin
	}
	if base == "" {
		return "", uploadErr("no public base URL for local files")
	}

	now := time.Now
	if u.now != nil {
		now = u.now
	}
	name := objectName(asset, now())
	if err := os.WriteFile(filepath.Join(u.Dir, name), asset.Data, 0o644); err != nil {
		return "", uploadErr("write %s: %v", name, err)
	}
	return strings.TrimRight(base, "/") + "/public/" + name, nil
}
