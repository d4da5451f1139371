package media

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config selects the bucket and folders used for cloud uploads.
type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
	CoverFolder   string
	AvatarFolder  string
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader stores assets in an S3 or S3-compatible bucket.
type S3Uploader struct {
	client objectPutter
	cfg    S3Config
	now    func() time.Time
}

// NewS3Uploader loads AWS credentials from the environment. A custom
// endpoint switches the client to path-style addressing.
func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Uploader(client, cfg), nil
}

func newS3Uploader(client objectPutter, cfg S3Config) *S3Uploader {
	if cfg.CoverFolder == "" {
		cfg.CoverFolder = "public-cloud"
	}
	if cfg.AvatarFolder == "" {
		cfg.AvatarFolder = "user-profile"
	}
	return &S3Uploader{client: client, cfg: cfg, now: time.Now}
}

func (u *S3Uploader) folder(kind Kind) string {
	if kind == KindAvatar {
		return u.cfg.AvatarFolder
	}
	return u.cfg.CoverFolder
}

func (u *S3Uploader) Upload(ctx context.Context, asset *Asset, target Target) (string, error) {
	if asset == nil {
		return "", ErrNoAsset
	}
	key := u.folder(target.Kind) + "/" + objectName(asset, u.now())
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(asset.Data),
		ContentType: aws.String(asset.ContentType),
	})
	if err != nil {
		return "", uploadErr("put %s: %v", key, err)
	}

	link := u.objectURL(key)
	if _, err := url.ParseRequestURI(link); err != nil {
		return "", uploadErr("unusable URL %q", link)
	}
	return link, nil
}

func (u *S3Uploader) objectURL(key string) string {
	switch {
	case u.cfg.PublicBaseURL != "":
		return strings.TrimRight(u.cfg.PublicBaseURL, "/") + "/" + key
	case u.cfg.Endpoint != "":
		return strings.TrimRight(u.cfg.Endpoint, "/") + "/" + u.cfg.Bucket + "/" + key
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.cfg.Bucket, u.cfg.Region, key)
	}
}
