package services

import (
	"errors"
	"fmt"
	"testing"

	"blogstore/app/media"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	cause := errors.New("disk on fire")

	tests := []struct {
		name    string
		err     error
		kind    error
		message string
	}{
		{"validation", validationError("title is required"), ErrValidation, "title is required"},
		{"not found", notFound("post"), ErrNotFound, "post does not exist"},
		{"internal hides detail", internal("list posts", cause), ErrInternal, "internal server error"},
		{"no asset", UploadFailed(media.ErrNoAsset), ErrUpload, "no file uploaded"},
		{"upload", UploadFailed(fmt.Errorf("%w: boom", media.ErrUpload)), ErrUpload, "upload failed"},
		{"bad asset", UploadFailed(fmt.Errorf("%w: text/plain is not an image", media.ErrInvalidAsset)), ErrValidation, "invalid asset: text/plain is not an image"},
		{"plain error", cause, nil, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.kind != nil {
				assert.ErrorIs(t, tt.err, tt.kind)
			}
			assert.Equal(t, tt.message, Message(tt.err))
		})
	}

	assert.ErrorIs(t, internal("op", cause), cause, "cause stays reachable for logs")
}
