package services

import (
	"context"
	"errors"
	"fmt"

	"blogstore/app/media"
	"blogstore/app/models"
)

// Error kinds. Every error returned by a service matches exactly one of
// them with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrUpload       = errors.New("upload error")
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error pairs a kind with a message that is safe to show to clients.
// Err keeps the underlying cause for logs.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// Message returns the client-facing message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && !errors.Is(e.Kind, ErrInternal) {
		return e.Message
	}
	return "internal server error"
}

func validationError(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func notFound(what string) error {
	return &Error{Kind: ErrNotFound, Message: what + " does not exist"}
}

func internal(op string, err error) error {
	return &Error{Kind: ErrInternal, Message: op, Err: err}
}

func unauthorized(msg string) error {
	return &Error{Kind: ErrUnauthorized, Message: msg}
}

// invalid converts a model validation failure. Anything else is internal.
func invalid(op string, err error) error {
	var fe *models.FieldError
	if errors.As(err, &fe) {
		return &Error{Kind: ErrValidation, Message: fe.Error(), Err: err}
	}
	return internal(op, err)
}

// UploadFailed classifies an error from reading or storing an asset.
func UploadFailed(err error) error {
	switch {
	case errors.Is(err, media.ErrNoAsset):
		return &Error{Kind: ErrUpload, Message: "no file uploaded", Err: err}
	case errors.Is(err, media.ErrInvalidAsset):
		return &Error{Kind: ErrValidation, Message: err.Error(), Err: err}
	default:
		return &Error{Kind: ErrUpload, Message: "upload failed", Err: err}
	}
}

// StoreAsset uploads an asset that is not attached to any document.
func StoreAsset(ctx context.Context, u media.Uploader, asset *media.Asset, target media.Target) (string, error) {
	if asset == nil {
		return "", UploadFailed(media.ErrNoAsset)
	}
	url, err := u.Upload(ctx, asset, target)
	if err != nil {
		return "", UploadFailed(err)
	}
	return url, nil
}
