package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"blogstore/app/media"
	"blogstore/app/services"
	"blogstore/pkg/logger"

	"github.com/gorilla/mux"
)

const maxJSONBytes = 1 << 20

// envelope is the body of every single-document response.
type envelope struct {
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Payload    interface{} `json:"payload,omitempty"`
}

func sendJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func sendPayload(w http.ResponseWriter, status int, message string, payload interface{}) {
	sendJSON(w, status, envelope{StatusCode: status, Message: message, Payload: payload})
}

// sendError maps a service error onto a status code. Internal failures
// are logged with their cause and reported generically.
func sendError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err.Error())
	}
	sendJSON(w, status, envelope{StatusCode: status, Message: services.Message(err)})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, media.ErrNoAsset):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(format string, args ...interface{}) error {
	return &services.Error{Kind: services.ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// decodeJSON reads exactly one JSON object into dst. Unknown fields are
// rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("request body is empty")
		}
		return badRequest("invalid JSON: %v", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return badRequest("request body must contain a single JSON object")
	}
	return nil
}

func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		return 0, &services.Error{Kind: services.ErrNotFound, Message: "invalid " + name}
	}
	return id, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, badRequest("%s must be a number", name)
	}
	return n, nil
}

// readAsset returns the uploaded file in field, or nil when the request
// has none. Oversized and non-image files are rejected.
func readAsset(w http.ResponseWriter, r *http.Request, field string, maxBytes int64) (*media.Asset, error) {
	if maxBytes <= 0 {
		maxBytes = media.DefaultMaxBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+maxJSONBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, services.UploadFailed(fmt.Errorf("%w: file exceeds %d bytes", media.ErrInvalidAsset, maxBytes))
		}
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return nil, nil
		}
		return nil, badRequest("invalid multipart form: %v", err)
	}

	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, badRequest("invalid file: %v", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, services.UploadFailed(err)
	}
	asset, err := media.NewAsset(field, header.Filename, data, maxBytes)
	if errors.Is(err, media.ErrNoAsset) {
		return nil, nil
	}
	if err != nil {
		return nil, services.UploadFailed(err)
	}
	return asset, nil
}

// origin is the scheme and host the client used to reach the server.
func origin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}

// NotFound answers requests that match no route.
func NotFound(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusNotFound, envelope{StatusCode: http.StatusNotFound, Message: "route not found"})
}

// MethodNotAllowed answers requests whose path matches a route but not
// its method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusMethodNotAllowed, envelope{StatusCode: http.StatusMethodNotAllowed, Message: "method not allowed"})
}
