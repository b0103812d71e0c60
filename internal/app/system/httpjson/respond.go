// Package httpjson writes the JSON bodies this API speaks.
//
// Success bodies are endpoint-specific structs; failures are always
// {"error": "<machine-readable code>"} plus the HTTP status. Handlers map
// internal errors to a code at the boundary; no internal error text ever
// reaches a response body.
package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// Error codes shared across features. Feature-specific codes (not_teacher,
// request_exists, ...) live with their handlers.
const (
	CodeInternal     = "internal_error"
	CodeNotFound     = "not_found"
	CodeMissingToken = "missing_token"
	CodeInvalidToken = "invalid_token"
)

// maxBodyBytes bounds request bodies. Inline-encoded video payloads are the
// largest thing clients send.
const maxBodyBytes = 2 << 20

// Write encodes v as the response body with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes {"error": code} with the given status.
func Error(w http.ResponseWriter, status int, code string) {
	Write(w, status, map[string]string{"error": code})
}

// Internal logs err and writes a 500 internal_error response.
func Internal(w http.ResponseWriter, log *zap.Logger, op string, err error) {
	log.Error("request failed", zap.String("op", op), zap.Error(err))
	Error(w, http.StatusInternalServerError, CodeInternal)
}

// Decode reads the request body into dst. A missing or empty body decodes
// into the zero value rather than failing, so handlers validate fields
// instead of body presence.
func Decode(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	err := json.NewDecoder(body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
