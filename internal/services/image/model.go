// Package image turns a text prompt into an inline dish photo, trying an
// ordered chain of text-to-image models.
package image

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DataURIPrefix is prepended to the base64 payload returned to clients.
const DataURIPrefix = "data:image/png;base64,"

// Generator produces an encoded image reference for a prompt.
// Implementations must return promptly once ctx is cancelled; a recipe whose
// details failed waits for the in-flight image call to unwind.
type Generator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Model is one text-to-image backend in the fallback chain.
type Model interface {
	Name() string
	// Configured reports whether the model has the credentials it needs.
	Configured() bool
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// StatusError is a non-2xx upstream response. Its message is the upstream body text.
type StatusError struct {
	Model      string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if body := strings.TrimSpace(e.Body); body != "" {
		return body
	}
	return fmt.Sprintf("%s returned status %d", e.Model, e.StatusCode)
}

// HTTPStatus exposes the upstream status for error classification.
func (e *StatusError) HTTPStatus() int {
	return e.StatusCode
}

// EncodeDataURI wraps raw image bytes in a data URI without inspecting them.
func EncodeDataURI(payload []byte) string {
	return DataURIPrefix + base64.StdEncoding.EncodeToString(payload)
}

// ErrResponseTooLarge is returned when an upstream body exceeds the read limit.
var ErrResponseTooLarge = errors.New("upstream response exceeds size limit")

// readLimited reads at most limit bytes and fails if the body is longer.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	payload, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(payload)) > limit {
		return nil, fmt.Errorf("%w (%d bytes)", ErrResponseTooLarge, limit)
	}
	return payload, nil
}
