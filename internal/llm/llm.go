// Package llm talks to the hosted generative model that answers tutor
// questions.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Completer turns a prompt into model text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("llm: empty response")

// ErrNoAPIKey is returned by clients built without credentials.
var ErrNoAPIKey = errors.New("llm: api key not configured")

// APIError is a non-2xx answer from the model endpoint.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llm: api error (status %d): %s", e.StatusCode, e.Body)
}

// Retriable reports whether the same request may succeed later.
func (e *APIError) Retriable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// IsRetriable reports whether err is worth another attempt: throttling,
// server-side failures and per-attempt timeouts.
func IsRetriable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retriable()
	}
	return errors.Is(err, context.DeadlineExceeded)
}
