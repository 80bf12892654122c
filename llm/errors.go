package llm

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the post-processing phase.
var (
	// ErrTimeout indicates the provider did not answer inside the
	// configured window. Recoverable through the retry decision flow.
	ErrTimeout = errors.New("llm request timed out")

	// ErrUserCancelled indicates the user chose to abort after a
	// recoverable failure. Callers must treat it as a silent abort,
	// not a display-worthy failure.
	ErrUserCancelled = errors.New("llm processing cancelled by user")
)

// AuthError indicates the provider rejected the credentials (401/403).
// Not retried: it signals misconfiguration, not transient load.
type AuthError struct {
	Provider   string
	StatusCode int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: authentication failed (status %d): check the API key", e.Provider, e.StatusCode)
}

// NotFoundError indicates an unknown model or endpoint (404).
type NotFoundError struct {
	Provider string
	Model    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: model or endpoint not found (model %q)", e.Provider, e.Model)
}

// RateLimitError indicates the provider rate limited the request (429).
// Recoverable through the retry decision flow.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s: rate limited, retry after %v", e.Provider, e.RetryAfter)
	}
	return fmt.Sprintf("%s: rate limited", e.Provider)
}

// ProviderError is any other non-2xx provider response.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: request failed (status %d): %s", e.Provider, e.StatusCode, e.Body)
}
