package ytscribe

import (
	ythttp "ytscribe/http"
	"ytscribe/llm"
	"ytscribe/youtube"
)

// Error types re-exported for library users.
//
// Acquisition-phase errors (identifier, network, parse, no-captions) surface
// immediately and are never retried internally. LLM-phase recoverable errors
// (timeout, rate limit) go through the retry decision flow; the rest are
// terminal.

// Type aliases for convenient error handling.
type (
	// ParseError indicates the watch page or caption document had an
	// unexpected structure.
	ParseError = youtube.ParseError
	// StatusError indicates a non-2xx response from a platform call.
	StatusError = ythttp.StatusError
	// AuthError indicates rejected LLM provider credentials.
	AuthError = llm.AuthError
	// NotFoundError indicates an unknown LLM model or endpoint.
	NotFoundError = llm.NotFoundError
	// RateLimitError indicates an LLM provider rate limit.
	RateLimitError = llm.RateLimitError
	// ProviderError is any other non-2xx LLM provider response.
	ProviderError = llm.ProviderError
)

// Sentinel errors re-exported from sub-packages.
var (
	// ErrInvalidVideoID indicates the input is not a recognizable video
	// URL or identifier.
	ErrInvalidVideoID = youtube.ErrInvalidVideoID
	// ErrNoCaptions indicates the video has no caption tracks.
	ErrNoCaptions = youtube.ErrNoCaptions
	// ErrNoTranscriptContent indicates the caption document yielded no
	// segments.
	ErrNoTranscriptContent = youtube.ErrNoTranscriptContent
	// ErrLLMTimeout indicates the LLM request timed out.
	ErrLLMTimeout = llm.ErrTimeout
	// ErrUserCancelled indicates the user aborted after a recoverable
	// LLM failure. Treat as "do nothing, show nothing".
	ErrUserCancelled = llm.ErrUserCancelled
)
