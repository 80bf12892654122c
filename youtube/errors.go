package youtube

import (
	"errors"
	"fmt"
)

// Sentinel errors for the acquisition phase. None of these are retried
// internally: they indicate a dead link or a changed upstream contract.
var (
	// ErrInvalidVideoID indicates the input matched no accepted URL shape
	// and is not a bare video identifier.
	ErrInvalidVideoID = errors.New("not a valid YouTube URL or video ID")

	// ErrNoCaptions indicates the video has no caption tracks.
	ErrNoCaptions = errors.New("video has no captions")

	// ErrNoTranscriptContent indicates the caption document parsed but
	// yielded zero segments after all fallbacks.
	ErrNoTranscriptContent = errors.New("no transcript content found in caption document")
)

// ParseError indicates the watch page or caption document did not have the
// expected structure, usually a sign the upstream layout changed or the
// request was blocked.
type ParseError struct {
	// What names the document that failed to parse.
	What string
	// Err is the underlying cause, when there is one.
	Err error
}

// Error returns a string representation of the parse error.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %v", e.What, e.Err)
	}
	return fmt.Sprintf("parse %s: unexpected structure", e.What)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error { return e.Err }
