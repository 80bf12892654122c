// Package youtube implements the transcript acquisition side of the
// pipeline: video-ID resolution, the watch-page/player-API handshake,
// caption track selection, and caption document parsing.
package youtube

import "regexp"

// idPattern is the canonical 11-character video identifier.
const idPattern = `([A-Za-z0-9_-]{11})`

// videoIDPatterns are the accepted URL shapes, tried in order.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com|youtube-nocookie\.com)/watch\?(?:[^#\s]*&)?v=` + idPattern),
	regexp.MustCompile(`youtu\.be/` + idPattern),
	regexp.MustCompile(`youtube\.com/embed/` + idPattern),
	regexp.MustCompile(`youtube\.com/shorts/` + idPattern),
	regexp.MustCompile(`youtube\.com/live/` + idPattern),
}

// bareIDPattern accepts an identifier passed verbatim.
var bareIDPattern = regexp.MustCompile(`^` + idPattern + `$`)

// ResolveVideoID extracts the canonical video identifier from a URL in any
// of the platform's common forms, or accepts a bare identifier. Returns
// ErrInvalidVideoID when nothing matches.
func ResolveVideoID(input string) (string, error) {
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(input); m != nil {
			return m[1], nil
		}
	}
	if m := bareIDPattern.FindStringSubmatch(input); m != nil {
		return m[1], nil
	}
	return "", ErrInvalidVideoID
}
