package transcript

import (
	"fmt"
	"regexp"
	"strings"
)

// FormatOptions controls how segments are rendered into final text.
type FormatOptions struct {
	// IncludeTimestamps enables timestamp-annotated lines.
	IncludeTimestamps bool
	// IntervalSeconds is the minimum gap between emitted timestamps.
	// 0 means one timestamp per sentence.
	IntervalSeconds int
	// VideoID is used to build timestamp link targets.
	VideoID string
	// MediaDir, when set, points timestamp links at a local media file
	// instead of the canonical video URL.
	MediaDir string
	// MediaExt is the local media file extension (default "mp4").
	MediaExt string
}

// sentenceBreak finds sentence-terminal punctuation followed by a capital
// letter, used to approximate paragraphing.
var sentenceBreak = regexp.MustCompile(`([.!?]) ([A-Z])`)

// Format renders segments into final text under the timestamp policy.
func Format(segments []Segment, opts FormatOptions) string {
	if len(segments) == 0 {
		return ""
	}
	if !opts.IncludeTimestamps {
		return formatPlain(segments)
	}
	if opts.IntervalSeconds > 0 {
		return formatInterval(segments, opts)
	}
	return formatPerSentence(segments, opts)
}

// formatPlain concatenates segment texts and inserts paragraph breaks after
// sentence ends.
func formatPlain(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		parts = append(parts, seg.Text)
	}
	joined := strings.Join(parts, " ")
	return sentenceBreak.ReplaceAllString(joined, "$1\n\n$2")
}

// formatPerSentence starts a new annotated line at the first segment and
// after every sentence-terminal punctuation mark.
func formatPerSentence(segments []Segment, opts FormatOptions) string {
	var lines []string
	var current strings.Builder
	newLine := true

	for _, seg := range segments {
		if newLine {
			if current.Len() > 0 {
				lines = append(lines, current.String())
				current.Reset()
			}
			if seg.Start >= 0 {
				current.WriteString(opts.link(seg.Start))
				current.WriteString(" ")
			}
			current.WriteString(seg.Text)
			newLine = false
		} else {
			current.WriteString(" ")
			current.WriteString(seg.Text)
		}
		if endsSentence(seg.Text) {
			newLine = true
		}
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return strings.Join(lines, "\n")
}

// formatInterval emits a new annotated line whenever the gap since the last
// emitted timestamp reaches the configured frequency.
func formatInterval(segments []Segment, opts FormatOptions) string {
	var lines []string
	var current strings.Builder
	lastStamp := 0.0
	stamped := false

	for _, seg := range segments {
		due := seg.Start >= 0 && (!stamped || seg.Start-lastStamp >= float64(opts.IntervalSeconds))
		if due {
			if current.Len() > 0 {
				lines = append(lines, current.String())
				current.Reset()
			}
			current.WriteString(opts.link(seg.Start))
			current.WriteString(" ")
			current.WriteString(seg.Text)
			lastStamp = seg.Start
			stamped = true
			continue
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(seg.Text)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return strings.Join(lines, "\n")
}

// endsSentence reports whether text ends with sentence-terminal punctuation.
func endsSentence(text string) bool {
	trimmed := strings.TrimRight(text, `"')]`+"”")
	return strings.HasSuffix(trimmed, ".") ||
		strings.HasSuffix(trimmed, "!") ||
		strings.HasSuffix(trimmed, "?")
}

// FormatTimestamp renders seconds as M:SS under one hour and H:MM:SS at or
// above one hour.
func FormatTimestamp(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// link renders a timestamp link to either the canonical video URL at the
// offset or a configured local media file.
func (o FormatOptions) link(start float64) string {
	seconds := int(start)
	label := FormatTimestamp(seconds)
	if o.MediaDir != "" {
		dir := strings.TrimRight(strings.ReplaceAll(o.MediaDir, `\`, "/"), "/")
		ext := o.MediaExt
		if ext == "" {
			ext = "mp4"
		}
		return fmt.Sprintf("[%s](%s/%s.%s?t=%d)", label, dir, o.VideoID, ext, seconds)
	}
	return fmt.Sprintf("[%s](https://www.youtube.com/watch?v=%s&t=%ds)", label, o.VideoID, seconds)
}
