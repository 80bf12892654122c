package llm

import (
	"regexp"
	"strings"
)

// Response is the parsed result of one post-processing run.
type Response struct {
	// Transcript is the full text handed back to the caller. When a summary
	// was requested it always contains a populated "## Summary" section and
	// a populated "## Transcript" section, whatever the model actually sent.
	Transcript string
	// Summary is the extracted summary, nil when none was requested.
	Summary *string
}

// Placeholders substituted when a section's text could not be recovered, so
// the two-section invariant is never silently violated.
const (
	summaryPlaceholder    = "(no summary returned by the model)"
	transcriptPlaceholder = "(no transcript returned by the model)"
)

// ParseSections extracts a (summary, transcript) pair from free-form model
// output. Strategies are tried in order; the first that succeeds wins.
func ParseSections(raw string, wantSummary bool) *Response {
	trimmed := strings.TrimSpace(raw)

	if !wantSummary {
		return &Response{Transcript: trimmed}
	}

	var summary, transcript string
	for _, strategy := range sectionStrategies {
		if s, t, ok := strategy(trimmed); ok {
			summary, transcript = s, t
			break
		}
	}

	summary = strings.TrimSpace(summary)
	transcript = strings.TrimSpace(transcript)
	if summary == "" {
		summary = summaryPlaceholder
	}
	if transcript == "" {
		transcript = trimmed
	}
	if transcript == "" {
		transcript = transcriptPlaceholder
	}

	return &Response{
		Transcript: "## Summary\n\n" + summary + "\n\n## Transcript\n\n" + transcript,
		Summary:    &summary,
	}
}

// sectionStrategy attempts to pull (summary, transcript) out of model text.
type sectionStrategy func(text string) (summary, transcript string, ok bool)

// Ordered cascade: strict heading format, relaxed blank-line handling, loose
// "Summary" labels, raw split on heading positions, then structural guessing.
var sectionStrategies = []sectionStrategy{
	extractStrict,
	extractRelaxed,
	extractLooseLabel,
	splitOnHeadings,
	guessFromStructure,
}

var (
	// A "Summary" heading followed by a blank line, captured until the
	// "Transcript" heading.
	strictRe = regexp.MustCompile(`(?is)(?:^|\n)#{0,6}[ \t]*summary\b[:\-]?[ \t]*\n[ \t]*\n(.*?)\n+#{0,6}[ \t]*transcript\b[:\-]?[ \t]*\n(.*)$`)

	// Same, tolerating a missing blank line after the heading.
	relaxedRe = regexp.MustCompile(`(?is)(?:^|\n)#{0,6}[ \t]*summary\b[:\-]?[ \t]*\n(.*?)\n+#{0,6}[ \t]*transcript\b[:\-]?[ \t]*\n(.*)$`)

	// A line beginning with the word "Summary", optionally marked up as a
	// heading, optionally followed by a colon or dash.
	looseLabelRe = regexp.MustCompile(`(?im)^#{0,6}[ \t]*summary\b[ \t]*[:\-]?[ \t]*`)

	summaryHeadingRe    = regexp.MustCompile(`(?im)^#{0,6}[ \t]*summary\b[:\-]?[ \t]*$`)
	transcriptHeadingRe = regexp.MustCompile(`(?im)^#{0,6}[ \t]*transcript\b[:\-]?[ \t]*$`)
)

func extractStrict(text string) (string, string, bool) {
	m := strictRe.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

func extractRelaxed(text string) (string, string, bool) {
	m := relaxedRe.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// extractLooseLabel handles replies that label the summary but drop the
// transcript heading entirely. The summary runs from the label to the first
// blank line; the transcript is everything else.
func extractLooseLabel(text string) (string, string, bool) {
	loc := looseLabelRe.FindStringIndex(text)
	if loc == nil {
		return "", "", false
	}

	rest := text[loc[1]:]
	summary := rest
	transcript := text[:loc[0]]
	if end := strings.Index(rest, "\n\n"); end >= 0 {
		summary = rest[:end]
		transcript = transcript + "\n" + rest[end:]
	}
	if strings.TrimSpace(summary) == "" {
		return "", "", false
	}
	return summary, transcript, true
}

// splitOnHeadings fires when both section headings are present but the
// pattern-based extraction still failed: the document is split on the two
// heading positions directly.
func splitOnHeadings(text string) (string, string, bool) {
	sumLoc := summaryHeadingRe.FindStringIndex(text)
	traLoc := transcriptHeadingRe.FindStringIndex(text)
	if sumLoc == nil || traLoc == nil || traLoc[0] <= sumLoc[1] {
		return "", "", false
	}
	return text[sumLoc[1]:traLoc[0]], text[traLoc[1]:], true
}

// guessFromStructure is the final fallback for replies with no headings at
// all: the first paragraph (or first line, or first 300 characters) becomes
// the summary and the remainder the transcript.
func guessFromStructure(text string) (string, string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", "", false
	}

	if idx := strings.Index(text, "\n\n"); idx > 0 {
		return text[:idx], text[idx:], true
	}
	if idx := strings.Index(text, "\n"); idx > 0 {
		return text[:idx], text[idx:], true
	}
	if len(text) > 300 {
		return text[:300], text[300:], true
	}
	return text, text, true
}
