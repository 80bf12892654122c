package llm

import (
	"fmt"
	"strings"
)

// ProcessOptions controls one post-processing run.
type ProcessOptions struct {
	// WantSummary requests the two-section summary/transcript output.
	WantSummary bool
	// KeepTimestamps instructs the model to preserve timestamp links
	// embedded in the transcript.
	KeepTimestamps bool
	// LanguageHint names the transcript's language (e.g. "de"). When set,
	// the prompt demands the reply stay in that language.
	LanguageHint string
}

const basePrompt = `Clean up the following video transcript. Fix punctuation and capitalization, remove filler words and false starts, and break the text into readable paragraphs. Do not paraphrase, shorten, or reorder the content.`

const summaryContract = `Structure your reply as exactly two sections:

## Summary

A concise summary of the video (3-6 sentences).

## Transcript

The cleaned-up transcript.`

const timestampInstruction = `The transcript contains timestamp links in square brackets. Keep every timestamp link exactly where it appears; attach it to the start of the sentence it belongs to.`

// buildPrompt assembles the single user-role message sent to the provider.
func buildPrompt(transcript string, opts ProcessOptions) string {
	var b strings.Builder
	b.WriteString(basePrompt)

	if opts.WantSummary {
		b.WriteString("\n\n")
		b.WriteString(summaryContract)
	}
	if opts.KeepTimestamps {
		b.WriteString("\n\n")
		b.WriteString(timestampInstruction)
	}
	if opts.LanguageHint != "" {
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "The transcript is in %q. Write your entire reply, including the summary, in that same language.", opts.LanguageHint)
	}

	b.WriteString("\n\nTranscript:\n\n")
	b.WriteString(transcript)
	return b.String()
}
