// Package transcript holds the normalized in-memory transcript
// representation and the text formatting policy.
package transcript

// UnknownStart marks a segment whose source cue carried no timing.
const UnknownStart float64 = -1

// Segment is one caption cue after parsing: its text and start time.
type Segment struct {
	// Text is the decoded cue text.
	Text string
	// Start is the cue start in seconds, UnknownStart when the source
	// carried no timing information.
	Start float64
}
