package youtube

import (
	"encoding/xml"
	"html"
	"strconv"
	"strings"

	"ytscribe/transcript"
)

// cueTagNames are the historically-used cue element names, tried in order
// until one yields at least one element.
var cueTagNames = []string{"text", "p", "s"}

// xmlNode is a generic element tree for the caption markup, which has
// drifted between schemas over the years.
type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []xmlNode  `xml:",any"`
}

// ParseCaptionDocument parses caption markup into ordered timestamped
// segments. It returns a *ParseError when the document is not well-formed
// markup, and ErrNoTranscriptContent when no segments survive any fallback.
func ParseCaptionDocument(data []byte) ([]transcript.Segment, error) {
	var root xmlNode
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, &ParseError{What: "caption document", Err: err}
	}

	for _, tag := range cueTagNames {
		var cues []xmlNode
		collectByName(&root, tag, &cues)
		if segments := segmentsFromCues(cues); len(segments) > 0 {
			return segments, nil
		}
	}

	// Last resort: treat every leaf element as a potential cue.
	var leaves []xmlNode
	collectLeaves(&root, &leaves)
	if segments := segmentsFromCues(leaves); len(segments) > 0 {
		return segments, nil
	}

	return nil, ErrNoTranscriptContent
}

// segmentsFromCues converts cue elements to segments, skipping cues with no
// recoverable text.
func segmentsFromCues(cues []xmlNode) []transcript.Segment {
	var segments []transcript.Segment
	for _, cue := range cues {
		text := cueText(cue)
		if text == "" {
			continue
		}
		segments = append(segments, transcript.Segment{
			Text:  text,
			Start: cueStart(cue),
		})
	}
	return segments
}

// cueText prefers the element's direct text, falling back to its first
// child's text. The raw cue text commonly double-encodes quotes and
// ampersands, so every extracted string gets entity-decoded.
func cueText(cue xmlNode) string {
	text := strings.TrimSpace(cue.Text)
	if text == "" && len(cue.Children) > 0 {
		text = strings.TrimSpace(cue.Children[0].Text)
	}
	return strings.TrimSpace(html.UnescapeString(text))
}

// cueStart reads the start timing attribute, UnknownStart when absent.
// The "t" attribute variant carries milliseconds.
func cueStart(cue xmlNode) float64 {
	for _, attr := range cue.Attrs {
		switch attr.Name.Local {
		case "start":
			if v, err := strconv.ParseFloat(attr.Value, 64); err == nil {
				return v
			}
		case "t":
			if v, err := strconv.ParseFloat(attr.Value, 64); err == nil {
				return v / 1000.0
			}
		}
	}
	return transcript.UnknownStart
}

// collectByName gathers descendants with the given local name, in document
// order.
func collectByName(n *xmlNode, name string, out *[]xmlNode) {
	for i := range n.Children {
		child := &n.Children[i]
		if child.XMLName.Local == name {
			*out = append(*out, *child)
		}
		collectByName(child, name, out)
	}
}

// collectLeaves gathers elements with no child elements, in document order.
func collectLeaves(n *xmlNode, out *[]xmlNode) {
	for i := range n.Children {
		child := &n.Children[i]
		if len(child.Children) == 0 {
			*out = append(*out, *child)
		} else {
			collectLeaves(child, out)
		}
	}
}
