package youtube

import "strings"

// defaultLanguage is the fallback track language when no preference matches.
const defaultLanguage = "en"

// SelectTrack picks one caption track using an ordered language preference
// list ("de,it,fr", case-insensitive, entries trimmed, empties discarded).
// The first preference with a matching track wins; otherwise the default
// interface language; otherwise the first track. For a non-empty track list
// the selection is total and deterministic.
func SelectTrack(tracks []CaptionTrack, preference string) CaptionTrack {
	for _, lang := range splitPreference(preference) {
		for _, track := range tracks {
			if strings.EqualFold(track.LanguageCode, lang) {
				return track
			}
		}
	}

	for _, track := range tracks {
		if strings.EqualFold(track.LanguageCode, defaultLanguage) {
			return track
		}
	}

	return tracks[0]
}

// splitPreference normalizes a comma-separated preference list.
func splitPreference(preference string) []string {
	var langs []string
	for _, part := range strings.Split(preference, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			langs = append(langs, part)
		}
	}
	return langs
}
