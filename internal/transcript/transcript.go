// Package transcript normalizes recognizer hypotheses for display and storage.
package transcript

import "strings"

// Normalize collapses whitespace in a raw hypothesis. The recognizer re-emits
// the full revised hypothesis on every callback, so each normalized value
// replaces the previous one wholesale; nothing is ever concatenated.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	return strings.Join(strings.Fields(raw), " ")
}

// Preview truncates text to at most max words for list-style display.
func Preview(text string, max int) string {
	words := strings.Fields(text)
	if max <= 0 || len(words) <= max {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:max], " ") + "…"
}
