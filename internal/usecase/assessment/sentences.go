package assessment

import "strings"

// splitSentences breaks transcript text into candidate evidence spans.
// Splits on sentence terminators, trims whitespace, and drops fragments
// too short to carry meaning on their own.
func splitSentences(text string) []string {
	const minSpanLen = 10

	var spans []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(b.String()); len(s) >= minSpanLen {
				spans = append(spans, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); len(s) >= minSpanLen {
		spans = append(spans, s)
	}
	return spans
}
