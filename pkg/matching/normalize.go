package matching

import (
	"strings"
	"unicode"
)

// NormalizeName produces a comparison-stable form of a display name:
// lower-cased, trimmed, punctuation replaced by token breaks, runs of
// whitespace collapsed to a single space. Idempotent; empty in, empty out.
func NormalizeName(s string) string {
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	prevSpace := true
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevSpace = false
			continue
		}
		// whitespace and punctuation both act as token separators
		if !prevSpace {
			b.WriteRune(' ')
			prevSpace = true
		}
	}

	return strings.TrimSpace(b.String())
}

// Tokens splits a name into its normalized word tokens.
func Tokens(s string) []string {
	normalized := NormalizeName(s)
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}
