// Package match implements the text canonicalization, similarity grouping
// and fuzzy scoring that all comparisons and search ranking are built on.
package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// Normalize canonicalizes free text for comparison: lower-case, decompose and
// drop combining diacritics, collapse every run of non-alphanumeric
// characters to a single space, trim. It is the sole equality basis for text
// comparisons and search indexing, so "Re:Zero" and "re zero" come out equal.
func Normalize(value string) string {
	if value == "" {
		return ""
	}
	lowered := strings.ToLower(value)
	stripped, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		stripped = lowered
	}

	var b strings.Builder
	b.Grow(len(stripped))
	pending := false
	for _, r := range stripped {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pending = false
			b.WriteRune(r)
		} else {
			pending = true
		}
	}
	return b.String()
}

// NormalizeAll maps Normalize over titles, dropping values that normalize to
// nothing. Used when precomputing search indices.
func NormalizeAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if n := Normalize(v); n != "" {
			out = append(out, n)
		}
	}
	return out
}
