package enrich

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldDiacritics strips combining marks so "Café Lavandería" slugs the
// same as "Cafe Lavanderia".
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slug builds a URL-safe identifier from name, city, and state. Parts
// are lowercased, diacritics folded, and runs of non-alphanumerics
// collapsed into single dashes.
func Slug(name, city, state string) string {
	joined := strings.Join([]string{name, city, state}, " ")
	if folded, _, err := transform.String(foldDiacritics, joined); err == nil {
		joined = folded
	}
	joined = strings.ToLower(joined)

	var b strings.Builder
	lastDash := true // suppress leading dash
	for _, r := range joined {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
