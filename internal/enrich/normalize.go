// Package enrich derives SEO fields for listing records: slugs, tags,
// premium scores, and generated marketing copy.
package enrich

import "strings"

// NormalizeAddress builds the deduplication key for a listing. The key
// is a lowercase, whitespace-collapsed concatenation of the address
// components. Missing components are treated as empty strings; the
// result is only ever compared, never stored or displayed.
func NormalizeAddress(address, city, state, zip string) string {
	joined := strings.Join([]string{address, city, state, zip}, " ")
	return strings.Join(strings.Fields(strings.ToLower(joined)), " ")
}

// Deduper tracks normalization keys seen within a single run.
type Deduper struct {
	seen map[string]struct{}
}

// NewDeduper returns an empty Deduper.
func NewDeduper() *Deduper {
	return &Deduper{seen: make(map[string]struct{})}
}

// Seen reports whether key was already recorded and records it if not.
// The first caller for a given key wins; every later call returns true.
func (d *Deduper) Seen(key string) bool {
	if _, ok := d.seen[key]; ok {
		return true
	}
	d.seen[key] = struct{}{}
	return false
}
