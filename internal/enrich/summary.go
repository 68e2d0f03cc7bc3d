package enrich

import (
	"fmt"
	"strings"

	"github.com/laundrymap/enrich-cli/internal/model"
)

// SummaryGenerator assembles a one-sentence marketing summary from a
// record's tag set and scalar fields.
type SummaryGenerator struct {
	maxLen int
}

// NewSummaryGenerator builds a generator; maxLen <= 0 falls back to 150.
func NewSummaryGenerator(maxLen int) *SummaryGenerator {
	if maxLen <= 0 {
		maxLen = 150
	}
	return &SummaryGenerator{maxLen: maxLen}
}

// Generate produces the summary. The opening clause comes from the tag
// set, followed by optional rating, service, hours, and eco clauses.
// Output never exceeds the length budget.
func (g *SummaryGenerator) Generate(rec model.RawRecord, tags []string) string {
	var b strings.Builder

	switch {
	case HasTag(tags, "coin operated"):
		b.WriteString("Coin-operated laundromat")
	case HasTag(tags, "drop-off service"):
		b.WriteString("Full-service laundromat with drop-off")
	default:
		b.WriteString("Local laundromat")
	}
	if city := strings.TrimSpace(rec.City); city != "" {
		b.WriteString(" in " + city)
	}
	b.WriteString(".")

	if rating := rec.RatingValue(); rating >= 4.0 {
		fmt.Fprintf(&b, " Rated %.1f stars.", rating)
	}

	pickup := HasTag(tags, "pickup service")
	delivery := HasTag(tags, "delivery service")
	switch {
	case pickup && delivery:
		b.WriteString(" Pickup and delivery available.")
	case pickup:
		b.WriteString(" Pickup available.")
	case delivery:
		b.WriteString(" Delivery available.")
	}

	// 24-hour beats open-late; the two never appear together.
	if HasTag(tags, "24-hour") {
		b.WriteString(" Open 24 Hours.")
	} else if HasTag(tags, "open late") {
		b.WriteString(" Open late.")
	}

	if HasTag(tags, "eco-friendly") {
		b.WriteString(" Eco-friendly.")
	}

	return truncateEllipsis(b.String(), g.maxLen, g.maxLen-5)
}

// truncateEllipsis cuts s to cut runes and appends "..." when s exceeds
// max runes. Truncation may land mid-word; that matches the upstream
// behavior and is accepted.
func truncateEllipsis(s string, max, cut int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:cut]) + "..."
}
