package enrich

import (
	"fmt"
	"strings"

	"github.com/laundrymap/enrich-cli/internal/model"
)

// DescriptionGenerator synthesizes a paragraph-length description for
// listings that arrive without one.
type DescriptionGenerator struct {
	maxLen int
}

// NewDescriptionGenerator builds a generator; maxLen <= 0 falls back
// to 400.
func NewDescriptionGenerator(maxLen int) *DescriptionGenerator {
	if maxLen <= 0 {
		maxLen = 400
	}
	return &DescriptionGenerator{maxLen: maxLen}
}

// Generate assembles the description: business type, location,
// services, hours, ratings, and a closing call to action. Clauses with
// no backing data are omitted rather than filled with placeholders.
func (g *DescriptionGenerator) Generate(rec model.RawRecord, tags []string) string {
	var b strings.Builder

	name := strings.TrimSpace(rec.Name)
	if name == "" {
		name = "This laundromat"
	}

	switch {
	case HasTag(tags, "coin operated"):
		b.WriteString(name + " is a coin-operated laundromat")
	case HasTag(tags, "drop-off service"):
		b.WriteString(name + " is a full-service laundromat")
	default:
		b.WriteString(name + " is a neighborhood laundromat")
	}

	city := strings.TrimSpace(rec.City)
	state := strings.TrimSpace(rec.State)
	address := strings.TrimSpace(rec.Address)
	switch {
	case address != "" && city != "":
		b.WriteString(" located at " + address + " in " + cityState(city, state))
	case address != "":
		b.WriteString(" located at " + address)
	case city != "":
		b.WriteString(" located in " + cityState(city, state))
	}
	b.WriteString(".")

	if clause := servicesClause(tags); clause != "" {
		b.WriteString(" " + clause)
	}

	if HasTag(tags, "24-hour") {
		b.WriteString(" Open 24 hours a day, 7 days a week.")
	} else if HasTag(tags, "open late") {
		b.WriteString(" Open late for your convenience.")
	}

	if rating := rec.RatingValue(); rating >= 4.0 && rec.ReviewCountValue() > 0 {
		fmt.Fprintf(&b, " Customers rate it %.1f out of 5 stars across %d reviews.",
			rating, rec.ReviewCountValue())
	}

	if city != "" {
		b.WriteString(" Visit us today for fast, affordable laundry service in " + city + "!")
	} else {
		b.WriteString(" Visit us today for fast, affordable laundry service!")
	}

	return truncateEllipsis(b.String(), g.maxLen, g.maxLen-5)
}

// servicesClause enumerates the offered services with grammar that
// varies by count.
func servicesClause(tags []string) string {
	var offered []string
	if HasTag(tags, "drop-off service") {
		offered = append(offered, "drop-off service")
	}
	if HasTag(tags, "pickup service") {
		offered = append(offered, "pickup")
	}
	if HasTag(tags, "delivery service") {
		offered = append(offered, "delivery")
	}

	switch len(offered) {
	case 0:
		return ""
	case 1:
		return "It offers " + offered[0] + "."
	case 2:
		return "It offers " + offered[0] + " and " + offered[1] + "."
	default:
		return "It offers " + strings.Join(offered[:len(offered)-1], ", ") +
			", and " + offered[len(offered)-1] + "."
	}
}

func cityState(city, state string) string {
	if state == "" {
		return city
	}
	return city + ", " + state
}
