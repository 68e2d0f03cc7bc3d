package enrich

import (
	"strings"

	"github.com/laundrymap/enrich-cli/internal/model"
)

// baseTag is seeded into every tag set before any rule runs.
const baseTag = "laundromat"

// Classifier produces an ordered, de-duplicated tag set for a record.
// Classification is deterministic: the same record always yields the
// same tags in the same order.
type Classifier struct {
	rules        []TagRule
	openLateHour int
}

// NewClassifier builds a Classifier. Nil rules fall back to the
// built-in table; openLateHour <= 0 falls back to 21.
func NewClassifier(rules []TagRule, openLateHour int) *Classifier {
	if rules == nil {
		rules = DefaultRules()
	}
	if openLateHour <= 0 {
		openLateHour = 21
	}
	return &Classifier{rules: rules, openLateHour: openLateHour}
}

// Classify scans the record's text against the rule table. The output
// starts with the base tag, follows rule-table order for keyword hits,
// then hours-derived tags, then locality tags when the city is known.
// Absent or malformed text yields a partial set; Classify never fails.
func (c *Classifier) Classify(rec model.RawRecord) []string {
	tags := []string{baseTag}
	seen := map[string]struct{}{baseTag: {}}

	add := func(tag string) {
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	haystack := strings.ToLower(strings.Join([]string{
		rec.Name, rec.Description, rec.Services, rec.Features,
	}, " "))

	for _, rule := range c.rules {
		if strings.Contains(haystack, rule.Keyword) {
			add(rule.Tag)
		}
	}

	if Is24Hour(rec.Hours) {
		add("24-hour")
	} else if OpenLate(rec.Hours, c.openLateHour) {
		add("open late")
	}

	if city := strings.TrimSpace(rec.City); city != "" {
		add("near me")
		add(strings.ToLower(city) + " laundromat")
	}

	return tags
}

// HasTag reports whether tag is present in a tag set.
func HasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
