package enrich

import (
	"regexp"
	"strconv"
	"strings"
)

// closingTimeRe matches a clock time like "9pm", "9:30 PM", or "11 pm".
var closingTimeRe = regexp.MustCompile(`(?i)(\d{1,2})(?::(\d{2}))?\s*(am|pm)`)

// Is24Hour detects round-the-clock operation from free-text hours.
func Is24Hour(hours string) bool {
	lower := strings.ToLower(hours)
	return strings.Contains(lower, "24 hours") ||
		strings.Contains(lower, "24/7") ||
		strings.Contains(lower, "open 24")
}

// ParseClosingHour extracts the closing hour from one day segment of a
// free-text hours string, normalized to a 24-hour integer. The last
// time mentioned in the segment is taken as the closing time. Returns
// false for segments with no parsable time.
func ParseClosingHour(segment string) (int, bool) {
	matches := closingTimeRe.FindAllStringSubmatch(segment, -1)
	if len(matches) == 0 {
		return 0, false
	}

	last := matches[len(matches)-1]
	hour, err := strconv.Atoi(last[1])
	if err != nil || hour > 23 {
		return 0, false
	}
	if strings.EqualFold(last[3], "pm") && hour < 12 {
		hour += 12
	}
	return hour, true
}

// OpenLate reports whether any day segment closes at or after the
// threshold hour. Segments that fail to parse are skipped; this is a
// best-effort heuristic over free text and never errors.
func OpenLate(hours string, threshold int) bool {
	for _, segment := range strings.FieldsFunc(hours, func(r rune) bool {
		return r == ';' || r == ','
	}) {
		if hour, ok := ParseClosingHour(segment); ok && hour >= threshold {
			return true
		}
	}
	return false
}
