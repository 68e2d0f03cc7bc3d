// Package model defines the record and job types shared across the
// enrichment pipeline.
package model

import (
	"strconv"
	"strings"
)

// RawRecord is a single listing row as parsed from an input file. All
// fields are kept as strings; numeric views are exposed through tolerant
// accessor methods that return zero values for unparsable input.
type RawRecord struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	Zip         string `json:"zip"`
	Phone       string `json:"phone,omitempty"`
	Website     string `json:"website,omitempty"`
	Hours       string `json:"hours,omitempty"`
	Rating      string `json:"rating,omitempty"`
	ReviewCount string `json:"review_count,omitempty"`
	Photos      string `json:"photos,omitempty"`
	Services    string `json:"services,omitempty"`
	Features    string `json:"features,omitempty"`
	Description string `json:"description,omitempty"`

	// Extra holds columns the pipeline does not recognize. They are
	// carried through to the output untouched, in ExtraKeys order.
	Extra     map[string]string `json:"extra,omitempty"`
	ExtraKeys []string          `json:"-"`
}

// RatingValue parses the rating as a float. Unparsable input yields 0.
func (r RawRecord) RatingValue() float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(r.Rating), 64)
	if err != nil {
		return 0
	}
	return v
}

// ReviewCountValue parses the review count as an integer. Unparsable
// input yields 0.
func (r RawRecord) ReviewCountValue() int {
	v, err := strconv.Atoi(strings.TrimSpace(r.ReviewCount))
	if err != nil {
		return 0
	}
	return v
}

// PhotoCount interprets the photos column as either a plain count or a
// delimited list of photo references.
func (r RawRecord) PhotoCount() int {
	s := strings.TrimSpace(r.Photos)
	if s == "" {
		return 0
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return len(splitList(s))
}

// ServiceList splits the services column into trimmed, non-empty entries.
func (r RawRecord) ServiceList() []string {
	return splitList(r.Services)
}

// splitList splits on semicolons, falling back to commas, and drops
// empty entries.
func splitList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	sep := ";"
	if !strings.Contains(s, ";") {
		sep = ","
	}
	var out []string
	for _, part := range strings.Split(s, sep) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// EnrichedRecord is a RawRecord plus the derived SEO fields. It is
// produced once by the enricher and never mutated afterward.
type EnrichedRecord struct {
	RawRecord

	Slug           string   `json:"slug"`
	SEOTags        []string `json:"seo_tags"`
	SEOSummary     string   `json:"seo_summary"`
	SEODescription string   `json:"seo_description"`
	PremiumScore   int      `json:"premium_score"`
}

// EnrichmentStats aggregates counters for one pipeline run.
type EnrichmentStats struct {
	TotalRecords      int      `json:"total_records"`
	EnrichedRecords   int      `json:"enriched_records"`
	DuplicatesRemoved int      `json:"duplicates_removed"`
	Errors            []string `json:"errors,omitempty"`
}

// Clone returns a deep copy so callers can hold a snapshot while the
// pipeline keeps mutating the original.
func (s *EnrichmentStats) Clone() *EnrichmentStats {
	if s == nil {
		return nil
	}
	out := *s
	out.Errors = append([]string(nil), s.Errors...)
	return &out
}
