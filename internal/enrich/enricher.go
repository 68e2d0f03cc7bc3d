package enrich

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/laundrymap/enrich-cli/internal/model"
)

// Options tunes the enricher. Zero values fall back to the defaults
// each component documents.
type Options struct {
	Rules             []TagRule
	OpenLateHour      int
	SummaryMaxLen     int
	DescriptionMaxLen int
	MinDescriptionLen int
}

// Enricher is the sole producer of EnrichedRecord values. It composes
// the classifier, scorer, and text generators into one record
// transform.
type Enricher struct {
	classifier  *Classifier
	summary     *SummaryGenerator
	description *DescriptionGenerator
	minDescLen  int
}

// New builds an Enricher from options.
func New(opts Options) *Enricher {
	minDescLen := opts.MinDescriptionLen
	if minDescLen <= 0 {
		minDescLen = 50
	}
	return &Enricher{
		classifier:  NewClassifier(opts.Rules, opts.OpenLateHour),
		summary:     NewSummaryGenerator(opts.SummaryMaxLen),
		description: NewDescriptionGenerator(opts.DescriptionMaxLen),
		minDescLen:  minDescLen,
	}
}

// Enrich derives the SEO fields for one record. A record without a name
// cannot be enriched and is reported as an error; the caller decides
// whether to pass the original through. Generators themselves are total
// and never fail on odd text.
func (e *Enricher) Enrich(rec model.RawRecord) (model.EnrichedRecord, error) {
	if strings.TrimSpace(rec.Name) == "" {
		return model.EnrichedRecord{}, eris.New("enrich: record has no name")
	}

	tags := e.classifier.Classify(rec)

	out := model.EnrichedRecord{
		RawRecord:    rec,
		Slug:         Slug(rec.Name, rec.City, rec.State),
		SEOTags:      tags,
		SEOSummary:   e.summary.Generate(rec, tags),
		PremiumScore: PremiumScore(rec),
	}

	// Only synthesize a description when the original is absent or too
	// short to stand on its own.
	if len(strings.TrimSpace(rec.Description)) < e.minDescLen {
		out.SEODescription = e.description.Generate(rec, tags)
	}

	return out, nil
}
