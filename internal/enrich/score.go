package enrich

import (
	"math"

	"github.com/laundrymap/enrich-cli/internal/model"
)

// PremiumScore is a completeness/quality heuristic over the fields a
// listing actually has, clamped to [0, 100]. It is not a statistical
// model; the only hard requirement is that the same inputs always
// produce the same score.
//
// Weights: base 50, website +10, phone +5, and up to +10 each for
// description length, photo count, rating, and review count, plus up
// to +5 for distinct services.
func PremiumScore(rec model.RawRecord) int {
	score := 50.0

	if rec.Website != "" {
		score += 10
	}
	if rec.Phone != "" {
		score += 5
	}

	score += math.Min(10, float64(len(rec.Description)/50))
	score += math.Min(10, float64(rec.PhotoCount()*2))

	if rating := rec.RatingValue(); rating > 0 {
		score += math.Min(10, rating/5*10)
	}

	score += math.Min(10, float64(rec.ReviewCountValue()/10))
	score += math.Min(5, float64(len(rec.ServiceList())))

	return int(math.Round(math.Min(100, math.Max(0, score))))
}
