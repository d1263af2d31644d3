// Package score computes the composite publishability score for a post from
// its six engagement sub-scores. The computation is pure and deterministic.
package score

import (
	"math"

	"postforge/internal/core"
)

// Weights for the six sub-scores. They sum to 1.0 exactly.
const (
	weightEngagement     = 0.25
	weightAttractiveness = 0.15
	weightInterest       = 0.15
	weightRelevance      = 0.20
	weightShareability   = 0.15
	weightProfessional   = 0.10
)

// squashSteepness controls how sharply the logistic transform pushes
// mid-range averages toward the extremes.
const squashSteepness = 10.0

// Publishability blends the six 0-1 sub-scores into a single 0-100 integer.
// The weighted average is passed through a logistic squash centered at 0.5 so
// that a merely-average post does not present as ~50% publishable: the curve
// rewards consistently-high and punishes consistently-low profiles more
// sharply than a linear average would.
func Publishability(s core.PostScores) int {
	raw := s.Engagement*weightEngagement +
		s.Attractiveness*weightAttractiveness +
		s.Interest*weightInterest +
		s.Relevance*weightRelevance +
		s.Shareability*weightShareability +
		s.Professional*weightProfessional

	adjusted := 1.0 / (1.0 + math.Exp(-squashSteepness*(raw-0.5)))

	return int(math.Round(adjusted * 100))
}
