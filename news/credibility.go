package news

import (
	"math"

	"ringstats-backend/models"
)

// z for a 95% confidence interval.
const wilsonZ = 1.96

// Scorer blends reader votes with source reputation into a credibility score.
type Scorer struct {
	WilsonWeight       float64
	SourceWeight       float64
	ConfirmedThreshold float64
	RumorThreshold     float64
}

func DefaultScorer() Scorer {
	return Scorer{
		WilsonWeight:       0.7,
		SourceWeight:       0.3,
		ConfirmedThreshold: 0.7,
		RumorThreshold:     0.3,
	}
}

// WilsonLowerBound is the lower bound of the Wilson score interval for the
// share of upvotes, clamped to [0, 1]. No votes scores 0.
func WilsonLowerBound(up, down int) float64 {
	n := float64(up + down)
	if n <= 0 {
		return 0
	}
	p := float64(up) / n
	z2 := wilsonZ * wilsonZ
	centre := p + z2/(2*n)
	spread := wilsonZ * math.Sqrt((p*(1-p)+z2/(4*n))/n)
	lower := (centre - spread) / (1 + z2/n)
	return math.Max(0, math.Min(1, lower))
}

func (s Scorer) Score(up, down int, sourceScore float64) (float64, models.CredibilityLabel) {
	score := s.WilsonWeight*WilsonLowerBound(up, down) + s.SourceWeight*sourceScore
	return score, s.Label(score)
}

func (s Scorer) Label(score float64) models.CredibilityLabel {
	switch {
	case score >= s.ConfirmedThreshold:
		return models.LabelConfirmed
	case score >= s.RumorThreshold:
		return models.LabelDeveloping
	default:
		return models.LabelRumor
	}
}
