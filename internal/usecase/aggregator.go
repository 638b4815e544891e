package usecase

import (
	"github.com/ecosnap/backend/internal/domain"
)

// Sub-score weights in percent. They always sum to 100.
const (
	WeightCarbon         = 30
	WeightRecyclability  = 25
	WeightSustainability = 25
	WeightPackaging      = 20
)

var factorDescriptions = map[string]string{
	domain.SubScoreCarbon:         "Estimated greenhouse gas emissions across the product lifecycle",
	domain.SubScoreRecyclability:  "How readily the product and its materials can be recycled",
	domain.SubScoreSustainability: "Sourcing, certification and ingredient practices",
	domain.SubScorePackaging:      "Environmental impact of the packaging materials",
}

// Aggregate combines the sub-scores with the fixed weights.
// The weighted sum is kept in integer hundredths so halves round up exactly.
func Aggregate(sub domain.SubScores) int {
	hundredths := WeightCarbon*sub.Carbon +
		WeightRecyclability*sub.Recyclability +
		WeightSustainability*sub.Sustainability +
		WeightPackaging*sub.Packaging

	return clampScore((hundredths + 50) / 100)
}

// BuildBreakdown assembles a breakdown with its ordered factor list and grade
func BuildBreakdown(sub domain.SubScores, overall int, source domain.ScoreSource, reasoning string) domain.EcoScoreBreakdown {
	return domain.EcoScoreBreakdown{
		SubScores: sub,
		Overall:   overall,
		Grade:     domain.GradeFromScore(overall),
		Factors: []domain.ScoreFactor{
			newFactor(domain.SubScoreCarbon, sub.Carbon, WeightCarbon),
			newFactor(domain.SubScoreRecyclability, sub.Recyclability, WeightRecyclability),
			newFactor(domain.SubScoreSustainability, sub.Sustainability, WeightSustainability),
			newFactor(domain.SubScorePackaging, sub.Packaging, WeightPackaging),
		},
		Source:    source,
		Reasoning: reasoning,
	}
}

// HeuristicBreakdown scores attrs with the rule table and the weighted aggregate
func HeuristicBreakdown(attrs *domain.ProductAttributes) domain.EcoScoreBreakdown {
	sub := HeuristicScore(attrs)
	return BuildBreakdown(sub, Aggregate(sub), domain.SourceHeuristic, "")
}

func newFactor(name string, value, weight int) domain.ScoreFactor {
	return domain.ScoreFactor{
		Name:        name,
		Value:       value,
		Weight:      weight,
		Description: factorDescriptions[name],
	}
}
