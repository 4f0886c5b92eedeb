package assessment

import (
	"math"

	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
)

// IndicatorScore pairs an indicator's weight with its (possibly still
// missing) assessment for the overall rollup
type IndicatorScore struct {
	Weight   float64
	Score    float64
	Assessed bool
}

// Combine merges the AI score with an optional manual score under the given
// weight pair. A nil or non-positive manual score means "not yet entered"
// and yields the AI score unchanged; otherwise the weighted blend is rounded
// to one decimal place. Invalid weight pairs are refused, never normalized.
func Combine(aiScore float64, manualScore *float64, weights entities.ScoringWeights) (float64, error) {
	if err := weights.Validate(); err != nil {
		return 0, err
	}
	if manualScore == nil || *manualScore <= 0 {
		return aiScore, nil
	}
	combined := aiScore*weights.AIWeight/100 + *manualScore*weights.ManualWeight/100
	return math.Round(combined*10) / 10, nil
}

// Overall computes the weighted mean across indicators. Unassessed
// indicators are excluded from both numerator and denominator, so an
// in-progress interview never shows an artificially depressed score.
// Returns false when no indicator has been assessed.
func Overall(scores []IndicatorScore) (float64, bool) {
	var sum, weightSum float64
	for _, s := range scores {
		if !s.Assessed || s.Weight <= 0 {
			continue
		}
		sum += s.Score * s.Weight
		weightSum += s.Weight
	}
	if weightSum == 0 {
		return 0, false
	}
	return sum / weightSum, true
}
