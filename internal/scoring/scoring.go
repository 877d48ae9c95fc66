package scoring

import (
	"fmt"
	"math"

	"github.com/neuroemotive/emotive-core/internal/emotion"
)

// ErrInvalidQuality rejects a non-finite quality input. It wraps
// emotion.ErrInvalidRange so callers can match either sentinel.
var ErrInvalidQuality = fmt.Errorf("invalid quality: %w", emotion.ErrInvalidRange)

// Fixed formula constants. These are compatibility surfaces: stored scores
// were produced with them, so changing one silently reinterprets history.
const (
	// reputationRate is the per-observation EMA learning rate.
	reputationRate = 0.1
	// boostParamWeight and boostQualityWeight blend parameter spread with
	// the caller-supplied quality score.
	boostParamWeight   = 0.5
	boostQualityWeight = 0.5
	// stabilityScale maps population variance onto [0, 1] penalty.
	stabilityScale = 4.0
	// consistencySlope and consistencyFloor map reputation onto consistency.
	consistencySlope = 0.8
	consistencyFloor = 0.2
)

// #region impact

// Impact measures how far an observation moved from the previous one:
// the mean absolute difference of valence, arousal, and dominance.
// Not clamped; valence spans [-1, 1] so the result can exceed 1.
func Impact(current, previous emotion.Vector) float32 {
	dv := abs(current.Valence - previous.Valence)
	da := abs(current.Arousal - previous.Arousal)
	dd := abs(current.Dominance - previous.Dominance)
	return (dv + da + dd) / 3.0
}

// #endregion impact

// #region creativity-boost

// CreativityBoost blends the population standard deviation of the parameter
// vector with the quality score, capped at 1. Zero or one parameter
// contributes no spread. A non-finite quality is a contract violation,
// never silently clamped.
func CreativityBoost(params []float32, quality float32) (float32, error) {
	if !emotion.Finite(quality) {
		return 0, fmt.Errorf("quality %v: %w", quality, ErrInvalidQuality)
	}
	spread := stdDev(params)
	boost := spread*boostParamWeight + quality*boostQualityWeight
	if boost > 1 {
		boost = 1
	}
	return boost, nil
}

// ValidateParams rejects parameter vectors containing NaN or ±Inf.
func ValidateParams(params []float32) error {
	for i, p := range params {
		if !emotion.Finite(p) {
			return fmt.Errorf("param[%d] %v: %w", i, p, emotion.ErrInvalidRange)
		}
	}
	return nil
}

// #endregion creativity-boost

// #region stability

// Stability scores how balanced a (valence, arousal, dominance) triple is:
// 1 minus the scaled population variance of the three values, floored at 0.
func Stability(valence, arousal, dominance float32) float32 {
	mean := (valence + arousal + dominance) / 3.0
	dv := valence - mean
	da := arousal - mean
	dd := dominance - mean
	variance := (dv*dv + da*da + dd*dd) / 3.0
	penalty := variance * stabilityScale
	if penalty > 1 {
		penalty = 1
	}
	return 1 - penalty
}

// #endregion stability

// #region reputation

// ReputationStep advances a per-session reputation score one observation:
// rep + rate * (quality - rep). Fixed point at rep == quality.
func ReputationStep(current, quality float32) float32 {
	return current + reputationRate*(quality-current)
}

// Consistency derives emotional consistency from a reputation score.
func Consistency(reputation float32) float32 {
	return reputation*consistencySlope + consistencyFloor
}

// #endregion reputation

// #region helpers

// stdDev computes the population standard deviation. Zero when len <= 1.
func stdDev(values []float32) float32 {
	if len(values) <= 1 {
		return 0
	}
	var sum float32
	for _, v := range values {
		sum += v
	}
	mean := sum / float32(len(values))
	var variance float32
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float32(len(values))
	return float32(math.Sqrt(float64(variance)))
}

// abs avoids the float64 round trip of math.Abs for float32 inputs.
func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// #endregion helpers
