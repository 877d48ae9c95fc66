package pattern

import (
	"fmt"

	"github.com/neuroemotive/emotive-core/internal/emotion"
	"github.com/neuroemotive/emotive-core/internal/scoring"
)

// #region pattern-type

// Pattern buckets an averaged emotional triple.
type Pattern string

const (
	StablePositive Pattern = "stable_positive"
	StableNegative Pattern = "stable_negative"
	UnstableMixed  Pattern = "unstable_mixed"
	// NeutralStable is a recognized category that Classify never produces;
	// it survives for stored rows written by earlier taxonomies.
	NeutralStable Pattern = "neutral_stable"
	HighEnergy    Pattern = "high_energy"
	LowEnergy     Pattern = "low_energy"
)

// #endregion pattern-type

// #region classify

// Classify buckets a (valence, arousal, dominance) triple by which axes sit
// strictly above 0.5. Four triples map to named buckets; the remaining four
// are UnstableMixed. The mapping is a fixed compatibility surface.
func Classify(valence, arousal, dominance float32) Pattern {
	highV, highA, highD := valence > 0.5, arousal > 0.5, dominance > 0.5
	switch {
	case highV && highA && highD:
		return StablePositive
	case !highV && highA && highD:
		return StableNegative
	case highV && !highA && !highD:
		return LowEnergy
	case !highV && highA && !highD:
		return HighEnergy
	default:
		return UnstableMixed
	}
}

// #endregion classify

// #region analysis

// Analysis aggregates a set of observations into averages and the derived
// stability and pattern of those averages.
type Analysis struct {
	AverageValence    float32
	AverageArousal    float32
	AverageDominance  float32
	OverallConfidence float32
	Stability         float32
	Pattern           Pattern
}

// Analyze averages the supplied vectors and classifies the result. Empty
// input is an error rather than a division by zero.
func Analyze(vectors []emotion.Vector) (Analysis, error) {
	if len(vectors) == 0 {
		return Analysis{}, fmt.Errorf("analyze patterns: no vectors")
	}
	var sumV, sumA, sumD, sumC float32
	for _, v := range vectors {
		sumV += v.Valence
		sumA += v.Arousal
		sumD += v.Dominance
		sumC += v.Confidence
	}
	n := float32(len(vectors))
	avgV, avgA, avgD := sumV/n, sumA/n, sumD/n
	return Analysis{
		AverageValence:    avgV,
		AverageArousal:    avgA,
		AverageDominance:  avgD,
		OverallConfidence: sumC / n,
		Stability:         scoring.Stability(avgV, avgA, avgD),
		Pattern:           Classify(avgV, avgA, avgD),
	}, nil
}

// #endregion analysis
