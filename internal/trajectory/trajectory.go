package trajectory

import (
	"math"

	"github.com/neuroemotive/emotive-core/internal/emotion"
)

// MaxHistory bounds the rolling history buffer. The oldest observation is
// evicted once the buffer would grow past this.
const MaxHistory = 100

const (
	// predictionConfidence is assigned to every trend prediction.
	predictionConfidence = 0.7
	// predictionIntervalSecs is the assumed spacing of future observations.
	predictionIntervalSecs = 60
	// neutralComplexity is returned while history is too short to measure.
	neutralComplexity = 0.5
)

// #region trajectory
// Trajectory is the rolling emotional history of one session, with its
// derived prediction and complexity.
type Trajectory struct {
	SessionID     [32]byte
	History       []emotion.Vector
	PredictedNext emotion.Vector
	Complexity    float32
	UpdateCount   uint32 // advances each call; may exceed MaxHistory
}

// Push appends v to the history, evicting the oldest entry when the buffer
// exceeds MaxHistory.
func (t *Trajectory) Push(v emotion.Vector) {
	t.History = append(t.History, v)
	if len(t.History) > MaxHistory {
		t.History = t.History[1:]
	}
}

// Advance pushes v, refreshes the prediction and complexity, and counts the
// update. This is the one mutation path for a trajectory.
func (t *Trajectory) Advance(v emotion.Vector) {
	t.Push(v)
	t.PredictedNext = PredictNext(t.History)
	t.Complexity = Complexity(t.History)
	t.UpdateCount++
}

// #endregion trajectory

// #region predict
// PredictNext extrapolates the next observation by first differences on the
// last two entries. With fewer than two entries the prediction is the zero
// vector (confidence 0), which callers treat as "insufficient history".
// Extrapolated values are deliberately not clamped back into domain.
func PredictNext(history []emotion.Vector) emotion.Vector {
	if len(history) < 2 {
		return emotion.Vector{}
	}
	last := history[len(history)-1]
	prev := history[len(history)-2]
	return emotion.Vector{
		Valence:    last.Valence + (last.Valence - prev.Valence),
		Arousal:    last.Arousal + (last.Arousal - prev.Arousal),
		Dominance:  last.Dominance + (last.Dominance - prev.Dominance),
		Confidence: predictionConfidence,
		Timestamp:  last.Timestamp + predictionIntervalSecs,
	}
}

// #endregion predict

// #region complexity
// Complexity is the mean Euclidean step distance over consecutive
// (valence, arousal, dominance) deltas, capped at 1. Returns 0.5 while
// history is too short to measure. Two histories with equal mean step
// distance score the same regardless of the step pattern.
func Complexity(history []emotion.Vector) float32 {
	if len(history) < 2 {
		return neutralComplexity
	}
	var total float32
	for i := 1; i < len(history); i++ {
		dv := history[i].Valence - history[i-1].Valence
		da := history[i].Arousal - history[i-1].Arousal
		dd := history[i].Dominance - history[i-1].Dominance
		total += float32(math.Sqrt(float64(dv*dv + da*da + dd*dd)))
	}
	c := total / float32(len(history)-1)
	if c > 1 {
		c = 1
	}
	return c
}

// #endregion complexity
