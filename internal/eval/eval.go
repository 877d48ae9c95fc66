// Package eval runs lightweight validation on records after a transition
// and before the store write. The transitions already enforce their own
// input domains; the harness catches derived values drifting out of range,
// which would mean a scoring bug rather than bad input.
package eval

import (
	"fmt"

	"github.com/neuroemotive/emotive-core/internal/reputation"
	"github.com/neuroemotive/emotive-core/internal/session"
	"github.com/neuroemotive/emotive-core/internal/trajectory"
)

// #region harness
// Harness validates transition outputs against configured bounds.
type Harness struct {
	config Config
}

// NewHarness creates a harness with the given configuration.
func NewHarness(config Config) *Harness {
	return &Harness{config: config}
}

// #endregion harness

// #region check-session
// CheckSession validates a session's derived scores.
func (h *Harness) CheckSession(s session.Session) Result {
	checks := []Metric{
		unitMetric("reputation", s.Reputation),
		unitMetric("complexity", s.Complexity),
		unitMetric("creativity_index", s.CreativityIndex),
		unitMetric("vector_confidence", s.Vector.Confidence),
	}
	return fold(checks)
}

// #endregion check-session

// #region check-reputation
// CheckReputation validates a creator record's derived scores. Consistency
// has a floor as well as a ceiling: any record with at least one applied
// session sits in [MinConsistency, 1].
func (h *Harness) CheckReputation(rec reputation.Record) Result {
	checks := []Metric{
		unitMetric("score", rec.Score),
		unitMetric("creativity_score", rec.CreativityScore),
	}
	consistency := Metric{Name: "consistency", Value: rec.Consistency}
	consistency.Pass = rec.Consistency >= h.config.MinConsistency && rec.Consistency <= 1
	if rec.TotalSessions == 0 {
		// Fresh records are all-zero and have nothing to hold yet.
		consistency.Pass = rec.Consistency == 0
	}
	checks = append(checks, consistency)
	return fold(checks)
}

// #endregion check-reputation

// #region check-trajectory
// CheckTrajectory validates a trajectory's buffer bound and derived scores.
func (h *Harness) CheckTrajectory(tr trajectory.Trajectory) Result {
	length := Metric{Name: "history_length", Value: float32(len(tr.History))}
	length.Pass = len(tr.History) <= h.config.MaxHistory
	checks := []Metric{
		length,
		unitMetric("complexity", tr.Complexity),
		unitMetric("prediction_confidence", tr.PredictedNext.Confidence),
	}
	return fold(checks)
}

// #endregion check-trajectory

// #region helpers
// unitMetric checks a value against the unit interval. NaN fails because
// the comparisons do.
func unitMetric(name string, value float32) Metric {
	return Metric{
		Name:  name,
		Value: value,
		Pass:  value >= 0 && value <= 1,
	}
}

func fold(checks []Metric) Result {
	passed := true
	var failReasons []string
	for _, m := range checks {
		if !m.Pass {
			passed = false
			failReasons = append(failReasons, fmt.Sprintf("%s %.4f out of bounds", m.Name, m.Value))
		}
	}

	reason := "all checks passed"
	if !passed {
		reason = fmt.Sprintf("eval failed: %s", failReasons[0])
		if len(failReasons) > 1 {
			reason = fmt.Sprintf("eval failed: %d checks: %s", len(failReasons), failReasons[0])
		}
	}

	return Result{Passed: passed, Metrics: checks, Reason: reason}
}

// #endregion helpers
