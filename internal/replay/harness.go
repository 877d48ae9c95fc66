// Package replay re-runs recorded observation sequences through the real
// session transitions, entirely in memory. It is the offline counterpart of
// the engine: same math, no store, no authorization.
package replay

import (
	"github.com/neuroemotive/emotive-core/internal/eval"
	"github.com/neuroemotive/emotive-core/internal/session"
	"github.com/neuroemotive/emotive-core/internal/trajectory"
)

// #region types

// Turn is a single recorded observation for replay.
type Turn struct {
	Timestamp   int64
	Observation session.Observation
}

// Config bundles the validation bounds for a replay run.
type Config struct {
	Eval eval.Config
}

// DefaultConfig returns the same bounds the live engine enforces.
func DefaultConfig() Config {
	return Config{Eval: eval.DefaultConfig()}
}

// Result captures the outcome of replaying one turn through the pipeline.
type Result struct {
	Turn   int
	Action string // "commit" | "reject" | "eval_rollback"
	Reason string

	// Performance is the derived row; zero when the transition rejected.
	Performance session.PerformanceRecord

	// Eval is nil when the transition rejected before validation ran.
	Eval *eval.Result

	// State after this turn. Equal to the previous turn's state unless the
	// turn committed.
	Session    session.Session
	Trajectory trajectory.Trajectory
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	TotalTurns    int
	Commits       int
	Rejects       int
	EvalRollbacks int

	FinalSession    session.Session
	FinalTrajectory trajectory.Trajectory
}

// #endregion types

// #region replay

// Replay applies turns to start in order: observe, advance the trajectory,
// validate, then commit or discard. A failed turn leaves the running state
// untouched, exactly as the engine leaves the store untouched.
func Replay(start session.Session, turns []Turn, config Config) []Result {
	current := start
	tr := trajectory.Trajectory{SessionID: start.SessionID}
	results := make([]Result, 0, len(turns))

	checks := eval.NewHarness(config.Eval)

	for i, turn := range turns {
		obs, err := session.RecordObservation(current, turn.Observation, turn.Timestamp)
		if err != nil {
			results = append(results, Result{
				Turn:       i,
				Action:     "reject",
				Reason:     err.Error(),
				Session:    current,
				Trajectory: tr,
			})
			continue
		}

		advSess, advTr, err := session.AdvanceTrajectory(obs.Session, tr, turn.Observation.Vector)
		if err != nil {
			results = append(results, Result{
				Turn:        i,
				Action:      "reject",
				Reason:      err.Error(),
				Performance: obs.Performance,
				Session:     current,
				Trajectory:  tr,
			})
			continue
		}

		evalResult := checks.CheckSession(advSess)
		if evalResult.Passed {
			evalResult = checks.CheckTrajectory(advTr)
		}
		if !evalResult.Passed {
			results = append(results, Result{
				Turn:        i,
				Action:      "eval_rollback",
				Reason:      evalResult.Reason,
				Performance: obs.Performance,
				Eval:        &evalResult,
				Session:     current,
				Trajectory:  tr,
			})
			continue
		}

		current = advSess
		tr = advTr
		results = append(results, Result{
			Turn:        i,
			Action:      "commit",
			Reason:      evalResult.Reason,
			Performance: obs.Performance,
			Eval:        &evalResult,
			Session:     current,
			Trajectory:  tr,
		})
	}

	return results
}

// Summarize computes aggregate stats from replay results. With no results
// the final state is the start state.
func Summarize(start session.Session, results []Result) Summary {
	s := Summary{
		TotalTurns:      len(results),
		FinalSession:    start,
		FinalTrajectory: trajectory.Trajectory{SessionID: start.SessionID},
	}
	for _, r := range results {
		switch r.Action {
		case "commit":
			s.Commits++
		case "reject":
			s.Rejects++
		case "eval_rollback":
			s.EvalRollbacks++
		}
	}
	if len(results) > 0 {
		last := results[len(results)-1]
		s.FinalSession = last.Session
		s.FinalTrajectory = last.Trajectory
	}
	return s
}

// #endregion replay
