package session

import (
	"fmt"

	"github.com/neuroemotive/emotive-core/internal/emotion"
	"github.com/neuroemotive/emotive-core/internal/scoring"
	"github.com/neuroemotive/emotive-core/internal/trajectory"
)

// neutralScore seeds reputation, complexity, and creativity on a new session.
const neutralScore = 0.5

// #region initialize
// Initialize builds an Active session with neutral derived scores and the
// content digest of the initial vector.
func Initialize(creator string, id [32]byte, initial emotion.Vector, params []float32, now int64) (Session, error) {
	if creator == "" {
		return Session{}, fmt.Errorf("initialize session: creator required")
	}
	if err := initial.Validate(); err != nil {
		return Session{}, fmt.Errorf("initialize session: %w", err)
	}
	if err := scoring.ValidateParams(params); err != nil {
		return Session{}, fmt.Errorf("initialize session: %w", err)
	}
	return Session{
		Creator:          creator,
		SessionID:        id,
		StartTime:        now,
		Vector:           initial,
		Params:           cloneParams(params),
		InteractionCount: 0,
		CompressedState:  emotion.Digest(initial),
		Reputation:       neutralScore,
		Complexity:       neutralScore,
		CreativityIndex:  neutralScore,
		LastUpdated:      now,
	}, nil
}

// #endregion initialize

// #region record-observation
// RecordObservation applies one observation to s and derives its performance
// row. Impact is measured against the session's previous vector, so the
// scores are computed before the vector is overwritten. Pure: the input
// session is not mutated.
func RecordObservation(s Session, obs Observation, now int64) (ObservationResult, error) {
	if err := obs.Vector.Validate(); err != nil {
		return ObservationResult{}, fmt.Errorf("record observation: %w", err)
	}
	if err := scoring.ValidateParams(obs.Params); err != nil {
		return ObservationResult{}, fmt.Errorf("record observation: %w", err)
	}
	if err := emotion.CheckUnit("intensity", obs.Intensity); err != nil {
		return ObservationResult{}, fmt.Errorf("record observation: %w", err)
	}
	if err := emotion.CheckUnit("quality", obs.Quality); err != nil {
		return ObservationResult{}, fmt.Errorf("record observation: %w", err)
	}

	impact := scoring.Impact(obs.Vector, s.Vector)
	boost, err := scoring.CreativityBoost(obs.Params, obs.Quality)
	if err != nil {
		return ObservationResult{}, fmt.Errorf("record observation: %w", err)
	}

	perf := PerformanceRecord{
		SessionID: s.SessionID,
		Timestamp: now,
		Vector:    obs.Vector,
		Params:    cloneParams(obs.Params),
		Intensity: obs.Intensity,
		Impact:    impact,
		Boost:     boost,
		Quality:   obs.Quality,
	}

	s.Vector = obs.Vector
	s.Params = cloneParams(obs.Params)
	s.InteractionCount++
	s.Reputation = scoring.ReputationStep(s.Reputation, obs.Quality)
	s.LastUpdated = now

	return ObservationResult{Session: s, Performance: perf}, nil
}

// #endregion record-observation

// #region advance-trajectory
// AdvanceTrajectory pushes the session's prior vector into the trajectory,
// refreshes prediction and complexity, then installs next as the current
// vector. The prior vector is the one recorded in history; next enters
// history on the following advance.
func AdvanceTrajectory(s Session, tr trajectory.Trajectory, next emotion.Vector) (Session, trajectory.Trajectory, error) {
	if err := next.Validate(); err != nil {
		return Session{}, trajectory.Trajectory{}, fmt.Errorf("advance trajectory: %w", err)
	}
	tr.History = cloneHistory(tr.History)
	tr.Advance(s.Vector)

	s.Vector = next
	s.Complexity = tr.Complexity
	return s, tr, nil
}

// #endregion advance-trajectory

// #region recompute-digest
// RecomputeDigest refreshes the compressed state from the current vector.
// Idempotent; the only other writer of CompressedState is Initialize.
func RecomputeDigest(s Session) Session {
	s.CompressedState = emotion.Digest(s.Vector)
	return s
}

// #endregion recompute-digest

// #region bridge
// SetBridgeStatus overwrites the session's bridge bookkeeping.
func SetBridgeStatus(s Session, info BridgeInfo, now int64) (Session, error) {
	if info.Status > BridgeFailed {
		return Session{}, fmt.Errorf("set bridge status: unknown status %d", info.Status)
	}
	s.Bridge = info
	s.LastUpdated = now
	return s, nil
}

// #endregion bridge

// #region helpers
// cloneParams copies a parameter slice so callers cannot alias session state.
func cloneParams(params []float32) []float32 {
	if params == nil {
		return nil
	}
	out := make([]float32, len(params))
	copy(out, params)
	return out
}

// cloneHistory copies a history slice so transition results never share
// backing arrays with their inputs.
func cloneHistory(history []emotion.Vector) []emotion.Vector {
	if history == nil {
		return nil
	}
	out := make([]emotion.Vector, len(history))
	copy(out, history)
	return out
}

// #endregion helpers
