package replay

import (
	"reflect"
	"testing"

	"github.com/neuroemotive/emotive-core/internal/emotion"
	"github.com/neuroemotive/emotive-core/internal/scoring"
	"github.com/neuroemotive/emotive-core/internal/session"
)

// helper: deterministic 32-byte session ID.
func replayID(seed byte) [32]byte {
	var id [32]byte
	for i := range id {
		id[i] = seed
	}
	return id
}

// helper: session started through the real transition.
func startSession(t *testing.T) session.Session {
	t.Helper()
	sess, err := session.Initialize("maya", replayID(0xAB),
		emotion.Vector{Valence: 0.5, Arousal: 0.3, Dominance: 0.6, Confidence: 0.9, Timestamp: 1000},
		[]float32{0.2, 0.4}, 1000)
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return sess
}

// helper: turn with a valid observation.
func commitTurn(ts int64, quality float32) Turn {
	return Turn{
		Timestamp: ts,
		Observation: session.Observation{
			Vector:    emotion.Vector{Valence: 0.7, Arousal: 0.4, Dominance: 0.5, Confidence: 0.9, Timestamp: ts},
			Params:    []float32{0.8, 0.2},
			Intensity: 0.6,
			Quality:   quality,
		},
	}
}

// 1. Full commit path: valid observation → action="commit", state advances.
func TestReplay_FullCommitPath(t *testing.T) {
	start := startSession(t)
	turn := commitTurn(2000, 0.8)

	results := Replay(start, []Turn{turn}, DefaultConfig())

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.Action != "commit" {
		t.Fatalf("expected action=commit, got %s (%s)", r.Action, r.Reason)
	}
	if r.Session.InteractionCount != 1 {
		t.Errorf("expected 1 interaction, got %d", r.Session.InteractionCount)
	}
	if r.Session.Vector != turn.Observation.Vector {
		t.Errorf("expected vector to follow the observation, got %+v", r.Session.Vector)
	}
	if len(r.Trajectory.History) != 1 {
		t.Errorf("expected history length 1, got %d", len(r.Trajectory.History))
	}
	if want := scoring.Impact(turn.Observation.Vector, start.Vector); r.Performance.Impact != want {
		t.Errorf("expected impact %f, got %f", want, r.Performance.Impact)
	}
	if want := scoring.ReputationStep(start.Reputation, 0.8); r.Session.Reputation != want {
		t.Errorf("expected reputation %f, got %f", want, r.Session.Reputation)
	}
	if r.Eval == nil || !r.Eval.Passed {
		t.Errorf("expected passing eval, got %+v", r.Eval)
	}
}

// 2. Transition rejection: out-of-range quality → action="reject", state
// unchanged, eval never runs.
func TestReplay_TransitionReject(t *testing.T) {
	start := startSession(t)
	turn := commitTurn(2000, 1.5)

	results := Replay(start, []Turn{turn}, DefaultConfig())

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.Action != "reject" {
		t.Fatalf("expected action=reject, got %s", r.Action)
	}
	if r.Reason == "" {
		t.Error("expected a reject reason")
	}
	if !reflect.DeepEqual(r.Session, start) {
		t.Error("expected state unchanged after rejection")
	}
	if len(r.Trajectory.History) != 0 {
		t.Errorf("expected empty history, got %d", len(r.Trajectory.History))
	}
	if r.Eval != nil {
		t.Error("expected Eval=nil after transition rejection")
	}
}

// 3. Eval rollback: tightened history bound → action="eval_rollback" once
// the trajectory outgrows it, state pinned at the last commit.
func TestReplay_EvalRollback(t *testing.T) {
	start := startSession(t)
	turns := []Turn{
		commitTurn(2000, 0.8),
		commitTurn(2060, 0.8),
		commitTurn(2120, 0.8),
	}
	config := DefaultConfig()
	config.Eval.MaxHistory = 2

	results := Replay(start, turns, config)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range []string{"commit", "commit", "eval_rollback"} {
		if results[i].Action != want {
			t.Errorf("turn %d: expected %s, got %s (%s)", i, want, results[i].Action, results[i].Reason)
		}
	}
	r := results[2]
	if r.Eval == nil {
		t.Fatal("expected Eval to be populated")
	}
	if r.Eval.Passed {
		t.Error("expected Eval.Passed=false")
	}
	if r.Session.InteractionCount != 2 {
		t.Errorf("expected state pinned at 2 interactions, got %d", r.Session.InteractionCount)
	}
	if len(r.Trajectory.History) != 2 {
		t.Errorf("expected history pinned at 2, got %d", len(r.Trajectory.History))
	}
}

// 4. Multi-turn progression: committed turns accumulate, rejected turns
// leave the running state exactly where it was.
func TestReplay_MultiTurn(t *testing.T) {
	start := startSession(t)
	turns := []Turn{
		commitTurn(2000, 0.8),
		commitTurn(2060, 1.5), // reject
		commitTurn(2120, 0.6),
	}

	results := Replay(start, turns, DefaultConfig())

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range []string{"commit", "reject", "commit"} {
		if results[i].Action != want {
			t.Errorf("turn %d: expected %s, got %s", i, want, results[i].Action)
		}
	}

	counts := []uint32{1, 1, 2}
	for i, want := range counts {
		if results[i].Session.InteractionCount != want {
			t.Errorf("turn %d: expected %d interactions, got %d", i, want, results[i].Session.InteractionCount)
		}
	}

	// The reputation trace skips the rejected turn.
	rep := scoring.ReputationStep(start.Reputation, 0.8)
	if results[1].Session.Reputation != rep {
		t.Errorf("turn 1: expected reputation %f, got %f", rep, results[1].Session.Reputation)
	}
	rep = scoring.ReputationStep(rep, 0.6)
	if results[2].Session.Reputation != rep {
		t.Errorf("turn 2: expected reputation %f, got %f", rep, results[2].Session.Reputation)
	}

	if results[2].Trajectory.UpdateCount != 2 {
		t.Errorf("expected 2 trajectory updates, got %d", results[2].Trajectory.UpdateCount)
	}
}

// 5. Summarize: counts match result actions and the final state follows the
// last result.
func TestReplay_Summarize(t *testing.T) {
	start := startSession(t)
	turns := []Turn{
		commitTurn(2000, 0.8),
		commitTurn(2060, 1.5), // reject
		commitTurn(2120, 0.7),
		commitTurn(2180, 0.7), // third advance outgrows the tightened bound
	}
	config := DefaultConfig()
	config.Eval.MaxHistory = 2

	results := Replay(start, turns, config)
	summary := Summarize(start, results)

	if summary.TotalTurns != 4 {
		t.Errorf("expected TotalTurns=4, got %d", summary.TotalTurns)
	}
	if summary.Commits != 2 {
		t.Errorf("expected Commits=2, got %d", summary.Commits)
	}
	if summary.Rejects != 1 {
		t.Errorf("expected Rejects=1, got %d", summary.Rejects)
	}
	if summary.EvalRollbacks != 1 {
		t.Errorf("expected EvalRollbacks=1, got %d", summary.EvalRollbacks)
	}
	if summary.FinalSession.InteractionCount != 2 {
		t.Errorf("expected final state at 2 interactions, got %d", summary.FinalSession.InteractionCount)
	}

	empty := Summarize(start, nil)
	if !reflect.DeepEqual(empty.FinalSession, start) {
		t.Error("expected empty summary to return the start state")
	}
}

// 6. Deterministic: same inputs → same outputs.
func TestReplay_Deterministic(t *testing.T) {
	start := startSession(t)
	turns := []Turn{
		commitTurn(2000, 0.8),
		commitTurn(2060, 0.9),
	}

	results1 := Replay(start, turns, DefaultConfig())
	results2 := Replay(start, turns, DefaultConfig())

	if len(results1) != len(results2) {
		t.Fatalf("result lengths differ: %d vs %d", len(results1), len(results2))
	}
	for i := range results1 {
		if results1[i].Action != results2[i].Action {
			t.Errorf("turn %d: action differs: %s vs %s", i, results1[i].Action, results2[i].Action)
		}
		if results1[i].Performance.Impact != results2[i].Performance.Impact {
			t.Errorf("turn %d: impact differs: %f vs %f", i, results1[i].Performance.Impact, results2[i].Performance.Impact)
		}
		if results1[i].Session.Reputation != results2[i].Session.Reputation {
			t.Errorf("turn %d: reputation differs: %f vs %f", i, results1[i].Session.Reputation, results2[i].Session.Reputation)
		}
	}
}
