// Package engine coordinates the emotive ledger: it loads records, runs the
// pure transitions, validates the outputs, and persists the results. All
// authorization happens here; the transitions below it never see callers and
// the store below it never sees rules.
package engine

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/neuroemotive/emotive-core/internal/asset"
	"github.com/neuroemotive/emotive-core/internal/emotion"
	"github.com/neuroemotive/emotive-core/internal/eval"
	"github.com/neuroemotive/emotive-core/internal/event"
	"github.com/neuroemotive/emotive-core/internal/gate"
	"github.com/neuroemotive/emotive-core/internal/reputation"
	"github.com/neuroemotive/emotive-core/internal/session"
	"github.com/neuroemotive/emotive-core/internal/store"
	"github.com/neuroemotive/emotive-core/internal/trajectory"
)

// ErrUnauthorized reports a caller acting on a record it does not own.
// Matched with errors.Is.
var ErrUnauthorized = errors.New("caller not authorized for record")

// #region config
// Config bundles the policy knobs the engine enforces.
type Config struct {
	Gate  gate.GateConfig
	Asset asset.Policy
}

// DefaultConfig returns the standard transfer ceiling and mint policy.
func DefaultConfig() Config {
	return Config{
		Gate:  gate.DefaultGateConfig(),
		Asset: asset.DefaultPolicy(),
	}
}

// #endregion config

// #region engine-struct
// Engine is the top-level coordinator for ledger transitions.
type Engine struct {
	store  *store.Store
	gate   *gate.Gate
	policy asset.Policy
	checks *eval.Harness
	log    *zap.Logger
	now    func() int64 // unix seconds; swapped out in tests
}

// New creates a fully wired engine. A nil logger disables logging.
func New(st *store.Store, cfg Config, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		store:  st,
		gate:   gate.NewGate(cfg.Gate),
		policy: cfg.Asset,
		checks: eval.NewHarness(eval.DefaultConfig()),
		log:    log,
		now:    func() int64 { return time.Now().Unix() },
	}
}

// Store exposes the underlying record store for read-side tooling.
func (e *Engine) Store() *store.Store {
	return e.store
}

// #endregion engine-struct

// #region session-ops
// InitializeSession creates a session and its empty trajectory for creator.
func (e *Engine) InitializeSession(creator string, id [32]byte, initial emotion.Vector, params []float32) (session.Session, error) {
	sess, err := session.Initialize(creator, id, initial, params, e.now())
	if err != nil {
		return session.Session{}, err
	}
	if res := e.checks.CheckSession(sess); !res.Passed {
		return session.Session{}, fmt.Errorf("initialize session: %s", res.Reason)
	}

	saved, err := e.store.CreateSession(sess, trajectory.Trajectory{SessionID: id})
	if err != nil {
		return session.Session{}, err
	}

	e.appendEvent(event.Entry{
		Type:     event.TypeSessionInitialized,
		RecordID: hexID(id),
		Actor:    creator,
	})
	e.log.Info("session initialized",
		zap.String("session", hexID(id)),
		zap.String("creator", creator))
	return saved, nil
}

// GetSession loads a session by ID.
func (e *Engine) GetSession(id [32]byte) (session.Session, error) {
	return e.store.GetSession(id)
}

// GetTrajectory loads a session's trajectory.
func (e *Engine) GetTrajectory(id [32]byte) (trajectory.Trajectory, error) {
	return e.store.GetTrajectory(id)
}

// RecordPerformance applies one observation to the caller's session and
// appends the derived performance row.
func (e *Engine) RecordPerformance(caller string, id [32]byte, obs session.Observation) (session.Session, session.PerformanceRecord, error) {
	sess, err := e.loadOwned(caller, id)
	if err != nil {
		return session.Session{}, session.PerformanceRecord{}, err
	}

	res, err := session.RecordObservation(sess, obs, e.now())
	if err != nil {
		return session.Session{}, session.PerformanceRecord{}, err
	}
	if check := e.checks.CheckSession(res.Session); !check.Passed {
		return session.Session{}, session.PerformanceRecord{}, fmt.Errorf("record performance: %s", check.Reason)
	}

	saved, err := e.store.SaveObservation(res.Session, uuid.New().String(), res.Performance)
	if err != nil {
		return session.Session{}, session.PerformanceRecord{}, err
	}

	e.appendEvent(event.Entry{
		Type:     event.TypePerformanceRecorded,
		RecordID: hexID(id),
		Actor:    caller,
		Details: detailsJSON(map[string]interface{}{
			"impact":  res.Performance.Impact,
			"boost":   res.Performance.Boost,
			"quality": res.Performance.Quality,
		}),
	})
	e.log.Info("performance recorded",
		zap.String("session", hexID(id)),
		zap.Float32("impact", res.Performance.Impact),
		zap.Float32("boost", res.Performance.Boost),
		zap.Uint32("interactions", saved.InteractionCount))
	return saved, res.Performance, nil
}

// AdvanceTrajectory pushes the session's current vector into its history and
// installs next, refreshing prediction and complexity.
func (e *Engine) AdvanceTrajectory(caller string, id [32]byte, next emotion.Vector) (session.Session, trajectory.Trajectory, error) {
	sess, err := e.loadOwned(caller, id)
	if err != nil {
		return session.Session{}, trajectory.Trajectory{}, err
	}
	tr, err := e.store.GetTrajectory(id)
	if err != nil {
		return session.Session{}, trajectory.Trajectory{}, err
	}

	advSess, advTr, err := session.AdvanceTrajectory(sess, tr, next)
	if err != nil {
		return session.Session{}, trajectory.Trajectory{}, err
	}
	if check := e.checks.CheckTrajectory(advTr); !check.Passed {
		return session.Session{}, trajectory.Trajectory{}, fmt.Errorf("advance trajectory: %s", check.Reason)
	}

	saved, err := e.store.SaveTrajectoryAdvance(advSess, advTr)
	if err != nil {
		return session.Session{}, trajectory.Trajectory{}, err
	}

	e.appendEvent(event.Entry{
		Type:     event.TypeTrajectoryAdvanced,
		RecordID: hexID(id),
		Actor:    caller,
		Details: detailsJSON(map[string]interface{}{
			"history_length": len(advTr.History),
			"complexity":     advTr.Complexity,
		}),
	})
	e.log.Info("trajectory advanced",
		zap.String("session", hexID(id)),
		zap.Int("history", len(advTr.History)),
		zap.Float32("complexity", advTr.Complexity))
	return saved, advTr, nil
}

// CompressState refreshes the session's content digest from its current
// vector. Between calls the digest deliberately lags the vector.
func (e *Engine) CompressState(caller string, id [32]byte) (session.Session, error) {
	sess, err := e.loadOwned(caller, id)
	if err != nil {
		return session.Session{}, err
	}

	saved, err := e.store.SaveSession(session.RecomputeDigest(sess))
	if err != nil {
		return session.Session{}, err
	}

	e.appendEvent(event.Entry{
		Type:     event.TypeStateCompressed,
		RecordID: hexID(id),
		Actor:    caller,
		Details:  detailsJSON(map[string]interface{}{"digest": hexID(saved.CompressedState)}),
	})
	e.log.Info("state compressed",
		zap.String("session", hexID(id)),
		zap.String("digest", hexID(saved.CompressedState)[:16]))
	return saved, nil
}

// SetBridgeStatus overwrites the session's cross-chain bookkeeping.
func (e *Engine) SetBridgeStatus(caller string, id [32]byte, info session.BridgeInfo) (session.Session, error) {
	sess, err := e.loadOwned(caller, id)
	if err != nil {
		return session.Session{}, err
	}

	next, err := session.SetBridgeStatus(sess, info, e.now())
	if err != nil {
		return session.Session{}, err
	}
	saved, err := e.store.SaveSession(next)
	if err != nil {
		return session.Session{}, err
	}

	e.appendEvent(event.Entry{
		Type:     event.TypeBridgeStatusChanged,
		RecordID: hexID(id),
		Actor:    caller,
		Details: detailsJSON(map[string]interface{}{
			"target_chain": info.TargetChain,
			"status":       info.Status,
		}),
	})
	e.log.Info("bridge status changed",
		zap.String("session", hexID(id)),
		zap.String("chain", info.TargetChain),
		zap.Uint8("status", info.Status))
	return saved, nil
}

// #endregion session-ops

// #region reputation-ops
// GetReputation loads a creator's reputation record.
func (e *Engine) GetReputation(creator string) (reputation.Record, error) {
	return e.store.GetReputation(creator)
}

// UpdateReputation folds the session's outcome into the caller's creator
// record, creating it on first use, and refreshes community ranks.
func (e *Engine) UpdateReputation(caller string, id [32]byte, performance float32) (reputation.Record, error) {
	sess, err := e.loadOwned(caller, id)
	if err != nil {
		return reputation.Record{}, err
	}

	rec, err := e.store.GetReputation(caller)
	if errors.Is(err, store.ErrNotFound) {
		rec = reputation.NewRecord(caller)
	} else if err != nil {
		return reputation.Record{}, err
	}

	updated, err := reputation.ApplySession(rec, sess.InteractionCount, sess.CreativityIndex, performance, e.now())
	if err != nil {
		return reputation.Record{}, err
	}
	if check := e.checks.CheckReputation(updated); !check.Passed {
		return reputation.Record{}, fmt.Errorf("update reputation: %s", check.Reason)
	}

	saved, err := e.store.SaveReputation(updated)
	if err != nil {
		return reputation.Record{}, err
	}

	e.appendEvent(event.Entry{
		Type:     event.TypeReputationUpdated,
		RecordID: caller,
		Actor:    caller,
		Details: detailsJSON(map[string]interface{}{
			"score": saved.Score,
			"rank":  saved.CommunityRank,
		}),
	})
	e.log.Info("reputation updated",
		zap.String("creator", caller),
		zap.Float32("score", saved.Score),
		zap.Uint32("rank", saved.CommunityRank))
	return saved, nil
}

// #endregion reputation-ops

// #region helpers
// loadOwned loads a session and asserts the caller created it.
func (e *Engine) loadOwned(caller string, id [32]byte) (session.Session, error) {
	sess, err := e.store.GetSession(id)
	if err != nil {
		return session.Session{}, err
	}
	if sess.Creator != caller {
		return session.Session{}, fmt.Errorf("session %x owned by %s: %w", id[:4], sess.Creator, ErrUnauthorized)
	}
	return sess, nil
}

// appendEvent writes to the event log after the record commit; a failed
// append is logged and swallowed rather than unwinding the transition.
func (e *Engine) appendEvent(entry event.Entry) {
	if err := event.Append(e.store.DB(), entry); err != nil {
		e.log.Warn("event append failed",
			zap.String("type", string(entry.Type)),
			zap.Error(err))
	}
}

func detailsJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func hexID(id [32]byte) string {
	return hex.EncodeToString(id[:])
}

// #endregion helpers
