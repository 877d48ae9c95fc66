package session

import "github.com/neuroemotive/emotive-core/internal/emotion"

// #region bridge-info
// BridgeInfo carries cross-chain bookkeeping for a session. Plain record
// state: SetBridgeStatus overwrites it, nothing here speaks to a bridge.
type BridgeInfo struct {
	TargetChain    string
	TargetContract string
	Status         uint8 // 0 = pending, 1 = bridged, 2 = failed
	BridgeTime     int64
	EmotionalHash  [32]byte
}

// Bridge status values.
const (
	BridgePending uint8 = 0
	BridgeDone    uint8 = 1
	BridgeFailed  uint8 = 2
)

// #endregion bridge-info

// #region session
// Session is a per-creator creative session record. All fields are advanced
// by the pure transitions in this package; persistence and ownership checks
// live with the engine.
type Session struct {
	Creator          string
	SessionID        [32]byte
	StartTime        int64
	Vector           emotion.Vector
	Params           []float32
	InteractionCount uint32
	// CompressedState is the content digest of a recorded vector. Refreshed
	// only by Initialize and RecomputeDigest, so it lags Vector between
	// explicit recomputes.
	CompressedState     [32]byte
	Bridge              BridgeInfo
	Reputation          float32 // [0, 1], starts neutral
	Complexity          float32 // [0, 1], mirrors the trajectory
	CreativityIndex     float32 // [0, 1]
	CommunityEngagement uint32
	LastUpdated         int64
	Revision            int64 // store concurrency token, not domain state
}

// #endregion session

// #region observation
// Observation is one emotional-state reading with its quality context.
type Observation struct {
	Vector    emotion.Vector
	Params    []float32
	Intensity float32 // [0, 1]
	Quality   float32 // [0, 1]
}

// PerformanceRecord is the append-only per-observation row derived by
// RecordObservation.
type PerformanceRecord struct {
	SessionID [32]byte
	Timestamp int64
	Vector    emotion.Vector
	Params    []float32
	Intensity float32
	Impact    float32
	Boost     float32
	Quality   float32
}

// ObservationResult bundles the advanced session with the performance row
// it produced. Both persist together or not at all.
type ObservationResult struct {
	Session     Session
	Performance PerformanceRecord
}

// #endregion observation
