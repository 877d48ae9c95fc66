package event

import "time"

// Type tags an event_log row with the transition that produced it.
type Type string

// Event types, one per ledger transition.
const (
	TypeRegistryInitialized   Type = "registry_initialized"
	TypeSessionInitialized    Type = "session_initialized"
	TypePerformanceRecorded   Type = "performance_recorded"
	TypeTrajectoryAdvanced    Type = "trajectory_advanced"
	TypeStateCompressed       Type = "state_compressed"
	TypeBridgeStatusChanged   Type = "bridge_status_changed"
	TypeReputationUpdated     Type = "reputation_updated"
	TypeCollectionInitialized Type = "collection_initialized"
	TypeAssetMinted           Type = "asset_minted"
	TypeAssetEmotionUpdated   Type = "asset_emotion_updated"
	TypeAssetTransferred      Type = "asset_transferred"
)

// #region entry
// Entry is a single row in the event_log table. Events are written after
// the record transaction commits, so the log trails the tables it describes
// rather than gating them.
type Entry struct {
	ID        int64
	Type      Type
	RecordID  string // session ID hex, asset ID, collection ID, or creator
	Actor     string
	Details   string // JSON payload, optional
	CreatedAt time.Time
}

// #endregion entry
