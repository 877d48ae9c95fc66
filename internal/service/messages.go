package service

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/neuroemotive/emotive-core/internal/asset"
	"github.com/neuroemotive/emotive-core/internal/emotion"
	"github.com/neuroemotive/emotive-core/internal/pattern"
	"github.com/neuroemotive/emotive-core/internal/reputation"
	"github.com/neuroemotive/emotive-core/internal/session"
	"github.com/neuroemotive/emotive-core/internal/trajectory"
)

// RPC messages hold domain values directly; there is no generated struct
// layer in between. Requests flatten their arguments, replies wrap whole
// records.

// #region session-requests

// initializeSessionRequest: 1 caller (string); 2 session_id (32 bytes);
// 3 initial (vector message); 4 params (packed float).
type initializeSessionRequest struct {
	Caller    string
	SessionID [32]byte
	Initial   emotion.Vector
	Params    []float32
}

func (m *initializeSessionRequest) marshal(b []byte) []byte {
	b = appendStringField(b, 1, m.Caller)
	b = appendBytesField(b, 2, m.SessionID[:])
	b = appendBytesField(b, 3, appendVector(nil, m.Initial))
	b = appendFloatsField(b, 4, m.Params)
	return b
}

func (m *initializeSessionRequest) unmarshal(buf []byte) error {
	return walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeString(b, typ)
			m.Caller = v
			return n, err
		case 2:
			v, n, err := consumeHash32(b, typ)
			m.SessionID = v
			return n, err
		case 3:
			raw, n, err := consumeBytes(b, typ)
			if err != nil {
				return 0, err
			}
			if m.Initial, err = decodeVector(raw); err != nil {
				return 0, err
			}
			return n, nil
		case 4:
			v, n, err := consumeFloats(b, typ)
			m.Params = v
			return n, err
		}
		return 0, nil
	})
}

// recordPerformanceRequest: 1 caller (string); 2 session_id (32 bytes);
// 3 observation (message).
type recordPerformanceRequest struct {
	Caller      string
	SessionID   [32]byte
	Observation session.Observation
}

func (m *recordPerformanceRequest) marshal(b []byte) []byte {
	b = appendStringField(b, 1, m.Caller)
	b = appendBytesField(b, 2, m.SessionID[:])
	b = appendBytesField(b, 3, appendObservation(nil, m.Observation))
	return b
}

func (m *recordPerformanceRequest) unmarshal(buf []byte) error {
	return walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeString(b, typ)
			m.Caller = v
			return n, err
		case 2:
			v, n, err := consumeHash32(b, typ)
			m.SessionID = v
			return n, err
		case 3:
			raw, n, err := consumeBytes(b, typ)
			if err != nil {
				return 0, err
			}
			if m.Observation, err = decodeObservation(raw); err != nil {
				return 0, err
			}
			return n, nil
		}
		return 0, nil
	})
}

// advanceTrajectoryRequest: 1 caller (string); 2 session_id (32 bytes);
// 3 next (vector message).
type advanceTrajectoryRequest struct {
	Caller    string
	SessionID [32]byte
	Next      emotion.Vector
}

func (m *advanceTrajectoryRequest) marshal(b []byte) []byte {
	b = appendStringField(b, 1, m.Caller)
	b = appendBytesField(b, 2, m.SessionID[:])
	b = appendBytesField(b, 3, appendVector(nil, m.Next))
	return b
}

func (m *advanceTrajectoryRequest) unmarshal(buf []byte) error {
	return walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeString(b, typ)
			m.Caller = v
			return n, err
		case 2:
			v, n, err := consumeHash32(b, typ)
			m.SessionID = v
			return n, err
		case 3:
			raw, n, err := consumeBytes(b, typ)
			if err != nil {
				return 0, err
			}
			if m.Next, err = decodeVector(raw); err != nil {
				return 0, err
			}
			return n, nil
		}
		return 0, nil
	})
}

// compressStateRequest: 1 caller (string); 2 session_id (32 bytes).
type compressStateRequest struct {
	Caller    string
	SessionID [32]byte
}

func (m *compressStateRequest) marshal(b []byte) []byte {
	b = appendStringField(b, 1, m.Caller)
	b = appendBytesField(b, 2, m.SessionID[:])
	return b
}

func (m *compressStateRequest) unmarshal(buf []byte) error {
	return walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeString(b, typ)
			m.Caller = v
			return n, err
		case 2:
			v, n, err := consumeHash32(b, typ)
			m.SessionID = v
			return n, err
		}
		return 0, nil
	})
}

// setBridgeStatusRequest: 1 caller (string); 2 session_id (32 bytes);
// 3 bridge (message).
type setBridgeStatusRequest struct {
	Caller    string
	SessionID [32]byte
	Bridge    session.BridgeInfo
}

func (m *setBridgeStatusRequest) marshal(b []byte) []byte {
	b = appendStringField(b, 1, m.Caller)
	b = appendBytesField(b, 2, m.SessionID[:])
	b = appendBytesField(b, 3, appendBridge(nil, m.Bridge))
	return b
}

func (m *setBridgeStatusRequest) unmarshal(buf []byte) error {
	return walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeString(b, typ)
			m.Caller = v
			return n, err
		case 2:
			v, n, err := consumeHash32(b, typ)
			m.SessionID = v
			return n, err
		case 3:
			raw, n, err := consumeBytes(b, typ)
			if err != nil {
				return 0, err
			}
			if m.Bridge, err = decodeBridge(raw); err != nil {
				return 0, err
			}
			return n, nil
		}
		return 0, nil
	})
}

// getSessionRequest: 1 session_id (32 bytes).
type getSessionRequest struct {
	SessionID [32]byte
}

func (m *getSessionRequest) marshal(b []byte) []byte {
	return appendBytesField(b, 1, m.SessionID[:])
}

func (m *getSessionRequest) unmarshal(buf []byte) error {
	return walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 {
			return 0, nil
		}
		v, n, err := consumeHash32(b, typ)
		m.SessionID = v
		return n, err
	})
}

// #endregion session-requests

// #region reputation-requests

// updateReputationRequest: 1 caller (string); 2 session_id (32 bytes);
// 3 performance (fixed32).
type updateReputationRequest struct {
	Caller      string
	SessionID   [32]byte
	Performance float32
}

func (m *updateReputationRequest) marshal(b []byte) []byte {
	b = appendStringField(b, 1, m.Caller)
	b = appendBytesField(b, 2, m.SessionID[:])
	b = appendFloatField(b, 3, m.Performance)
	return b
}

func (m *updateReputationRequest) unmarshal(buf []byte) error {
	return walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeString(b, typ)
			m.Caller = v
			return n, err
		case 2:
			v, n, err := consumeHash32(b, typ)
			m.SessionID = v
			return n, err
		case 3:
			v, n, err := consumeFloat(b, typ)
			m.Performance = v
			return n, err
		}
		return 0, nil
	})
}

// getReputationRequest: 1 creator (string).
type getReputationRequest struct {
	Creator string
}

func (m *getReputationRequest) marshal(b []byte) []byte {
	return appendStringField(b, 1, m.Creator)
}

func (m *getReputationRequest) unmarshal(buf []byte) error {
	return walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 {
			return 0, nil
		}
		v, n, err := consumeString(b, typ)
		m.Creator = v
		return n, err
	})
}

// #endregion reputation-requests

// #region asset-requests

// initializeCollectionRequest: 1 authority, 2 name, 3 symbol, 4 uri
// (string).
type initializeCollectionRequest struct {
	Authority string
	Name      string
	Symbol    string
	URI       string
}

func (m *initializeCollectionRequest) marshal(b []byte) []byte {
	b = appendStringField(b, 1, m.Authority)
	b = appendStringField(b, 2, m.Name)
	b = appendStringField(b, 3, m.Symbol)
	b = appendStringField(b, 4, m.URI)
	return b
}

func (m *initializeCollectionRequest) unmarshal(buf []byte) error {
	return walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		var dst *string
		switch num {
		case 1:
			dst = &m.Authority
		case 2:
			dst = &m.Name
		case 3:
			dst = &m.Symbol
		case 4:
			dst = &m.URI
		default:
			return 0, nil
		}
		v, n, err := consumeString(b, typ)
		*dst = v
		return n, err
	})
}

// mintAssetRequest flattens the mint input: 1 caller, 2 collection_id
// (string); 3 fingerprint (32 bytes); 4 signature (64 bytes);
// 5 ai_confidence (fixed32); 6 emotion (vector message); 7 uri (string).
type mintAssetRequest struct {
	Caller       string
	CollectionID string
	Input        asset.MintInput
}

func (m *mintAssetRequest) marshal(b []byte) []byte {
	b = appendStringField(b, 1, m.Caller)
	b = appendStringField(b, 2, m.CollectionID)
	b = appendBytesField(b, 3, m.Input.Fingerprint[:])
	b = appendBytesField(b, 4, m.Input.Signature[:])
	b = appendFloatField(b, 5, m.Input.AIConfidence)
	b = appendBytesField(b, 6, appendVector(nil, m.Input.Emotion))
	b = appendStringField(b, 7, m.Input.URI)
	return b
}

func (m *mintAssetRequest) unmarshal(buf []byte) error {
	return walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeString(b, typ)
			m.Caller = v
			return n, err
		case 2:
			v, n, err := consumeString(b, typ)
			m.CollectionID = v
			return n, err
		case 3:
			v, n, err := consumeHash32(b, typ)
			m.Input.Fingerprint = v
			return n, err
		case 4:
			v, n, err := consumeSig64(b, typ)
			m.Input.Signature = v
			return n, err
		case 5:
			v, n, err := consumeFloat(b, typ)
			m.Input.AIConfidence = v
			return n, err
		case 6:
			raw, n, err := consumeBytes(b, typ)
			if err != nil {
				return 0, err
			}
			if m.Input.Emotion, err = decodeVector(raw); err != nil {
				return 0, err
			}
			return n, nil
		case 7:
			v, n, err := consumeString(b, typ)
			m.Input.URI = v
			return n, err
		}
		return 0, nil
	})
}

// updateAssetEmotionRequest: 1 caller, 2 asset_id (string); 3 emotion
// (vector message); 4 signature (64 bytes); 5 ai_confidence (fixed32).
type updateAssetEmotionRequest struct {
	Caller       string
	AssetID      string
	Emotion      emotion.Vector
	Signature    [64]byte
	AIConfidence float32
}

func (m *updateAssetEmotionRequest) marshal(b []byte) []byte {
	b = appendStringField(b, 1, m.Caller)
	b = appendStringField(b, 2, m.AssetID)
	b = appendBytesField(b, 3, appendVector(nil, m.Emotion))
	b = appendBytesField(b, 4, m.Signature[:])
	b = appendFloatField(b, 5, m.AIConfidence)
	return b
}

func (m *updateAssetEmotionRequest) unmarshal(buf []byte) error {
	return walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeString(b, typ)
			m.Caller = v
			return n, err
		case 2:
			v, n, err := consumeString(b, typ)
			m.AssetID = v
			return n, err
		case 3:
			raw, n, err := consumeBytes(b, typ)
			if err != nil {
				return 0, err
			}
			if m.Emotion, err = decodeVector(raw); err != nil {
				return 0, err
			}
			return n, nil
		case 4:
			v, n, err := consumeSig64(b, typ)
			m.Signature = v
			return n, err
		case 5:
			v, n, err := consumeFloat(b, typ)
			m.AIConfidence = v
			return n, err
		}
		return 0, nil
	})
}

// transferAssetRequest: 1 caller, 2 asset_id, 3 new_owner (string).
type transferAssetRequest struct {
	Caller   string
	AssetID  string
	NewOwner string
}

func (m *transferAssetRequest) marshal(b []byte) []byte {
	b = appendStringField(b, 1, m.Caller)
	b = appendStringField(b, 2, m.AssetID)
	b = appendStringField(b, 3, m.NewOwner)
	return b
}

func (m *transferAssetRequest) unmarshal(buf []byte) error {
	return walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		var dst *string
		switch num {
		case 1:
			dst = &m.Caller
		case 2:
			dst = &m.AssetID
		case 3:
			dst = &m.NewOwner
		default:
			return 0, nil
		}
		v, n, err := consumeString(b, typ)
		*dst = v
		return n, err
	})
}

// analyzePatternsRequest: 1 asset_ids (repeated string).
type analyzePatternsRequest struct {
	AssetIDs []string
}

func (m *analyzePatternsRequest) marshal(b []byte) []byte {
	for _, id := range m.AssetIDs {
		b = appendStringField(b, 1, id)
	}
	return b
}

func (m *analyzePatternsRequest) unmarshal(buf []byte) error {
	return walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 {
			return 0, nil
		}
		v, n, err := consumeString(b, typ)
		if err != nil {
			return 0, err
		}
		m.AssetIDs = append(m.AssetIDs, v)
		return n, nil
	})
}

// #endregion asset-requests

// #region replies

// sessionReply: 1 session (message).
type sessionReply struct {
	Session session.Session
}

func (m *sessionReply) marshal(b []byte) []byte {
	return appendBytesField(b, 1, appendSession(nil, m.Session))
}

func (m *sessionReply) unmarshal(buf []byte) error {
	return walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 {
			return 0, nil
		}
		raw, n, err := consumeBytes(b, typ)
		if err != nil {
			return 0, err
		}
		if m.Session, err = decodeSession(raw); err != nil {
			return 0, err
		}
		return n, nil
	})
}

// recordPerformanceReply: 1 session (message); 2 performance (message).
type recordPerformanceReply struct {
	Session     session.Session
	Performance session.PerformanceRecord
}

func (m *recordPerformanceReply) marshal(b []byte) []byte {
	b = appendBytesField(b, 1, appendSession(nil, m.Session))
	b = appendBytesField(b, 2, appendPerformance(nil, m.Performance))
	return b
}

func (m *recordPerformanceReply) unmarshal(buf []byte) error {
	return walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			raw, n, err := consumeBytes(b, typ)
			if err != nil {
				return 0, err
			}
			if m.Session, err = decodeSession(raw); err != nil {
				return 0, err
			}
			return n, nil
		case 2:
			raw, n, err := consumeBytes(b, typ)
			if err != nil {
				return 0, err
			}
			if m.Performance, err = decodePerformance(raw); err != nil {
				return 0, err
			}
			return n, nil
		}
		return 0, nil
	})
}

// advanceTrajectoryReply: 1 session (message); 2 trajectory (message).
type advanceTrajectoryReply struct {
	Session    session.Session
	Trajectory trajectory.Trajectory
}

func (m *advanceTrajectoryReply) marshal(b []byte) []byte {
	b = appendBytesField(b, 1, appendSession(nil, m.Session))
	b = appendBytesField(b, 2, appendTrajectory(nil, m.Trajectory))
	return b
}

func (m *advanceTrajectoryReply) unmarshal(buf []byte) error {
	return walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			raw, n, err := consumeBytes(b, typ)
			if err != nil {
				return 0, err
			}
			if m.Session, err = decodeSession(raw); err != nil {
				return 0, err
			}
			return n, nil
		case 2:
			raw, n, err := consumeBytes(b, typ)
			if err != nil {
				return 0, err
			}
			if m.Trajectory, err = decodeTrajectory(raw); err != nil {
				return 0, err
			}
			return n, nil
		}
		return 0, nil
	})
}

// reputationReply: 1 record (message).
type reputationReply struct {
	Record reputation.Record
}

func (m *reputationReply) marshal(b []byte) []byte {
	return appendBytesField(b, 1, appendReputation(nil, m.Record))
}

func (m *reputationReply) unmarshal(buf []byte) error {
	return walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 {
			return 0, nil
		}
		raw, n, err := consumeBytes(b, typ)
		if err != nil {
			return 0, err
		}
		if m.Record, err = decodeReputation(raw); err != nil {
			return 0, err
		}
		return n, nil
	})
}

// collectionReply: 1 collection (message).
type collectionReply struct {
	Collection asset.Collection
}

func (m *collectionReply) marshal(b []byte) []byte {
	return appendBytesField(b, 1, appendCollection(nil, m.Collection))
}

func (m *collectionReply) unmarshal(buf []byte) error {
	return walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 {
			return 0, nil
		}
		raw, n, err := consumeBytes(b, typ)
		if err != nil {
			return 0, err
		}
		if m.Collection, err = decodeCollection(raw); err != nil {
			return 0, err
		}
		return n, nil
	})
}

// assetReply: 1 asset (message).
type assetReply struct {
	Asset asset.Asset
}

func (m *assetReply) marshal(b []byte) []byte {
	return appendBytesField(b, 1, appendAsset(nil, m.Asset))
}

func (m *assetReply) unmarshal(buf []byte) error {
	return walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 {
			return 0, nil
		}
		raw, n, err := consumeBytes(b, typ)
		if err != nil {
			return 0, err
		}
		if m.Asset, err = decodeAsset(raw); err != nil {
			return 0, err
		}
		return n, nil
	})
}

// analysisReply: 1 analysis (message).
type analysisReply struct {
	Analysis pattern.Analysis
}

func (m *analysisReply) marshal(b []byte) []byte {
	return appendBytesField(b, 1, appendAnalysis(nil, m.Analysis))
}

func (m *analysisReply) unmarshal(buf []byte) error {
	return walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 {
			return 0, nil
		}
		raw, n, err := consumeBytes(b, typ)
		if err != nil {
			return 0, err
		}
		if m.Analysis, err = decodeAnalysis(raw); err != nil {
			return 0, err
		}
		return n, nil
	})
}

// #endregion replies
