// Package service exposes the emotive ledger over gRPC. The wire format is
// a hand-maintained protobuf encoding built directly on encoding/protowire:
// float32 fields travel as fixed32 bits, integers as varints, byte arrays
// and strings length-delimited, parameter vectors packed. Field numbers are
// listed above each encoder and are a compatibility surface.
package service

import (
	"encoding/binary"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/neuroemotive/emotive-core/internal/asset"
	"github.com/neuroemotive/emotive-core/internal/emotion"
	"github.com/neuroemotive/emotive-core/internal/pattern"
	"github.com/neuroemotive/emotive-core/internal/reputation"
	"github.com/neuroemotive/emotive-core/internal/session"
	"github.com/neuroemotive/emotive-core/internal/trajectory"
)

// #region append-helpers

func appendFloatField(b []byte, num protowire.Number, f float32) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed32Type)
	return protowire.AppendFixed32(b, math.Float32bits(f))
}

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendInt64Field(b []byte, num protowire.Number, v int64) []byte {
	return appendVarintField(b, num, uint64(v))
}

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendStringField(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

// appendFloatsField packs a float32 slice into one length-delimited field.
func appendFloatsField(b []byte, num protowire.Number, fs []float32) []byte {
	packed := make([]byte, 0, len(fs)*4)
	for _, f := range fs {
		packed = binary.LittleEndian.AppendUint32(packed, math.Float32bits(f))
	}
	return appendBytesField(b, num, packed)
}

// #endregion append-helpers

// #region consume-helpers

// walkFields iterates the top-level fields of buf. visit consumes the value
// for its field number and returns the byte count it used; returning 0 marks
// the field unknown, and walkFields skips it.
func walkFields(buf []byte, visit func(num protowire.Number, typ protowire.Type, b []byte) (int, error)) error {
	for len(buf) > 0 {
		num, typ, n := protowire.ConsumeTag(buf)
		if n < 0 {
			return protowire.ParseError(n)
		}
		buf = buf[n:]

		used, err := visit(num, typ, buf)
		if err != nil {
			return fmt.Errorf("field %d: %w", num, err)
		}
		if used == 0 {
			used = protowire.ConsumeFieldValue(num, typ, buf)
			if used < 0 {
				return protowire.ParseError(used)
			}
		}
		buf = buf[used:]
	}
	return nil
}

func consumeFloat(b []byte, typ protowire.Type) (float32, int, error) {
	if typ != protowire.Fixed32Type {
		return 0, 0, fmt.Errorf("want fixed32, got wire type %d", typ)
	}
	bits, n := protowire.ConsumeFixed32(b)
	if n < 0 {
		return 0, 0, protowire.ParseError(n)
	}
	return math.Float32frombits(bits), n, nil
}

func consumeVarint(b []byte, typ protowire.Type) (uint64, int, error) {
	if typ != protowire.VarintType {
		return 0, 0, fmt.Errorf("want varint, got wire type %d", typ)
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, protowire.ParseError(n)
	}
	return v, n, nil
}

func consumeBytes(b []byte, typ protowire.Type) ([]byte, int, error) {
	if typ != protowire.BytesType {
		return nil, 0, fmt.Errorf("want length-delimited, got wire type %d", typ)
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, protowire.ParseError(n)
	}
	return v, n, nil
}

func consumeString(b []byte, typ protowire.Type) (string, int, error) {
	v, n, err := consumeBytes(b, typ)
	return string(v), n, err
}

// consumeFloats unpacks a packed float32 field. An empty payload decodes to
// nil, so nil and empty slices are interchangeable on the wire.
func consumeFloats(b []byte, typ protowire.Type) ([]float32, int, error) {
	raw, n, err := consumeBytes(b, typ)
	if err != nil {
		return nil, 0, err
	}
	if len(raw)%4 != 0 {
		return nil, 0, fmt.Errorf("packed float payload length %d is not a multiple of 4", len(raw))
	}
	if len(raw) == 0 {
		return nil, n, nil
	}
	fs := make([]float32, len(raw)/4)
	for i := range fs {
		fs[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return fs, n, nil
}

func consumeHash32(b []byte, typ protowire.Type) ([32]byte, int, error) {
	var out [32]byte
	raw, n, err := consumeBytes(b, typ)
	if err != nil {
		return out, 0, err
	}
	if len(raw) != 32 {
		return out, 0, fmt.Errorf("want 32 bytes, got %d", len(raw))
	}
	copy(out[:], raw)
	return out, n, nil
}

func consumeSig64(b []byte, typ protowire.Type) ([64]byte, int, error) {
	var out [64]byte
	raw, n, err := consumeBytes(b, typ)
	if err != nil {
		return out, 0, err
	}
	if len(raw) != 64 {
		return out, 0, fmt.Errorf("want 64 bytes, got %d", len(raw))
	}
	copy(out[:], raw)
	return out, n, nil
}

// #endregion consume-helpers

// #region vector

// Vector: 1 valence, 2 arousal, 3 dominance, 4 confidence (fixed32);
// 5 timestamp (varint int64).
func appendVector(b []byte, v emotion.Vector) []byte {
	b = appendFloatField(b, 1, v.Valence)
	b = appendFloatField(b, 2, v.Arousal)
	b = appendFloatField(b, 3, v.Dominance)
	b = appendFloatField(b, 4, v.Confidence)
	b = appendInt64Field(b, 5, v.Timestamp)
	return b
}

func decodeVector(buf []byte) (emotion.Vector, error) {
	var v emotion.Vector
	err := walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			f, n, err := consumeFloat(b, typ)
			v.Valence = f
			return n, err
		case 2:
			f, n, err := consumeFloat(b, typ)
			v.Arousal = f
			return n, err
		case 3:
			f, n, err := consumeFloat(b, typ)
			v.Dominance = f
			return n, err
		case 4:
			f, n, err := consumeFloat(b, typ)
			v.Confidence = f
			return n, err
		case 5:
			u, n, err := consumeVarint(b, typ)
			v.Timestamp = int64(u)
			return n, err
		}
		return 0, nil
	})
	if err != nil {
		return emotion.Vector{}, fmt.Errorf("decode vector: %w", err)
	}
	return v, nil
}

// #endregion vector

// #region bridge

// BridgeInfo: 1 target_chain, 2 target_contract (string); 3 status,
// 4 bridge_time (varint); 5 emotional_hash (32 bytes).
func appendBridge(b []byte, info session.BridgeInfo) []byte {
	b = appendStringField(b, 1, info.TargetChain)
	b = appendStringField(b, 2, info.TargetContract)
	b = appendVarintField(b, 3, uint64(info.Status))
	b = appendInt64Field(b, 4, info.BridgeTime)
	b = appendBytesField(b, 5, info.EmotionalHash[:])
	return b
}

func decodeBridge(buf []byte) (session.BridgeInfo, error) {
	var info session.BridgeInfo
	err := walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			s, n, err := consumeString(b, typ)
			info.TargetChain = s
			return n, err
		case 2:
			s, n, err := consumeString(b, typ)
			info.TargetContract = s
			return n, err
		case 3:
			u, n, err := consumeVarint(b, typ)
			info.Status = uint8(u)
			return n, err
		case 4:
			u, n, err := consumeVarint(b, typ)
			info.BridgeTime = int64(u)
			return n, err
		case 5:
			h, n, err := consumeHash32(b, typ)
			info.EmotionalHash = h
			return n, err
		}
		return 0, nil
	})
	if err != nil {
		return session.BridgeInfo{}, fmt.Errorf("decode bridge: %w", err)
	}
	return info, nil
}

// #endregion bridge

// #region session

// Session: 1 creator (string); 2 session_id (32 bytes); 3 start_time
// (varint); 4 vector (message); 5 params (packed float); 6 interaction_count
// (varint); 7 compressed_state (32 bytes); 8 reputation, 9 complexity,
// 10 creativity_index (fixed32); 11 community_engagement (varint); 12 bridge
// (message); 13 last_updated, 14 revision (varint).
func appendSession(b []byte, s session.Session) []byte {
	b = appendStringField(b, 1, s.Creator)
	b = appendBytesField(b, 2, s.SessionID[:])
	b = appendInt64Field(b, 3, s.StartTime)
	b = appendBytesField(b, 4, appendVector(nil, s.Vector))
	b = appendFloatsField(b, 5, s.Params)
	b = appendVarintField(b, 6, uint64(s.InteractionCount))
	b = appendBytesField(b, 7, s.CompressedState[:])
	b = appendFloatField(b, 8, s.Reputation)
	b = appendFloatField(b, 9, s.Complexity)
	b = appendFloatField(b, 10, s.CreativityIndex)
	b = appendVarintField(b, 11, uint64(s.CommunityEngagement))
	b = appendBytesField(b, 12, appendBridge(nil, s.Bridge))
	b = appendInt64Field(b, 13, s.LastUpdated)
	b = appendInt64Field(b, 14, s.Revision)
	return b
}

func decodeSession(buf []byte) (session.Session, error) {
	var s session.Session
	err := walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeString(b, typ)
			s.Creator = v
			return n, err
		case 2:
			v, n, err := consumeHash32(b, typ)
			s.SessionID = v
			return n, err
		case 3:
			v, n, err := consumeVarint(b, typ)
			s.StartTime = int64(v)
			return n, err
		case 4:
			raw, n, err := consumeBytes(b, typ)
			if err != nil {
				return 0, err
			}
			if s.Vector, err = decodeVector(raw); err != nil {
				return 0, err
			}
			return n, nil
		case 5:
			v, n, err := consumeFloats(b, typ)
			s.Params = v
			return n, err
		case 6:
			v, n, err := consumeVarint(b, typ)
			s.InteractionCount = uint32(v)
			return n, err
		case 7:
			v, n, err := consumeHash32(b, typ)
			s.CompressedState = v
			return n, err
		case 8:
			v, n, err := consumeFloat(b, typ)
			s.Reputation = v
			return n, err
		case 9:
			v, n, err := consumeFloat(b, typ)
			s.Complexity = v
			return n, err
		case 10:
			v, n, err := consumeFloat(b, typ)
			s.CreativityIndex = v
			return n, err
		case 11:
			v, n, err := consumeVarint(b, typ)
			s.CommunityEngagement = uint32(v)
			return n, err
		case 12:
			raw, n, err := consumeBytes(b, typ)
			if err != nil {
				return 0, err
			}
			if s.Bridge, err = decodeBridge(raw); err != nil {
				return 0, err
			}
			return n, nil
		case 13:
			v, n, err := consumeVarint(b, typ)
			s.LastUpdated = int64(v)
			return n, err
		case 14:
			v, n, err := consumeVarint(b, typ)
			s.Revision = int64(v)
			return n, err
		}
		return 0, nil
	})
	if err != nil {
		return session.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return s, nil
}

// #endregion session

// #region observation

// Observation: 1 vector (message); 2 params (packed float); 3 intensity,
// 4 quality (fixed32).
func appendObservation(b []byte, o session.Observation) []byte {
	b = appendBytesField(b, 1, appendVector(nil, o.Vector))
	b = appendFloatsField(b, 2, o.Params)
	b = appendFloatField(b, 3, o.Intensity)
	b = appendFloatField(b, 4, o.Quality)
	return b
}

func decodeObservation(buf []byte) (session.Observation, error) {
	var o session.Observation
	err := walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			raw, n, err := consumeBytes(b, typ)
			if err != nil {
				return 0, err
			}
			if o.Vector, err = decodeVector(raw); err != nil {
				return 0, err
			}
			return n, nil
		case 2:
			v, n, err := consumeFloats(b, typ)
			o.Params = v
			return n, err
		case 3:
			v, n, err := consumeFloat(b, typ)
			o.Intensity = v
			return n, err
		case 4:
			v, n, err := consumeFloat(b, typ)
			o.Quality = v
			return n, err
		}
		return 0, nil
	})
	if err != nil {
		return session.Observation{}, fmt.Errorf("decode observation: %w", err)
	}
	return o, nil
}

// #endregion observation

// #region performance

// PerformanceRecord: 1 session_id (32 bytes); 2 timestamp (varint);
// 3 vector (message); 4 params (packed float); 5 intensity, 6 impact,
// 7 boost, 8 quality (fixed32).
func appendPerformance(b []byte, p session.PerformanceRecord) []byte {
	b = appendBytesField(b, 1, p.SessionID[:])
	b = appendInt64Field(b, 2, p.Timestamp)
	b = appendBytesField(b, 3, appendVector(nil, p.Vector))
	b = appendFloatsField(b, 4, p.Params)
	b = appendFloatField(b, 5, p.Intensity)
	b = appendFloatField(b, 6, p.Impact)
	b = appendFloatField(b, 7, p.Boost)
	b = appendFloatField(b, 8, p.Quality)
	return b
}

func decodePerformance(buf []byte) (session.PerformanceRecord, error) {
	var p session.PerformanceRecord
	err := walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeHash32(b, typ)
			p.SessionID = v
			return n, err
		case 2:
			v, n, err := consumeVarint(b, typ)
			p.Timestamp = int64(v)
			return n, err
		case 3:
			raw, n, err := consumeBytes(b, typ)
			if err != nil {
				return 0, err
			}
			if p.Vector, err = decodeVector(raw); err != nil {
				return 0, err
			}
			return n, nil
		case 4:
			v, n, err := consumeFloats(b, typ)
			p.Params = v
			return n, err
		case 5:
			v, n, err := consumeFloat(b, typ)
			p.Intensity = v
			return n, err
		case 6:
			v, n, err := consumeFloat(b, typ)
			p.Impact = v
			return n, err
		case 7:
			v, n, err := consumeFloat(b, typ)
			p.Boost = v
			return n, err
		case 8:
			v, n, err := consumeFloat(b, typ)
			p.Quality = v
			return n, err
		}
		return 0, nil
	})
	if err != nil {
		return session.PerformanceRecord{}, fmt.Errorf("decode performance: %w", err)
	}
	return p, nil
}

// #endregion performance

// #region trajectory

// Trajectory: 1 session_id (32 bytes); 2 history (repeated message);
// 3 predicted (message); 4 complexity (fixed32); 5 update_count (varint).
func appendTrajectory(b []byte, t trajectory.Trajectory) []byte {
	b = appendBytesField(b, 1, t.SessionID[:])
	for _, v := range t.History {
		b = appendBytesField(b, 2, appendVector(nil, v))
	}
	b = appendBytesField(b, 3, appendVector(nil, t.PredictedNext))
	b = appendFloatField(b, 4, t.Complexity)
	b = appendVarintField(b, 5, uint64(t.UpdateCount))
	return b
}

func decodeTrajectory(buf []byte) (trajectory.Trajectory, error) {
	var t trajectory.Trajectory
	err := walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeHash32(b, typ)
			t.SessionID = v
			return n, err
		case 2:
			raw, n, err := consumeBytes(b, typ)
			if err != nil {
				return 0, err
			}
			v, err := decodeVector(raw)
			if err != nil {
				return 0, err
			}
			t.History = append(t.History, v)
			return n, nil
		case 3:
			raw, n, err := consumeBytes(b, typ)
			if err != nil {
				return 0, err
			}
			if t.PredictedNext, err = decodeVector(raw); err != nil {
				return 0, err
			}
			return n, nil
		case 4:
			v, n, err := consumeFloat(b, typ)
			t.Complexity = v
			return n, err
		case 5:
			v, n, err := consumeVarint(b, typ)
			t.UpdateCount = uint32(v)
			return n, err
		}
		return 0, nil
	})
	if err != nil {
		return trajectory.Trajectory{}, fmt.Errorf("decode trajectory: %w", err)
	}
	return t, nil
}

// #endregion trajectory

// #region reputation

// Reputation: 1 creator (string); 2 score (fixed32); 3 total_interactions,
// 4 total_sessions (varint); 5 creativity_score, 6 consistency (fixed32);
// 7 community_rank, 8 last_updated, 9 revision (varint).
func appendReputation(b []byte, r reputation.Record) []byte {
	b = appendStringField(b, 1, r.Creator)
	b = appendFloatField(b, 2, r.Score)
	b = appendVarintField(b, 3, r.TotalInteractions)
	b = appendVarintField(b, 4, uint64(r.TotalSessions))
	b = appendFloatField(b, 5, r.CreativityScore)
	b = appendFloatField(b, 6, r.Consistency)
	b = appendVarintField(b, 7, uint64(r.CommunityRank))
	b = appendInt64Field(b, 8, r.LastUpdated)
	b = appendInt64Field(b, 9, r.Revision)
	return b
}

func decodeReputation(buf []byte) (reputation.Record, error) {
	var r reputation.Record
	err := walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeString(b, typ)
			r.Creator = v
			return n, err
		case 2:
			v, n, err := consumeFloat(b, typ)
			r.Score = v
			return n, err
		case 3:
			v, n, err := consumeVarint(b, typ)
			r.TotalInteractions = v
			return n, err
		case 4:
			v, n, err := consumeVarint(b, typ)
			r.TotalSessions = uint32(v)
			return n, err
		case 5:
			v, n, err := consumeFloat(b, typ)
			r.CreativityScore = v
			return n, err
		case 6:
			v, n, err := consumeFloat(b, typ)
			r.Consistency = v
			return n, err
		case 7:
			v, n, err := consumeVarint(b, typ)
			r.CommunityRank = uint32(v)
			return n, err
		case 8:
			v, n, err := consumeVarint(b, typ)
			r.LastUpdated = int64(v)
			return n, err
		case 9:
			v, n, err := consumeVarint(b, typ)
			r.Revision = int64(v)
			return n, err
		}
		return 0, nil
	})
	if err != nil {
		return reputation.Record{}, fmt.Errorf("decode reputation: %w", err)
	}
	return r, nil
}

// #endregion reputation

// #region collection

// Collection: 1 collection_id, 2 authority, 3 name, 4 symbol, 5 uri
// (string); 6 total_supply, 7 revision (varint).
func appendCollection(b []byte, c asset.Collection) []byte {
	b = appendStringField(b, 1, c.ID)
	b = appendStringField(b, 2, c.Authority)
	b = appendStringField(b, 3, c.Name)
	b = appendStringField(b, 4, c.Symbol)
	b = appendStringField(b, 5, c.URI)
	b = appendVarintField(b, 6, c.TotalSupply)
	b = appendInt64Field(b, 7, c.Revision)
	return b
}

func decodeCollection(buf []byte) (asset.Collection, error) {
	var c asset.Collection
	err := walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeString(b, typ)
			c.ID = v
			return n, err
		case 2:
			v, n, err := consumeString(b, typ)
			c.Authority = v
			return n, err
		case 3:
			v, n, err := consumeString(b, typ)
			c.Name = v
			return n, err
		case 4:
			v, n, err := consumeString(b, typ)
			c.Symbol = v
			return n, err
		case 5:
			v, n, err := consumeString(b, typ)
			c.URI = v
			return n, err
		case 6:
			v, n, err := consumeVarint(b, typ)
			c.TotalSupply = v
			return n, err
		case 7:
			v, n, err := consumeVarint(b, typ)
			c.Revision = int64(v)
			return n, err
		}
		return 0, nil
	})
	if err != nil {
		return asset.Collection{}, fmt.Errorf("decode collection: %w", err)
	}
	return c, nil
}

// #endregion collection

// #region asset

// Asset: 1 asset_id, 2 collection_id, 3 owner (string); 4 fingerprint
// (32 bytes); 5 signature (64 bytes); 6 ai_confidence (fixed32); 7 emotion
// (message); 8 uri (string); 9 generation, 10 minted_at, 11 last_updated,
// 12 revision (varint).
func appendAsset(b []byte, a asset.Asset) []byte {
	b = appendStringField(b, 1, a.ID)
	b = appendStringField(b, 2, a.CollectionID)
	b = appendStringField(b, 3, a.Owner)
	b = appendBytesField(b, 4, a.Fingerprint[:])
	b = appendBytesField(b, 5, a.Signature[:])
	b = appendFloatField(b, 6, a.AIConfidence)
	b = appendBytesField(b, 7, appendVector(nil, a.Emotion))
	b = appendStringField(b, 8, a.URI)
	b = appendVarintField(b, 9, a.Generation)
	b = appendInt64Field(b, 10, a.MintedAt)
	b = appendInt64Field(b, 11, a.LastUpdated)
	b = appendInt64Field(b, 12, a.Revision)
	return b
}

func decodeAsset(buf []byte) (asset.Asset, error) {
	var a asset.Asset
	err := walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeString(b, typ)
			a.ID = v
			return n, err
		case 2:
			v, n, err := consumeString(b, typ)
			a.CollectionID = v
			return n, err
		case 3:
			v, n, err := consumeString(b, typ)
			a.Owner = v
			return n, err
		case 4:
			v, n, err := consumeHash32(b, typ)
			a.Fingerprint = v
			return n, err
		case 5:
			v, n, err := consumeSig64(b, typ)
			a.Signature = v
			return n, err
		case 6:
			v, n, err := consumeFloat(b, typ)
			a.AIConfidence = v
			return n, err
		case 7:
			raw, n, err := consumeBytes(b, typ)
			if err != nil {
				return 0, err
			}
			if a.Emotion, err = decodeVector(raw); err != nil {
				return 0, err
			}
			return n, nil
		case 8:
			v, n, err := consumeString(b, typ)
			a.URI = v
			return n, err
		case 9:
			v, n, err := consumeVarint(b, typ)
			a.Generation = v
			return n, err
		case 10:
			v, n, err := consumeVarint(b, typ)
			a.MintedAt = int64(v)
			return n, err
		case 11:
			v, n, err := consumeVarint(b, typ)
			a.LastUpdated = int64(v)
			return n, err
		case 12:
			v, n, err := consumeVarint(b, typ)
			a.Revision = int64(v)
			return n, err
		}
		return 0, nil
	})
	if err != nil {
		return asset.Asset{}, fmt.Errorf("decode asset: %w", err)
	}
	return a, nil
}

// #endregion asset

// #region analysis

// Analysis: 1 average_valence, 2 average_arousal, 3 average_dominance,
// 4 overall_confidence, 5 stability (fixed32); 6 pattern (string).
func appendAnalysis(b []byte, an pattern.Analysis) []byte {
	b = appendFloatField(b, 1, an.AverageValence)
	b = appendFloatField(b, 2, an.AverageArousal)
	b = appendFloatField(b, 3, an.AverageDominance)
	b = appendFloatField(b, 4, an.OverallConfidence)
	b = appendFloatField(b, 5, an.Stability)
	b = appendStringField(b, 6, string(an.Pattern))
	return b
}

func decodeAnalysis(buf []byte) (pattern.Analysis, error) {
	var an pattern.Analysis
	err := walkFields(buf, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeFloat(b, typ)
			an.AverageValence = v
			return n, err
		case 2:
			v, n, err := consumeFloat(b, typ)
			an.AverageArousal = v
			return n, err
		case 3:
			v, n, err := consumeFloat(b, typ)
			an.AverageDominance = v
			return n, err
		case 4:
			v, n, err := consumeFloat(b, typ)
			an.OverallConfidence = v
			return n, err
		case 5:
			v, n, err := consumeFloat(b, typ)
			an.Stability = v
			return n, err
		case 6:
			v, n, err := consumeString(b, typ)
			an.Pattern = pattern.Pattern(v)
			return n, err
		}
		return 0, nil
	})
	if err != nil {
		return pattern.Analysis{}, fmt.Errorf("decode analysis: %w", err)
	}
	return an, nil
}

// #endregion analysis
