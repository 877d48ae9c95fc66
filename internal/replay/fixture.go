package replay

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/neuroemotive/emotive-core/internal/emotion"
	"github.com/neuroemotive/emotive-core/internal/session"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description     string            `json:"description"`
	Session         FixtureSession    `json:"session"`
	Turns           []FixtureTurn     `json:"turns"`
	ExpectedResults []FixtureExpected `json:"expected_results,omitempty"`
}

// FixtureSession is the JSON-serializable session start state.
type FixtureSession struct {
	Creator   string        `json:"creator"`
	SessionID string        `json:"session_id"` // 64 hex chars
	StartTime int64         `json:"start_time"`
	Initial   FixtureVector `json:"initial"`
	Params    []float32     `json:"params,omitempty"`
}

// FixtureVector mirrors emotion.Vector with JSON tags.
type FixtureVector struct {
	Valence    float32 `json:"valence"`
	Arousal    float32 `json:"arousal"`
	Dominance  float32 `json:"dominance"`
	Confidence float32 `json:"confidence"`
	Timestamp  int64   `json:"timestamp"`
}

// FixtureTurn is one recorded observation.
type FixtureTurn struct {
	Timestamp int64         `json:"timestamp"`
	Vector    FixtureVector `json:"vector"`
	Params    []float32     `json:"params,omitempty"`
	Intensity float32       `json:"intensity"`
	Quality   float32       `json:"quality"`
}

// FixtureExpected captures the expected action per turn.
type FixtureExpected struct {
	Turn   int    `json:"turn"`
	Action string `json:"action"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToVector converts a FixtureVector to a domain vector.
func (v FixtureVector) ToVector() emotion.Vector {
	return emotion.Vector{
		Valence:    v.Valence,
		Arousal:    v.Arousal,
		Dominance:  v.Dominance,
		Confidence: v.Confidence,
		Timestamp:  v.Timestamp,
	}
}

// FromVector converts a domain vector to its fixture form.
func FromVector(v emotion.Vector) FixtureVector {
	return FixtureVector{
		Valence:    v.Valence,
		Arousal:    v.Arousal,
		Dominance:  v.Dominance,
		Confidence: v.Confidence,
		Timestamp:  v.Timestamp,
	}
}

// StartSession rebuilds the initial session through the real transition so
// the replayed run starts exactly where the recorded one did.
func (fs *FixtureSession) StartSession() (session.Session, error) {
	idBytes, err := hex.DecodeString(fs.SessionID)
	if err != nil {
		return session.Session{}, fmt.Errorf("decode session id: %w", err)
	}
	if len(idBytes) != 32 {
		return session.Session{}, fmt.Errorf("session id must be 32 bytes, got %d", len(idBytes))
	}
	var id [32]byte
	copy(id[:], idBytes)
	return session.Initialize(fs.Creator, id, fs.Initial.ToVector(), fs.Params, fs.StartTime)
}

// ToTurn converts a FixtureTurn to a domain turn.
func (ft *FixtureTurn) ToTurn() Turn {
	return Turn{
		Timestamp: ft.Timestamp,
		Observation: session.Observation{
			Vector:    ft.Vector.ToVector(),
			Params:    ft.Params,
			Intensity: ft.Intensity,
			Quality:   ft.Quality,
		},
	}
}

// #endregion fixture-loader
