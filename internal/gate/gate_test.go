package gate

import (
	"errors"
	"testing"

	"github.com/neuroemotive/emotive-core/internal/asset"
	"github.com/neuroemotive/emotive-core/internal/emotion"
)

func stableAsset() asset.Asset {
	var fp [32]byte
	fp[0] = 0xEE
	return asset.Asset{
		ID:          "asset-1",
		Owner:       "alice",
		Fingerprint: fp,
		Emotion:     emotion.Vector{Valence: 0.5, Arousal: 0.3, Dominance: 0.4, Confidence: 0.9},
	}
}

func TestEvaluateCommit(t *testing.T) {
	g := NewGate(DefaultGateConfig())
	d := g.Evaluate(stableAsset(), "bob")

	if d.Action != "commit" {
		t.Fatalf("expected commit, got %s (%s)", d.Action, d.Reason)
	}
	if d.Vetoed || len(d.VetoSignals) != 0 {
		t.Fatal("commit must carry no vetoes")
	}
	if d.SoftScore <= 0 || d.SoftScore > 1 {
		t.Fatalf("expected stability score in (0, 1], got %f", d.SoftScore)
	}
	if err := d.Err(); err != nil {
		t.Fatalf("expected nil error for commit, got %v", err)
	}
}

func TestEvaluateArousalCeiling(t *testing.T) {
	g := NewGate(DefaultGateConfig())

	// The ceiling is exclusive: exactly 0.7 is rejected, just below passes.
	hot := stableAsset()
	hot.Emotion.Arousal = 0.7
	d := g.Evaluate(hot, "bob")
	if d.Action != "reject" {
		t.Fatalf("expected reject at arousal 0.7, got %s", d.Action)
	}
	if len(d.VetoSignals) != 1 || d.VetoSignals[0].Type != VetoUnstable {
		t.Fatalf("expected single unstable veto, got %+v", d.VetoSignals)
	}
	if !errors.Is(d.Err(), ErrUnstableState) {
		t.Fatalf("expected ErrUnstableState, got %v", d.Err())
	}

	warm := stableAsset()
	warm.Emotion.Arousal = 0.69
	if d := g.Evaluate(warm, "bob"); d.Action != "commit" {
		t.Fatalf("expected commit at arousal 0.69, got %s (%s)", d.Action, d.Reason)
	}
}

func TestEvaluateMissingFingerprint(t *testing.T) {
	g := NewGate(DefaultGateConfig())
	bare := stableAsset()
	bare.Fingerprint = [32]byte{}

	d := g.Evaluate(bare, "bob")
	if d.Action != "reject" {
		t.Fatal("expected reject for zero fingerprint")
	}
	if !errors.Is(d.Err(), asset.ErrInvalidFingerprint) {
		t.Fatalf("expected ErrInvalidFingerprint, got %v", d.Err())
	}
}

func TestEvaluateOwnershipRules(t *testing.T) {
	g := NewGate(DefaultGateConfig())

	d := g.Evaluate(stableAsset(), "alice")
	if d.Action != "reject" {
		t.Fatal("expected reject for transfer to current owner")
	}
	if d.VetoSignals[0].Type != VetoOwnership {
		t.Fatalf("expected ownership veto, got %s", d.VetoSignals[0].Type)
	}

	d = g.Evaluate(stableAsset(), "")
	if d.Action != "reject" {
		t.Fatal("expected reject for empty new owner")
	}
	if !errors.Is(d.Err(), ErrInvalidTransfer) {
		t.Fatalf("expected ErrInvalidTransfer, got %v", d.Err())
	}
}

func TestEvaluateCollectsAllVetoes(t *testing.T) {
	g := NewGate(DefaultGateConfig())
	bad := stableAsset()
	bad.Emotion.Arousal = 0.9
	bad.Fingerprint = [32]byte{}

	d := g.Evaluate(bad, "alice")
	if len(d.VetoSignals) != 3 {
		t.Fatalf("expected 3 vetoes, got %d: %+v", len(d.VetoSignals), d.VetoSignals)
	}
	// First veto drives the reason and the sentinel.
	if d.VetoSignals[0].Type != VetoUnstable {
		t.Fatalf("expected unstable veto first, got %s", d.VetoSignals[0].Type)
	}
	if !errors.Is(d.Err(), ErrUnstableState) {
		t.Fatalf("expected ErrUnstableState, got %v", d.Err())
	}
	if d.SoftScore != 0 {
		t.Fatalf("expected zero soft score on rejection, got %f", d.SoftScore)
	}
}

func TestEvaluateCustomCeiling(t *testing.T) {
	g := NewGate(GateConfig{MaxTransferArousal: 0.5})
	a := stableAsset()
	a.Emotion.Arousal = 0.6

	if d := g.Evaluate(a, "bob"); d.Action != "reject" {
		t.Fatal("expected reject above custom ceiling")
	}
	a.Emotion.Arousal = 0.4
	if d := g.Evaluate(a, "bob"); d.Action != "commit" {
		t.Fatal("expected commit below custom ceiling")
	}
}
