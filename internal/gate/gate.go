package gate

import (
	"fmt"

	"github.com/neuroemotive/emotive-core/internal/asset"
	"github.com/neuroemotive/emotive-core/internal/scoring"
)

// #region gate
// Gate evaluates whether an asset ownership transfer should be committed
// or rejected. Caller authorization is the engine's job; the gate judges
// only the asset's state and the transfer shape.
type Gate struct {
	config GateConfig
}

// NewGate creates a gate with the given configuration.
func NewGate(config GateConfig) *Gate {
	return &Gate{config: config}
}

// Evaluate checks hard vetoes first, then scores the stability of the
// asset's emotional triple for the event log.
func (g *Gate) Evaluate(a asset.Asset, newOwner string) GateDecision {
	var vetoes []VetoSignal

	// --- Hard veto pass ---

	// 1. Stability: high arousal blocks the transfer outright.
	if a.Emotion.Arousal >= g.config.MaxTransferArousal {
		vetoes = append(vetoes, VetoSignal{
			Type:   VetoUnstable,
			Reason: fmt.Sprintf("arousal %.4f at or above ceiling %.4f", a.Emotion.Arousal, g.config.MaxTransferArousal),
		})
	}

	// 2. Fingerprint must have been set at mint.
	if a.Fingerprint == ([32]byte{}) {
		vetoes = append(vetoes, VetoSignal{
			Type:   VetoFingerprint,
			Reason: "asset has no biometric fingerprint",
		})
	}

	// 3. Transfer must name a real, different owner.
	if newOwner == "" {
		vetoes = append(vetoes, VetoSignal{
			Type:   VetoOwnership,
			Reason: "new owner required",
		})
	} else if newOwner == a.Owner {
		vetoes = append(vetoes, VetoSignal{
			Type:   VetoOwnership,
			Reason: "transfer to current owner",
		})
	}

	if len(vetoes) > 0 {
		return GateDecision{
			Action:      "reject",
			Reason:      fmt.Sprintf("hard veto: %s", vetoes[0].Reason),
			Vetoed:      true,
			VetoSignals: vetoes,
			SoftScore:   0,
		}
	}

	// --- Soft scoring ---
	soft := scoring.Stability(a.Emotion.Valence, a.Emotion.Arousal, a.Emotion.Dominance)

	return GateDecision{
		Action:    "commit",
		Reason:    fmt.Sprintf("passed gate: stability=%.4f", soft),
		SoftScore: soft,
	}
}

// #endregion gate

// #region decision-err
// Err maps a rejection onto its sentinel error; nil for a commit.
func (d GateDecision) Err() error {
	if !d.Vetoed {
		return nil
	}
	first := d.VetoSignals[0]
	switch first.Type {
	case VetoUnstable:
		return fmt.Errorf("%s: %w", first.Reason, ErrUnstableState)
	case VetoFingerprint:
		return fmt.Errorf("%s: %w", first.Reason, asset.ErrInvalidFingerprint)
	default:
		return fmt.Errorf("%s: %w", first.Reason, ErrInvalidTransfer)
	}
}

// #endregion decision-err
