package gate

import "errors"

// ErrUnstableState blocks ownership transfer while arousal is at or above
// the configured ceiling. Matched with errors.Is.
var ErrUnstableState = errors.New("emotional state too unstable for transfer")

// ErrInvalidTransfer rejects transfers whose target breaks the ownership
// rules: empty, or the current owner.
var ErrInvalidTransfer = errors.New("invalid transfer target")

// #region veto-type
// VetoType enumerates hard veto categories.
type VetoType string

const (
	VetoUnstable    VetoType = "unstable_state"
	VetoFingerprint VetoType = "missing_fingerprint"
	VetoOwnership   VetoType = "ownership_rule"
)

// #endregion veto-type

// #region veto-signal
// VetoSignal represents a detected hard veto condition.
type VetoSignal struct {
	Type   VetoType
	Reason string
}

// #endregion veto-signal

// #region gate-config
// GateConfig holds thresholds for transfer decisions.
type GateConfig struct {
	// MaxTransferArousal is exclusive: transfer requires arousal strictly
	// below it.
	MaxTransferArousal float32
}

// DefaultGateConfig returns the standard stability ceiling.
func DefaultGateConfig() GateConfig {
	return GateConfig{MaxTransferArousal: 0.7}
}

// #endregion gate-config

// #region gate-decision
// GateDecision is the output of the gate evaluation.
type GateDecision struct {
	Action      string // "commit" | "reject"
	Reason      string
	Vetoed      bool
	VetoSignals []VetoSignal // non-empty if vetoed
	SoftScore   float32      // stability of the asset's triple, for logging
}

// #endregion gate-decision
