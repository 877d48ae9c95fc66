package emotion

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRange reports a vector field outside its documented domain,
// including NaN and ±Inf. Matched with errors.Is.
var ErrInvalidRange = errors.New("emotional value out of range")

// #region vector
// Vector is a single emotional-state observation. Value type; once recorded
// it is never mutated, only replaced.
type Vector struct {
	Valence    float32 // bipolar, [-1, 1]
	Arousal    float32 // [0, 1]
	Dominance  float32 // [0, 1]
	Confidence float32 // [0, 1]
	Timestamp  int64   // unix seconds
}

// Validate checks every field against its domain. NaN and ±Inf are rejected
// before any scoring formula ever sees the vector.
func (v Vector) Validate() error {
	if !finite(v.Valence) || v.Valence < -1 || v.Valence > 1 {
		return fmt.Errorf("valence %v outside [-1, 1]: %w", v.Valence, ErrInvalidRange)
	}
	if err := CheckUnit("arousal", v.Arousal); err != nil {
		return err
	}
	if err := CheckUnit("dominance", v.Dominance); err != nil {
		return err
	}
	if err := CheckUnit("confidence", v.Confidence); err != nil {
		return err
	}
	return nil
}

// IsZero reports whether every field is zero. Used as the insufficient-history
// sentinel by trajectory prediction.
func (v Vector) IsZero() bool {
	return v == Vector{}
}

// #endregion vector

// #region helpers
// CheckUnit validates a [0, 1] scalar, rejecting NaN and ±Inf.
func CheckUnit(name string, x float32) error {
	if !finite(x) || x < 0 || x > 1 {
		return fmt.Errorf("%s %v outside [0, 1]: %w", name, x, ErrInvalidRange)
	}
	return nil
}

// finite reports whether x is neither NaN nor ±Inf.
func finite(x float32) bool {
	f := float64(x)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Finite reports whether x is neither NaN nor ±Inf. Exported for callers
// that validate scalar inputs outside a Vector.
func Finite(x float32) bool {
	return finite(x)
}

// #endregion helpers
