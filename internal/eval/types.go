package eval

import "github.com/neuroemotive/emotive-core/internal/trajectory"

// #region config
// Config holds bounds for post-transition validation.
type Config struct {
	MinConsistency float32 // consistency floor implied by the 0.8r+0.2 mapping
	MaxHistory     int     // reject if a trajectory outgrows its ring buffer
}

// DefaultConfig returns the bounds the transitions are expected to hold.
func DefaultConfig() Config {
	return Config{
		MinConsistency: 0.2,
		MaxHistory:     trajectory.MaxHistory,
	}
}

// #endregion config

// #region metric
// Metric captures a single validation check result.
type Metric struct {
	Name  string
	Value float32
	Pass  bool
}

// #endregion metric

// #region result
// Result is the output of post-transition validation.
type Result struct {
	Passed  bool
	Metrics []Metric
	Reason  string
}

// #endregion result
