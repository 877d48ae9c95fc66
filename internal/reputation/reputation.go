package reputation

import (
	"fmt"
	"math"

	"github.com/neuroemotive/emotive-core/internal/emotion"
	"github.com/neuroemotive/emotive-core/internal/scoring"
)

// performanceWeight is the share a new session performance contributes to
// the creator-level score. Fixed compatibility constant.
const performanceWeight = 0.1

// #region record
// Record is the creator-scoped reputation accumulator. One per creator,
// independent of any single session. A fresh record is all-zero: the first
// applied session fully determines the creativity mean because its weight
// term is (1-1)/1.
type Record struct {
	Creator           string
	Score             float32 // [0, 1]
	TotalInteractions uint64  // saturating, never wraps
	TotalSessions     uint32  // saturating
	CreativityScore   float32 // running mean across sessions
	Consistency       float32 // [0, 1], derived from Score
	CommunityRank     uint32  // assigned by the rank query, not by ApplySession
	LastUpdated       int64
	Revision          int64 // store concurrency token
}

// NewRecord returns the zero-valued accumulator for a creator.
func NewRecord(creator string) Record {
	return Record{Creator: creator}
}

// #endregion record

// #region apply-session
// ApplySession folds one session's outcome into the accumulator:
//
//	score'      = score*(1-w) + performance*w, w = 0.1
//	creativity' = (creativity*(n-1) + creativityIndex) / n, n counted after increment
//
// The creativity mean deliberately increments the session count first and
// then weights with (n-1)/n; the result is the exact arithmetic mean of
// every index applied so far. All four derived fields change together; the
// caller persists them atomically or not at all. Pure: rec is not mutated.
func ApplySession(rec Record, interactions uint32, creativityIndex, performance float32, now int64) (Record, error) {
	if err := emotion.CheckUnit("performance", performance); err != nil {
		return Record{}, fmt.Errorf("apply session: %w", err)
	}
	if err := emotion.CheckUnit("creativity index", creativityIndex); err != nil {
		return Record{}, fmt.Errorf("apply session: %w", err)
	}

	rec.Score = rec.Score*(1-performanceWeight) + performance*performanceWeight
	rec.TotalInteractions = saturatingAdd64(rec.TotalInteractions, uint64(interactions))
	if rec.TotalSessions < math.MaxUint32 {
		rec.TotalSessions++
	}
	n := float32(rec.TotalSessions)
	rec.CreativityScore = (rec.CreativityScore*(n-1) + creativityIndex) / n
	rec.Consistency = scoring.Consistency(rec.Score)
	rec.LastUpdated = now
	return rec, nil
}

// #endregion apply-session

// #region helpers
// saturatingAdd64 adds without wrapping.
func saturatingAdd64(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}

// #endregion helpers
