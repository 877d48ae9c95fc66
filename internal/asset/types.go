package asset

import (
	"errors"

	"github.com/neuroemotive/emotive-core/internal/emotion"
)

// Sentinel errors for asset record transitions.
var (
	// ErrInvalidFingerprint rejects an all-zero 32-byte fingerprint at mint.
	ErrInvalidFingerprint = errors.New("invalid biometric fingerprint")
	// ErrLowConfidence rejects a mint or update below the policy minimum.
	ErrLowConfidence = errors.New("ai confidence too low")
	// ErrCollectionFull rejects a mint that would overflow the supply counter.
	ErrCollectionFull = errors.New("collection is full")
)

// #region collection
// Collection groups fingerprinted assets under one authority.
type Collection struct {
	ID          string
	Authority   string
	Name        string
	Symbol      string
	URI         string
	TotalSupply uint64
	Revision    int64 // store concurrency token
}

// #endregion collection

// #region asset
// Asset is a non-fungible record bound to an immutable emotional
// fingerprint. The fingerprint never changes after mint; the emotional
// state and signature may be refreshed by the owner.
type Asset struct {
	ID           string
	CollectionID string
	Owner        string
	Fingerprint  [32]byte // immutable after mint
	Signature    [64]byte // biometric signature, refreshed with the emotion
	AIConfidence float32  // [0, 1]
	Emotion      emotion.Vector
	URI          string
	Generation   uint64 // 1-based mint index within the collection
	MintedAt     int64
	LastUpdated  int64
	Revision     int64 // store concurrency token
}

// #endregion asset

// #region mint-input
// MintInput carries everything a mint needs beyond the collection itself.
type MintInput struct {
	Fingerprint  [32]byte
	Signature    [64]byte
	AIConfidence float32
	Emotion      emotion.Vector
	URI          string
}

// #endregion mint-input

// #region policy
// Policy holds mint/update thresholds. The zero minimum matches historical
// behavior where confidence was recorded but never enforced.
type Policy struct {
	MinConfidence float32
}

// DefaultPolicy returns the permissive default.
func DefaultPolicy() Policy {
	return Policy{MinConfidence: 0}
}

// #endregion policy
