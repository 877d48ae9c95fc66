package asset

import (
	"fmt"
	"math"

	"github.com/neuroemotive/emotive-core/internal/emotion"
)

// #region collection-ops
// NewCollection builds an empty collection owned by authority.
func NewCollection(id, authority, name, symbol, uri string) (Collection, error) {
	if authority == "" {
		return Collection{}, fmt.Errorf("new collection: authority required")
	}
	if name == "" {
		return Collection{}, fmt.Errorf("new collection: name required")
	}
	return Collection{
		ID:        id,
		Authority: authority,
		Name:      name,
		Symbol:    symbol,
		URI:       uri,
	}, nil
}

// #endregion collection-ops

// #region mint
// Mint creates an asset in col and advances the supply counter. Generation
// is the 1-based mint index, so the collection and asset must persist
// together. Pure: inputs are not mutated.
func Mint(col Collection, id, owner string, in MintInput, pol Policy, now int64) (Collection, Asset, error) {
	if owner == "" {
		return Collection{}, Asset{}, fmt.Errorf("mint asset: owner required")
	}
	if in.Fingerprint == ([32]byte{}) {
		return Collection{}, Asset{}, fmt.Errorf("mint asset: %w", ErrInvalidFingerprint)
	}
	if err := in.Emotion.Validate(); err != nil {
		return Collection{}, Asset{}, fmt.Errorf("mint asset: %w", err)
	}
	if err := emotion.CheckUnit("ai confidence", in.AIConfidence); err != nil {
		return Collection{}, Asset{}, fmt.Errorf("mint asset: %w", err)
	}
	if in.AIConfidence < pol.MinConfidence {
		return Collection{}, Asset{}, fmt.Errorf("mint asset: confidence %v below %v: %w", in.AIConfidence, pol.MinConfidence, ErrLowConfidence)
	}
	if col.TotalSupply == math.MaxUint64 {
		return Collection{}, Asset{}, fmt.Errorf("mint asset: %w", ErrCollectionFull)
	}

	a := Asset{
		ID:           id,
		CollectionID: col.ID,
		Owner:        owner,
		Fingerprint:  in.Fingerprint,
		Signature:    in.Signature,
		AIConfidence: in.AIConfidence,
		Emotion:      in.Emotion,
		URI:          in.URI,
		Generation:   col.TotalSupply + 1,
		MintedAt:     now,
		LastUpdated:  now,
	}
	col.TotalSupply++
	return col, a, nil
}

// #endregion mint

// #region update-emotion
// UpdateEmotion refreshes the asset's emotional state, signature, and
// confidence. Ownership is asserted by the engine before this runs; the
// fingerprint is untouched.
func UpdateEmotion(a Asset, vec emotion.Vector, sig [64]byte, confidence float32, pol Policy, now int64) (Asset, error) {
	if err := vec.Validate(); err != nil {
		return Asset{}, fmt.Errorf("update emotion: %w", err)
	}
	if err := emotion.CheckUnit("ai confidence", confidence); err != nil {
		return Asset{}, fmt.Errorf("update emotion: %w", err)
	}
	if confidence < pol.MinConfidence {
		return Asset{}, fmt.Errorf("update emotion: confidence %v below %v: %w", confidence, pol.MinConfidence, ErrLowConfidence)
	}
	a.Emotion = vec
	a.Signature = sig
	a.AIConfidence = confidence
	a.LastUpdated = now
	return a, nil
}

// #endregion update-emotion

// #region transfer
// ApplyTransfer commits an ownership change that already passed the gate.
func ApplyTransfer(a Asset, newOwner string, now int64) Asset {
	a.Owner = newOwner
	a.LastUpdated = now
	return a
}

// #endregion transfer
