package asset

import (
	"errors"
	"math"
	"testing"

	"github.com/neuroemotive/emotive-core/internal/emotion"
)

func testFingerprint() [32]byte {
	var fp [32]byte
	for i := range fp {
		fp[i] = byte(i)
	}
	return fp
}

func testMintInput() MintInput {
	return MintInput{
		Fingerprint:  testFingerprint(),
		AIConfidence: 0.9,
		Emotion:      emotion.Vector{Valence: 0.5, Arousal: 0.3, Dominance: 0.4, Confidence: 0.8, Timestamp: 1000},
		URI:          "ipfs://asset-meta",
	}
}

func TestNewCollection(t *testing.T) {
	col, err := NewCollection("col-1", "authority-1", "Neural Portraits", "NRP", "ipfs://col-meta")
	if err != nil {
		t.Fatalf("NewCollection: %v", err)
	}
	if col.TotalSupply != 0 {
		t.Fatalf("expected zero supply, got %d", col.TotalSupply)
	}
	if col.Authority != "authority-1" || col.Name != "Neural Portraits" {
		t.Fatalf("collection fields not applied: %+v", col)
	}

	if _, err := NewCollection("c", "", "n", "s", "u"); err == nil {
		t.Fatal("expected error for empty authority")
	}
	if _, err := NewCollection("c", "a", "", "s", "u"); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestMint(t *testing.T) {
	col, _ := NewCollection("col-1", "auth", "N", "N", "")

	col2, a, err := Mint(col, "asset-1", "alice", testMintInput(), DefaultPolicy(), 2000)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if col2.TotalSupply != 1 {
		t.Fatalf("expected supply 1, got %d", col2.TotalSupply)
	}
	if a.Generation != 1 {
		t.Fatalf("expected generation 1, got %d", a.Generation)
	}
	if a.CollectionID != "col-1" || a.Owner != "alice" {
		t.Fatalf("asset fields not applied: %+v", a)
	}
	if a.MintedAt != 2000 || a.LastUpdated != 2000 {
		t.Fatalf("expected timestamps 2000, got minted=%d updated=%d", a.MintedAt, a.LastUpdated)
	}

	// Generation is the 1-based mint index.
	_, b, err := Mint(col2, "asset-2", "bob", testMintInput(), DefaultPolicy(), 2001)
	if err != nil {
		t.Fatalf("second Mint: %v", err)
	}
	if b.Generation != 2 {
		t.Fatalf("expected generation 2, got %d", b.Generation)
	}

	// The input collection is untouched.
	if col.TotalSupply != 0 {
		t.Fatal("mint must not mutate the input collection")
	}
}

func TestMintRejects(t *testing.T) {
	col, _ := NewCollection("col-1", "auth", "N", "N", "")

	in := testMintInput()
	in.Fingerprint = [32]byte{}
	if _, _, err := Mint(col, "a", "alice", in, DefaultPolicy(), 0); !errors.Is(err, ErrInvalidFingerprint) {
		t.Fatalf("expected ErrInvalidFingerprint, got %v", err)
	}

	in = testMintInput()
	in.Emotion.Valence = 2
	if _, _, err := Mint(col, "a", "alice", in, DefaultPolicy(), 0); !errors.Is(err, emotion.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}

	in = testMintInput()
	in.AIConfidence = float32(math.NaN())
	if _, _, err := Mint(col, "a", "alice", in, DefaultPolicy(), 0); !errors.Is(err, emotion.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for NaN confidence, got %v", err)
	}

	if _, _, err := Mint(col, "a", "", testMintInput(), DefaultPolicy(), 0); err == nil {
		t.Fatal("expected error for empty owner")
	}

	in = testMintInput()
	in.AIConfidence = 0.4
	pol := Policy{MinConfidence: 0.5}
	if _, _, err := Mint(col, "a", "alice", in, pol, 0); !errors.Is(err, ErrLowConfidence) {
		t.Fatalf("expected ErrLowConfidence, got %v", err)
	}

	full := col
	full.TotalSupply = math.MaxUint64
	if _, _, err := Mint(full, "a", "alice", testMintInput(), DefaultPolicy(), 0); !errors.Is(err, ErrCollectionFull) {
		t.Fatalf("expected ErrCollectionFull, got %v", err)
	}
}

func TestUpdateEmotion(t *testing.T) {
	col, _ := NewCollection("col-1", "auth", "N", "N", "")
	_, a, _ := Mint(col, "asset-1", "alice", testMintInput(), DefaultPolicy(), 2000)

	var sig [64]byte
	sig[0] = 0xAB
	next := emotion.Vector{Valence: -0.2, Arousal: 0.8, Dominance: 0.1, Confidence: 0.6, Timestamp: 3000}

	a2, err := UpdateEmotion(a, next, sig, 0.7, DefaultPolicy(), 3000)
	if err != nil {
		t.Fatalf("UpdateEmotion: %v", err)
	}
	if a2.Emotion != next {
		t.Fatal("emotion not applied")
	}
	if a2.Signature != sig || a2.AIConfidence != 0.7 {
		t.Fatal("signature/confidence not applied")
	}
	if a2.LastUpdated != 3000 {
		t.Fatalf("expected last updated 3000, got %d", a2.LastUpdated)
	}

	// The fingerprint never changes after mint.
	if a2.Fingerprint != a.Fingerprint {
		t.Fatal("update must not touch the fingerprint")
	}
	if a2.MintedAt != a.MintedAt {
		t.Fatal("update must not touch the mint timestamp")
	}
}

func TestUpdateEmotionRejects(t *testing.T) {
	col, _ := NewCollection("col-1", "auth", "N", "N", "")
	_, a, _ := Mint(col, "asset-1", "alice", testMintInput(), DefaultPolicy(), 2000)

	bad := emotion.Vector{Arousal: -0.5}
	if _, err := UpdateEmotion(a, bad, [64]byte{}, 0.5, DefaultPolicy(), 0); !errors.Is(err, emotion.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}

	pol := Policy{MinConfidence: 0.8}
	if _, err := UpdateEmotion(a, a.Emotion, [64]byte{}, 0.5, pol, 0); !errors.Is(err, ErrLowConfidence) {
		t.Fatalf("expected ErrLowConfidence, got %v", err)
	}
}

func TestApplyTransfer(t *testing.T) {
	col, _ := NewCollection("col-1", "auth", "N", "N", "")
	_, a, _ := Mint(col, "asset-1", "alice", testMintInput(), DefaultPolicy(), 2000)

	b := ApplyTransfer(a, "bob", 4000)
	if b.Owner != "bob" {
		t.Fatalf("expected owner bob, got %s", b.Owner)
	}
	if b.LastUpdated != 4000 {
		t.Fatalf("expected last updated 4000, got %d", b.LastUpdated)
	}
	if b.Fingerprint != a.Fingerprint || b.Emotion != a.Emotion {
		t.Fatal("transfer must not touch fingerprint or emotion")
	}
	if a.Owner != "alice" {
		t.Fatal("transfer must not mutate the input asset")
	}
}
