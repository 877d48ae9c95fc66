package emotion

import (
	"errors"
	"math"
	"testing"
)

func TestValidateAccepts(t *testing.T) {
	cases := []struct {
		name string
		vec  Vector
	}{
		{"zero", Vector{}},
		{"typical", Vector{Valence: 0.4, Arousal: 0.6, Dominance: 0.2, Confidence: 0.9, Timestamp: 1000}},
		{"valence floor", Vector{Valence: -1}},
		{"valence ceil", Vector{Valence: 1}},
		{"all ones", Vector{Valence: 1, Arousal: 1, Dominance: 1, Confidence: 1}},
		{"negative timestamp", Vector{Timestamp: -5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.vec.Validate(); err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
		})
	}
}

func TestValidateRejects(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	cases := []struct {
		name string
		vec  Vector
	}{
		{"valence over", Vector{Valence: 1.5}},
		{"valence under", Vector{Valence: -1.01}},
		{"valence nan", Vector{Valence: nan}},
		{"arousal negative", Vector{Arousal: -0.1}},
		{"arousal over", Vector{Arousal: 2}},
		{"arousal inf", Vector{Arousal: inf}},
		{"dominance over", Vector{Dominance: 1.2}},
		{"confidence nan", Vector{Confidence: nan}},
		{"confidence neg inf", Vector{Confidence: float32(math.Inf(-1))}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.vec.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalidRange) {
				t.Fatalf("expected ErrInvalidRange, got %v", err)
			}
		})
	}
}

func TestIsZero(t *testing.T) {
	if !(Vector{}).IsZero() {
		t.Fatal("zero vector should report IsZero")
	}
	if (Vector{Timestamp: 1}).IsZero() {
		t.Fatal("non-zero timestamp should not report IsZero")
	}
	if (Vector{Valence: 0.1}).IsZero() {
		t.Fatal("non-zero valence should not report IsZero")
	}
}

func TestFinite(t *testing.T) {
	if Finite(float32(math.NaN())) {
		t.Fatal("NaN should not be finite")
	}
	if Finite(float32(math.Inf(1))) {
		t.Fatal("+Inf should not be finite")
	}
	if !Finite(0.5) {
		t.Fatal("0.5 should be finite")
	}
}
