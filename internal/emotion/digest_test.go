package emotion

import (
	"bytes"
	"testing"
)

func TestDigestDeterministic(t *testing.T) {
	v := Vector{Valence: 0.4, Arousal: 0.6, Dominance: 0.2, Confidence: 0.9, Timestamp: 1000}
	a := Digest(v)
	b := Digest(v)
	if a != b {
		t.Fatal("same vector must produce the same digest")
	}
}

func TestDigestSensitivity(t *testing.T) {
	base := Vector{Valence: 0.4, Arousal: 0.6, Dominance: 0.2, Confidence: 0.9, Timestamp: 1000}
	ref := Digest(base)

	mutations := []struct {
		name string
		vec  Vector
	}{
		{"valence", func(v Vector) Vector { v.Valence = 0.41; return v }(base)},
		{"arousal", func(v Vector) Vector { v.Arousal = 0.61; return v }(base)},
		{"dominance", func(v Vector) Vector { v.Dominance = 0.21; return v }(base)},
		{"confidence", func(v Vector) Vector { v.Confidence = 0.91; return v }(base)},
		{"timestamp", func(v Vector) Vector { v.Timestamp = 1001; return v }(base)},
	}
	for _, m := range mutations {
		t.Run(m.name, func(t *testing.T) {
			if Digest(m.vec) == ref {
				t.Fatalf("changing %s did not change the digest", m.name)
			}
		})
	}
}

func TestAppendCanonicalLayout(t *testing.T) {
	// valence 1.0 = float32 bits 0x3F800000, little-endian 00 00 80 3F;
	// timestamp 1 = 01 followed by seven zero bytes.
	v := Vector{Valence: 1, Timestamp: 1}
	got := AppendCanonical(nil, v)

	want := []byte{
		0x00, 0x00, 0x80, 0x3F, // valence
		0x00, 0x00, 0x00, 0x00, // arousal
		0x00, 0x00, 0x00, 0x00, // dominance
		0x00, 0x00, 0x00, 0x00, // confidence
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // timestamp
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("canonical layout mismatch:\n got %x\nwant %x", got, want)
	}
	if len(got) != 24 {
		t.Fatalf("expected 24 canonical bytes, got %d", len(got))
	}
}

func TestAppendCanonicalReusesBuffer(t *testing.T) {
	prefix := []byte{0xAA}
	out := AppendCanonical(prefix, Vector{})
	if len(out) != 25 {
		t.Fatalf("expected prefix + 24 bytes, got %d", len(out))
	}
	if out[0] != 0xAA {
		t.Fatal("prefix byte lost")
	}
}
