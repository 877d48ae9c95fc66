package emotion

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
)

// CanonicalSize is the byte length of the canonical vector encoding.
const CanonicalSize = 24

// #region digest
// Digest computes the canonical 32-byte content digest of a vector:
// SHA-256 over the little-endian layout valence f32, arousal f32,
// dominance f32, confidence f32, timestamp int64 (24 bytes, in that
// field order). The layout is a compatibility surface; changing it
// changes every stored compressed state and asset fingerprint.
func Digest(v Vector) [32]byte {
	return sha256.Sum256(AppendCanonical(nil, v))
}

// AppendCanonical appends the canonical 24-byte encoding of v to buf.
func AppendCanonical(buf []byte, v Vector) []byte {
	var scratch [8]byte
	binary.LittleEndian.PutUint32(scratch[:4], math.Float32bits(v.Valence))
	buf = append(buf, scratch[:4]...)
	binary.LittleEndian.PutUint32(scratch[:4], math.Float32bits(v.Arousal))
	buf = append(buf, scratch[:4]...)
	binary.LittleEndian.PutUint32(scratch[:4], math.Float32bits(v.Dominance))
	buf = append(buf, scratch[:4]...)
	binary.LittleEndian.PutUint32(scratch[:4], math.Float32bits(v.Confidence))
	buf = append(buf, scratch[:4]...)
	binary.LittleEndian.PutUint64(scratch[:], uint64(v.Timestamp))
	buf = append(buf, scratch[:]...)
	return buf
}

// FromCanonical decodes a vector from its canonical 24-byte encoding.
func FromCanonical(buf []byte) (Vector, error) {
	if len(buf) != CanonicalSize {
		return Vector{}, fmt.Errorf("canonical vector must be %d bytes, got %d", CanonicalSize, len(buf))
	}
	return Vector{
		Valence:    math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4])),
		Arousal:    math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8])),
		Dominance:  math.Float32frombits(binary.LittleEndian.Uint32(buf[8:12])),
		Confidence: math.Float32frombits(binary.LittleEndian.Uint32(buf[12:16])),
		Timestamp:  int64(binary.LittleEndian.Uint64(buf[16:24])),
	}, nil
}

// #endregion digest
