package store

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/neuroemotive/emotive-core/internal/emotion"
)

// #region vector-encoding
// Vectors persist in the canonical 24-byte layout so the stored bytes are
// bit-identical to what the content digest hashes.
func encodeVector(v emotion.Vector) []byte {
	return emotion.AppendCanonical(nil, v)
}

func decodeVector(b []byte) (emotion.Vector, error) {
	return emotion.FromCanonical(b)
}

// encodeHistory concatenates canonical encodings in order.
func encodeHistory(history []emotion.Vector) []byte {
	buf := make([]byte, 0, len(history)*emotion.CanonicalSize)
	for _, v := range history {
		buf = emotion.AppendCanonical(buf, v)
	}
	return buf
}

func decodeHistory(b []byte) ([]emotion.Vector, error) {
	if len(b)%emotion.CanonicalSize != 0 {
		return nil, fmt.Errorf("history blob length %d is not a multiple of %d", len(b), emotion.CanonicalSize)
	}
	n := len(b) / emotion.CanonicalSize
	if n == 0 {
		return nil, nil
	}
	history := make([]emotion.Vector, 0, n)
	for i := 0; i < n; i++ {
		v, err := emotion.FromCanonical(b[i*emotion.CanonicalSize : (i+1)*emotion.CanonicalSize])
		if err != nil {
			return nil, fmt.Errorf("history entry %d: %w", i, err)
		}
		history = append(history, v)
	}
	return history, nil
}

// #endregion vector-encoding

// #region params-encoding
func encodeParams(params []float32) []byte {
	if params == nil {
		return nil
	}
	buf := make([]byte, len(params)*4)
	for i, f := range params {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeParams(b []byte) []float32 {
	if len(b) < 4 {
		return nil
	}
	params := make([]float32, len(b)/4)
	for i := range params {
		params[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return params
}

// #endregion params-encoding

// #region byte-helpers
func bytes32(b []byte) [32]byte {
	var out [32]byte
	copy(out[:], b)
	return out
}

func bytes64(b []byte) [64]byte {
	var out [64]byte
	copy(out[:], b)
	return out
}

// nullIfZero32 maps an all-zero hash to NULL so unset digests stay out of
// the table.
func nullIfZero32(h [32]byte) interface{} {
	if h == ([32]byte{}) {
		return nil
	}
	return h[:]
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion byte-helpers
