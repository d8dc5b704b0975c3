package sqlite

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// serializeVector converts a float32 slice to a LittleEndian byte slice.
func serializeVector(vec []float32) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Grow(len(vec) * 4)
	if err := binary.Write(buf, binary.LittleEndian, vec); err != nil {
		return nil, fmt.Errorf("failed to serialize vector: %w", err)
	}
	return buf.Bytes(), nil
}

func deserializeVector(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("vector blob length %d is not a multiple of 4", len(blob))
	}
	vec := make([]float32, len(blob)/4)
	if err := binary.Read(bytes.NewReader(blob), binary.LittleEndian, vec); err != nil {
		return nil, fmt.Errorf("failed to deserialize vector: %w", err)
	}
	return vec, nil
}

// normalize returns vec scaled to unit length. A zero vector is returned as is.
func normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}

// squaredL2 is sum((a_i - b_i)^2). For unit vectors it equals 2 - 2*cos(a, b).
func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
