package randval

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	mathrand "math/rand/v2"
)

const (
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

	// maxIDLength is a policy ceiling inherited from the upstream record
	// format, not a technical limit. Do not relax without confirming with
	// the pipeline owners.
	maxIDLength = 25
)

// ErrInvalidLength is returned when an id length is missing or exceeds the
// supported ceiling.
var ErrInvalidLength = errors.New("randval: unsupported id length")

// Integer returns a uniformly distributed integer in [min, max], inclusive
// of both bounds.
func Integer(min, max int) int {
	if max <= min {
		return min
	}
	return min + mathrand.IntN(max-min+1)
}

// Decimal returns a uniformly distributed value in [min, max), rounded to
// places decimal places. A negative places leaves the value unrounded.
func Decimal(min, max float64, places int) float64 {
	value := min + mathrand.Float64()*(max-min)
	if places < 0 {
		return value
	}
	scale := math.Pow10(places)
	return math.Round(value*scale) / scale
}

// ID returns a string of length lowercase-alphanumeric characters, each
// derived from one cryptographically random byte by modulo mapping onto the
// 36-symbol alphabet.
func ID(length int) (string, error) {
	if length <= 0 || length > maxIDLength {
		return "", fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("randval: read random bytes: %w", err)
	}
	out := make([]byte, length)
	for i, b := range buf {
		out[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return string(out), nil
}
