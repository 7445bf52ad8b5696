package internal

import "math"

// Round2 rounds v to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ExtendPath returns a new slice holding path followed by next.
// The input is never aliased, so sibling paths can share a parent safely.
func ExtendPath[T any](path []T, next T) []T {
	out := make([]T, len(path), len(path)+1)
	copy(out, path)
	return append(out, next)
}
