package sampling

import (
	"golang.org/x/exp/rand"
)

// NewSource creates a seedable random source for sampling calls.
// Sources are not safe for concurrent use; give each worker its own.
func NewSource(seed uint64) rand.Source {
	return rand.NewSource(seed)
}

// MixSeed derives a sub-stream seed from a run seed and a stream index.
// Distinct indices yield independent streams for the same run seed, so
// per-stream generation stays deterministic regardless of evaluation
// order. SplitMix64 finalizer.
func MixSeed(seed, stream uint64) uint64 {
	z := seed + stream*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
