package stego

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

// streamDecorrelator is XORed into the seed hash to derive the y stream.
const streamDecorrelator = 0x55555555

// entropySeed supplies the seed string for unseeded calls.
var entropySeed = func() string {
	return uuid.NewString()
}

// IntSource draws uniform integers in [0, n).
type IntSource interface {
	IntN(n int) int
}

// SeedState is the per-call randomness derived from a seed string.
type SeedState struct {
	// Seed is the string actually hashed. For unseeded calls it is the
	// generated fallback, so the call can be reproduced later.
	Seed string

	// Fallback is true when Seed was generated because the caller gave none.
	Fallback bool

	// Hash is the polynomial hash of Seed.
	Hash uint64

	// X and Y are independent streams used for x and y sampling.
	X IntSource
	Y IntSource
}

// ExpandSeed hashes seed and seeds the two coordinate streams from it. An
// empty seed is replaced by a random one.
func ExpandSeed(seed string) *SeedState {
	fallback := false
	if seed == "" {
		seed = entropySeed()
		fallback = true
	}
	h := HashSeed(seed)
	return &SeedState{
		Seed:     seed,
		Fallback: fallback,
		Hash:     h,
		X:        newStream(h),
		Y:        newStream(h ^ streamDecorrelator),
	}
}

// HashSeed computes hash = hash*31 + b over the bytes of seed, starting from
// zero and wrapping at 64 bits.
func HashSeed(seed string) uint64 {
	var h uint64
	for i := 0; i < len(seed); i++ {
		h = h*31 + uint64(seed[i])
	}
	return h
}

func newStream(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}
