package game

import "math/rand/v2"

// Rand is the source of every roll the engine makes. Two engines fed the
// same sequence produce the same journeys and fights.
type Rand interface {
	IntN(n int) int
}

// NewRand returns a seeded PCG generator.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed>>8|3))
}

// random returns a value in [0, n), or 0 when n <= 0.
func random(r Rand, n int) int {
	if n <= 0 {
		return 0
	}
	return r.IntN(n)
}
