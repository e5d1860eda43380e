package sampling

import (
	"math/rand"

	"github.com/achilleasa/prism/types"
)

// Rng is a seeded uniform random number generator. An Rng must not be
// shared between goroutines; each worker should own its own instance.
type Rng struct {
	r *rand.Rand
}

// Create a new generator using the given seed.
func NewRng(seed int64) *Rng {
	return &Rng{r: rand.New(rand.NewSource(seed))}
}

// Get a uniform number in [0, 1).
func (rng *Rng) U() float32 {
	return rng.r.Float32()
}

// Get a pair of uniform numbers in [0, 1)^2.
func (rng *Rng) U2() types.Vec2 {
	return types.Vec2{rng.r.Float32(), rng.r.Float32()}
}

// Get a seed for a derived generator.
func (rng *Rng) Seed() int64 {
	return rng.r.Int63()
}
