package flock

import (
	"math"
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-schools-of-fish/pkg/geometry"
)

// RandomSource is the only randomness the simulation needs: uniform floats in [0,1).
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	Float64() float64
}

// NewRandomSource returns a PCG backed source. seed 0 picks a random seed.
func NewRandomSource(seed uint64) RandomSource {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// randRange returns a uniform value in [lo, hi).
func randRange(rng RandomSource, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// randPointIn picks a uniform point inside b.
func randPointIn(rng RandomSource, b geometry.Boundary) geometry.Vector2D {
	return geometry.Vector2D{
		X: randRange(rng, b.Min.X, b.Max.X),
		Y: randRange(rng, b.Min.Y, b.Max.Y),
	}
}

// randDirection picks a unit vector with a uniform heading.
func randDirection(rng RandomSource) geometry.Vector2D {
	return geometry.NewVectorPolar(1, rng.Float64()*2*math.Pi)
}
