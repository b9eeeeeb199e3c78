// Package random provides the seeded generator threaded through every
// sampling call. Nothing in the module uses a global random source: each
// operation builds its own Generator from an explicit seed, so identical
// seeds give identical output on every platform.
package random

import (
	"math"
	"math/rand/v2"
)

// Generator wraps a PCG-backed *rand.Rand.
type Generator struct {
	*rand.Rand
}

// NewGenerator creates a Generator for seed.
func NewGenerator(seed uint64) Generator {
	return Generator{rand.New(rand.NewPCG(seed, seed))}
}

// DeriveSeed returns an independent seed for a sub-stream (a fold, a
// repetition, a tree) of a base seed. It applies the splitmix64 finaliser.
func DeriveSeed(seed, stream uint64) uint64 {
	z := seed + (stream+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// ShuffleInts permutes values in place.
func (rng Generator) ShuffleInts(values []int) {
	rng.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})
}

// Uniform draws from [low, high).
func (rng Generator) Uniform(low, high float64) float64 {
	return low + rng.Float64()*(high-low)
}

// LogUniform draws from [low, high) with density proportional to 1/x.
// Both bounds must be positive.
func (rng Generator) LogUniform(low, high float64) float64 {
	return math.Exp(rng.Uniform(math.Log(low), math.Log(high)))
}

// UniformVector fills a vector with draws from [low, high).
func (rng Generator) UniformVector(size int, low, high float64) []float64 {
	ret := make([]float64, size)
	for i := range ret {
		ret[i] = rng.Uniform(low, high)
	}
	return ret
}

// NormalVector fills a vector with normal draws.
func (rng Generator) NormalVector(size int, mean, stdDev float64) []float64 {
	ret := make([]float64, size)
	for i := range ret {
		ret[i] = rng.NormFloat64()*stdDev + mean
	}
	return ret
}

// Sample draws k distinct values from population without replacement using
// a partial Fisher-Yates shuffle on a copy. population is not modified.
func (rng Generator) Sample(population []int, k int) []int {
	pool := make([]int, len(population))
	copy(pool, population)
	for i := 0; i < k; i++ {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

// Bootstrap draws n indices in [0, n) with replacement.
func (rng Generator) Bootstrap(n int) []int {
	ret := make([]int, n)
	for i := range ret {
		ret[i] = rng.IntN(n)
	}
	return ret
}
