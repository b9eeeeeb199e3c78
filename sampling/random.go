package sampling

import (
	"github.com/YuminosukeSato/modelselect/core/random"
)

// RandomIndexSampler samples uniformly without replacement. Asking for all
// indices returns a permutation of them.
type RandomIndexSampler struct{}

// NewRandomIndexSampler creates a RandomIndexSampler.
func NewRandomIndexSampler() RandomIndexSampler { return RandomIndexSampler{} }

// Sample implements IndexSampler.
func (RandomIndexSampler) Sample(targets []float64, sampleSize int, indices []int, seed uint64) ([]int, error) {
	if err := validate("RandomIndexSampler.Sample", targets, sampleSize, indices); err != nil {
		return nil, err
	}
	return random.NewGenerator(seed).Sample(indices, sampleSize), nil
}
