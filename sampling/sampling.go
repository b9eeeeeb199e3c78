// Package sampling draws subsets of row indices. It is the source of
// randomness for the splitters and learning-curve calculators.
//
// Both samplers take the seed as an argument and keep no state, so the same
// (seed, indices, sampleSize) always produces the same output.
package sampling

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// IndexSampler draws sampleSize distinct indices from indices. targets is
// indexed by the values in indices.
type IndexSampler interface {
	Sample(targets []float64, sampleSize int, indices []int, seed uint64) ([]int, error)
}

func validate(op string, targets []float64, sampleSize int, indices []int) error {
	if len(indices) == 0 {
		return errors.NewModelError(op, "no indices to sample from", errors.ErrEmptyData)
	}
	if sampleSize < 1 || sampleSize > len(indices) {
		return errors.NewValidationError("sampleSize", "must be in [1, len(indices)]", sampleSize)
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(targets) {
			return errors.NewValidationError("indices", "index outside the target range", idx)
		}
		if math.IsNaN(targets[idx]) {
			return errors.NewValueError(op, fmt.Sprintf("target at index %d is NaN", idx))
		}
	}
	return nil
}
