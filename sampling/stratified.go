package sampling

import (
	"math"
	"slices"

	"github.com/samber/lo"

	"github.com/YuminosukeSato/modelselect/core/random"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// StratifiedIndexSampler samples each class in proportion to its share of
// indices. Shares are rounded and the rounding remainder is given to the
// largest class (smallest label on ties) so the total is exactly
// sampleSize. A class with fewer members than its share is an error.
type StratifiedIndexSampler struct{}

// NewStratifiedIndexSampler creates a StratifiedIndexSampler.
func NewStratifiedIndexSampler() StratifiedIndexSampler { return StratifiedIndexSampler{} }

// Stratum is one class of a stratified draw.
type Stratum struct {
	Label   float64
	Members []int
	Share   int
}

// Strata groups indices by target label and computes each label's share of
// sampleSize. Strata are ordered by label.
func Strata(targets []float64, sampleSize int, indices []int) []Stratum {
	groups := lo.GroupBy(indices, func(idx int) float64 { return targets[idx] })
	labels := lo.Keys(groups)
	slices.Sort(labels)

	strata := make([]Stratum, len(labels))
	total := 0
	largest := 0
	for i, label := range labels {
		members := groups[label]
		share := int(math.Round(float64(sampleSize) * float64(len(members)) / float64(len(indices))))
		strata[i] = Stratum{Label: label, Members: members, Share: share}
		total += share
		if len(members) > len(strata[largest].Members) {
			largest = i
		}
	}
	strata[largest].Share += sampleSize - total
	return strata
}

// Sample implements IndexSampler.
func (StratifiedIndexSampler) Sample(targets []float64, sampleSize int, indices []int, seed uint64) ([]int, error) {
	if err := validate("StratifiedIndexSampler.Sample", targets, sampleSize, indices); err != nil {
		return nil, err
	}
	strata := Strata(targets, sampleSize, indices)
	for _, s := range strata {
		if s.Share < 0 {
			return nil, errors.NewValueError("StratifiedIndexSampler.Sample", "sample size too small to represent every class")
		}
		if s.Share > len(s.Members) {
			return nil, errors.NewStratumTooSmallError(s.Label, len(s.Members), s.Share)
		}
	}

	rng := random.NewGenerator(seed)
	sample := make([]int, 0, sampleSize)
	for _, s := range strata {
		sample = append(sample, rng.Sample(s.Members, s.Share)...)
	}
	rng.ShuffleInts(sample)
	return sample, nil
}
