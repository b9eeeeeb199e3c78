// Package model_selection provides train/test splitting, k-fold
// cross-validation and learning curves on top of the Learner, Model and
// Metric contracts in core/model.
//
// All randomness comes from explicit seeds: running any operation twice
// with the same seed on the same input gives the same partitions.
package model_selection

import (
	"math"

	"github.com/bits-and-blooms/bitset"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/core/model"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
	"github.com/YuminosukeSato/modelselect/pkg/log"
	"github.com/YuminosukeSato/modelselect/sampling"
)

// TrainingTestIndexSplit holds disjoint training and test row indices whose
// union is every row.
type TrainingTestIndexSplit struct {
	TrainingIndices []int
	TestIndices     []int
}

// ObservationTargetSet is a materialised subset of rows.
type ObservationTargetSet struct {
	Observations *mat.Dense
	Targets      []float64
	Indices      []int
}

// TrainingTestSetSplit is the result of SplitSet.
type TrainingTestSetSplit struct {
	TrainingSet ObservationTargetSet
	TestSet     ObservationTargetSet
}

// TrainingTestIndexSplitter splits rows into a training and a test set.
type TrainingTestIndexSplitter struct {
	sampler            sampling.IndexSampler
	trainingPercentage float64
	seed               uint64
	opts               options
}

// NewRandomTrainingTestIndexSplitter draws the training rows uniformly.
func NewRandomTrainingTestIndexSplitter(trainingPercentage float64, seed uint64, opts ...Option) *TrainingTestIndexSplitter {
	return &TrainingTestIndexSplitter{
		sampler:            sampling.NewRandomIndexSampler(),
		trainingPercentage: trainingPercentage,
		seed:               seed,
		opts:               newOptions(opts),
	}
}

// NewStratifiedTrainingTestIndexSplitter draws the training rows per class
// so that every class is represented in the training set at roughly
// trainingPercentage of its size.
func NewStratifiedTrainingTestIndexSplitter(trainingPercentage float64, seed uint64, opts ...Option) *TrainingTestIndexSplitter {
	return &TrainingTestIndexSplitter{
		sampler:            sampling.NewStratifiedIndexSampler(),
		trainingPercentage: trainingPercentage,
		seed:               seed,
		opts:               newOptions(opts),
	}
}

// Validate checks the configuration.
func (s *TrainingTestIndexSplitter) Validate() error {
	return validateTrainingPercentage(s.trainingPercentage)
}

func validateTrainingPercentage(p float64) error {
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		return errors.NewValidationError("trainingPercentage", "must be in the open interval (0, 1)", p)
	}
	return nil
}

// Split computes the index split for targets.
func (s *TrainingTestIndexSplitter) Split(targets []float64) (TrainingTestIndexSplit, error) {
	if err := s.Validate(); err != nil {
		return TrainingTestIndexSplit{}, err
	}
	return s.splitIndices(targets, lo.Range(len(targets)))
}

// splitIndices splits a subset of rows. The test set is the complement of
// the training set within indices, in ascending order.
func (s *TrainingTestIndexSplitter) splitIndices(targets []float64, indices []int) (TrainingTestIndexSplit, error) {
	n := len(indices)
	if n == 0 {
		return TrainingTestIndexSplit{}, errors.NewModelError("Split", "no rows to split", errors.ErrEmptyData)
	}
	trainingSize := int(math.Round(s.trainingPercentage * float64(n)))
	if trainingSize < 1 || trainingSize >= n {
		return TrainingTestIndexSplit{}, errors.NewValueError("Split",
			"training percentage leaves the training or the test set empty")
	}

	training, err := s.sampler.Sample(targets, trainingSize, indices, s.seed)
	if err != nil {
		return TrainingTestIndexSplit{}, err
	}

	mask := bitset.New(uint(len(targets)))
	for _, idx := range training {
		mask.Set(uint(idx))
	}
	test := make([]int, 0, n-trainingSize)
	for _, idx := range lo.Uniq(indices) {
		if !mask.Test(uint(idx)) {
			test = append(test, idx)
		}
	}
	test = sortedCopy(test)

	s.opts.logger.Debug("split computed",
		log.OperationKey, log.OperationSplit,
		log.SamplesKey, n,
		log.TrainingSamplesKey, len(training),
		log.TestSamplesKey, len(test),
		log.RandomSeedKey, s.seed,
	)
	return TrainingTestIndexSplit{TrainingIndices: training, TestIndices: test}, nil
}

// SplitSet splits observations and targets into a training and a test set.
func (s *TrainingTestIndexSplitter) SplitSet(X mat.Matrix, y []float64) (TrainingTestSetSplit, error) {
	if err := s.Validate(); err != nil {
		return TrainingTestSetSplit{}, err
	}
	if err := model.CheckObservations("SplitSet", X, y); err != nil {
		return TrainingTestSetSplit{}, err
	}
	split, err := s.Split(y)
	if err != nil {
		return TrainingTestSetSplit{}, err
	}
	return TrainingTestSetSplit{
		TrainingSet: subset(X, y, split.TrainingIndices),
		TestSet:     subset(X, y, split.TestIndices),
	}, nil
}

func subset(X mat.Matrix, y []float64, indices []int) ObservationTargetSet {
	return ObservationTargetSet{
		Observations: model.Rows(X, indices),
		Targets:      model.Targets(y, indices),
		Indices:      indices,
	}
}
