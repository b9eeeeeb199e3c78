package model_selection

import (
	"math"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

func TestRandomTrainingTestIndexSplitter_SplitSet(t *testing.T) {
	X, y := identityObservations(20)
	splitter := NewRandomTrainingTestIndexSplitter(0.7, 24)

	split, err := splitter.SplitSet(X, y)
	require.NoError(t, err)

	train, test := split.TrainingSet, split.TestSet
	assert.Len(t, train.Targets, 14)
	assert.Len(t, test.Targets, 6)
	r, c := train.Observations.Dims()
	assert.Equal(t, 14, r)
	assert.Equal(t, 2, c)

	// rows stay aligned with their targets
	for i, idx := range train.Indices {
		assert.Equal(t, float64(idx), train.Observations.At(i, 0))
		assert.Equal(t, y[idx], train.Targets[i])
	}

	// disjoint and complete
	all := append(append([]int{}, train.Indices...), test.Indices...)
	assert.ElementsMatch(t, lo.Range(20), all)
	assert.Empty(t, lo.Intersect(train.Indices, test.Indices))
	assert.IsIncreasing(t, test.Indices)
}

func TestTrainingTestIndexSplitter_Deterministic(t *testing.T) {
	_, y := identityObservations(50)
	for _, seed := range []uint64{1, 24, 99} {
		a, err := NewRandomTrainingTestIndexSplitter(0.6, seed).Split(y)
		require.NoError(t, err)
		b, err := NewRandomTrainingTestIndexSplitter(0.6, seed).Split(y)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}

	a, _ := NewRandomTrainingTestIndexSplitter(0.6, 1).Split(y)
	b, _ := NewRandomTrainingTestIndexSplitter(0.6, 2).Split(y)
	assert.NotEqual(t, a.TrainingIndices, b.TrainingIndices)
}

func TestStratifiedTrainingTestIndexSplitter(t *testing.T) {
	// 40 / 40 / 20 rows of three classes
	y := make([]float64, 100)
	for i := range y {
		switch {
		case i < 40:
			y[i] = 0
		case i < 80:
			y[i] = 1
		default:
			y[i] = 2
		}
	}
	X := mat.NewDense(100, 1, nil)

	split, err := NewStratifiedTrainingTestIndexSplitter(0.7, 42).SplitSet(X, y)
	require.NoError(t, err)

	counts := lo.CountValues(split.TrainingSet.Targets)
	totals := lo.CountValues(y)
	for label, total := range totals {
		ratio := float64(counts[label]) / float64(total)
		assert.InDelta(t, 0.7, ratio, 1.0/float64(total)+1e-9, "class %v", label)
	}
	assert.Len(t, split.TrainingSet.Targets, 70)
}

func TestTrainingTestIndexSplitter_Errors(t *testing.T) {
	X, y := identityObservations(10)

	for _, p := range []float64{0, 1, -0.5, 1.5} {
		_, err := NewRandomTrainingTestIndexSplitter(p, 1).SplitSet(X, y)
		assert.True(t, errors.IsConfigurationError(err), "p=%v", p)
	}

	_, err := NewRandomTrainingTestIndexSplitter(0.7, 1).SplitSet(X, y[:9])
	assert.True(t, errors.IsDataError(err))

	// two rows at 0.9 would leave the test set empty
	_, err = NewRandomTrainingTestIndexSplitter(0.9, 1).Split([]float64{1, 2})
	var valueErr *errors.ValueError
	assert.True(t, errors.As(err, &valueErr))
}

func TestStratifiedTrainingTestIndexSplitter_NaNLabels(t *testing.T) {
	nan := math.NaN()
	_, err := NewStratifiedTrainingTestIndexSplitter(0.5, 24).Split([]float64{nan, nan, nan, 1, 1, 1})
	var valueErr *errors.ValueError
	assert.True(t, errors.As(err, &valueErr))
}
