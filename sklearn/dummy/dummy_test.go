package dummy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/core/model"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

func TestDummyRegressor(t *testing.T) {
	X := mat.NewDense(5, 1, nil)
	y := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 100})

	mean := NewDummyRegressor("mean")
	require.NoError(t, mean.Fit(X, y))
	pred, err := mean.Predict(mat.NewDense(2, 3, nil))
	require.NoError(t, err)
	assert.Equal(t, []float64{22, 22}, model.Column(pred, 0))

	median := NewDummyRegressor("median")
	require.NoError(t, median.Fit(X, y))
	pred, err = median.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, 3.0, pred.At(4, 0))

	assert.True(t, errors.IsConfigurationError(NewDummyRegressor("mode").Fit(X, y)))
	_, err = NewDummyRegressor("mean").Predict(X)
	assert.Error(t, err)
}

func TestDummyClassifier(t *testing.T) {
	X := mat.NewDense(6, 1, nil)
	y := mat.NewDense(6, 1, []float64{2, 1, 2, 3, 2, 1})

	prior := NewDummyClassifier("prior")
	require.NoError(t, prior.Fit(X, y))
	assert.Equal(t, []float64{1, 2, 3}, prior.Classes())

	proba, err := prior.PredictProba(mat.NewDense(1, 1, nil))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2.0 / 6, 3.0 / 6, 1.0 / 6}, mat.Row(nil, 0, proba), 1e-12)

	pred, err := prior.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, 2.0, pred.At(0, 0))

	mostFrequent := NewDummyClassifier("most_frequent")
	require.NoError(t, mostFrequent.Fit(X, y))
	proba, err = mostFrequent.PredictProba(mat.NewDense(1, 1, nil))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 0}, mat.Row(nil, 0, proba))
}

func TestDummyClassifier_TieGoesToSmallerLabel(t *testing.T) {
	d := NewDummyClassifier("most_frequent")
	require.NoError(t, d.Fit(mat.NewDense(4, 1, nil), mat.NewDense(4, 1, []float64{5, 3, 5, 3})))
	pred, err := d.Predict(mat.NewDense(1, 1, nil))
	require.NoError(t, err)
	assert.Equal(t, 3.0, pred.At(0, 0))
}

func TestDummyAsLearner(t *testing.T) {
	learner := model.NewProbabilityEstimatorLearner(func() model.ProbabilityEstimator {
		return NewDummyClassifier("prior")
	})
	m, err := learner.Learn(mat.NewDense(4, 1, nil), []float64{0, 1, 1, 1})
	require.NoError(t, err)
	pred, err := m.Predict(mat.NewDense(1, 1, nil))
	require.NoError(t, err)
	assert.Equal(t, 1.0, pred[0].Prediction)
	assert.InDelta(t, 0.75, pred[0].Probabilities[1], 1e-12)
}
