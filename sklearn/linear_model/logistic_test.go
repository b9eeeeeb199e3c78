package linear_model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/core/model"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

func TestLogisticRegression_FitPredict_Binary(t *testing.T) {
	// Class 0 around (1, 1), class 1 around (3, 3).
	X := mat.NewDense(6, 2, []float64{
		0.5, 0.5,
		1.0, 1.5,
		1.5, 1.0,
		3.0, 2.5,
		2.5, 3.0,
		3.5, 3.5,
	})
	y := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})

	lr := NewLogisticRegression(WithLRMaxIter(1000), WithLRC(100))
	require.NoError(t, lr.Fit(X, y))

	pred, err := lr.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 1, 1, 1}, model.Column(pred, 0))

	pred, err = lr.Predict(mat.NewDense(2, 2, []float64{1, 1, 3, 3}))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, model.Column(pred, 0))
	assert.Equal(t, []float64{0, 1}, lr.Classes())
}

func TestLogisticRegression_PredictProba(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{-2, -1, 1, 2})
	y := mat.NewDense(4, 1, []float64{3, 3, 7, 7})
	lr := NewLogisticRegression(WithLRMaxIter(500))
	require.NoError(t, lr.Fit(X, y))

	proba, err := lr.PredictProba(mat.NewDense(3, 1, []float64{-3, 0, 3}))
	require.NoError(t, err)
	r, c := proba.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 2, c)
	for i := 0; i < r; i++ {
		assert.InDelta(t, 1, proba.At(i, 0)+proba.At(i, 1), 1e-12)
	}
	assert.Greater(t, proba.At(0, 0), 0.5)
	assert.InDelta(t, 0.5, proba.At(1, 1), 0.05)
	assert.Greater(t, proba.At(2, 1), 0.5)
}

func TestLogisticRegression_Multiclass(t *testing.T) {
	X := mat.NewDense(9, 2, []float64{
		0, 0, 0.5, 0, 0, 0.5,
		5, 0, 5.5, 0, 5, 0.5,
		0, 5, 0.5, 5, 0, 5.5,
	})
	y := mat.NewDense(9, 1, []float64{1, 1, 1, 2, 2, 2, 3, 3, 3})
	lr := NewLogisticRegression(WithLRMaxIter(2000), WithLRC(100))
	require.NoError(t, lr.Fit(X, y))
	assert.Len(t, lr.Coefficients(), 3)
	assert.Len(t, lr.NIter(), 3)

	pred, err := lr.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1, 2, 2, 2, 3, 3, 3}, model.Column(pred, 0))
}

func TestLogisticRegression_Regularization(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{-3, -2, -1, 1, 2, 3})
	y := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})

	weak := NewLogisticRegression(WithLRC(100), WithLRMaxIter(300))
	strong := NewLogisticRegression(WithLRC(0.01), WithLRMaxIter(300))
	require.NoError(t, weak.Fit(X, y))
	require.NoError(t, strong.Fit(X, y))
	assert.Less(t, strong.Coefficients()[0][0], weak.Coefficients()[0][0])
}

func TestLogisticRegression_Errors(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})

	_, err := NewLogisticRegression().Predict(X)
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))

	err = NewLogisticRegression(WithLRC(0)).Fit(X, mat.NewDense(4, 1, []float64{0, 0, 1, 1}))
	assert.True(t, errors.IsConfigurationError(err))

	err = NewLogisticRegression().Fit(X, mat.NewDense(4, 1, []float64{1, 1, 1, 1}))
	var ve *errors.ValueError
	assert.True(t, errors.As(err, &ve))

	err = NewLogisticRegression().Fit(X, mat.NewDense(3, 1, []float64{0, 1, 1}))
	assert.True(t, errors.IsDataError(err))

	lr := NewLogisticRegression()
	require.NoError(t, lr.Fit(X, mat.NewDense(4, 1, []float64{0, 0, 1, 1})))
	_, err = lr.Predict(mat.NewDense(1, 2, []float64{1, 2}))
	assert.True(t, errors.IsDataError(err))
}

func TestLogisticRegression_Learner(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{-3, -2, -1, 1, 2, 3})
	y := []float64{0, 0, 0, 1, 1, 1}
	learner := model.NewProbabilityEstimatorLearner(func() model.ProbabilityEstimator {
		return NewLogisticRegression()
	})
	m, err := learner.Learn(X, y)
	require.NoError(t, err)
	preds, err := m.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, y, model.PointPredictions(preds))
}
