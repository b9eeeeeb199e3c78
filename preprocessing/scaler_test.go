package preprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/core/model"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

func TestStandardScaler(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 10,
		3, 10,
		4, 10,
	})
	original := mat.DenseCopyOf(X)

	s := NewStandardScalerDefault()
	scaled, err := s.FitTransform(X)
	require.NoError(t, err)
	assert.True(t, mat.Equal(original, X), "input must not be modified")

	assert.InDeltaSlice(t, []float64{2.5, 10}, s.Mean, 1e-12)
	assert.Equal(t, 1.0, s.Scale[1], "constant column keeps unit scale")
	col := mat.Col(nil, 0, scaled)
	assert.InDelta(t, 0, col[0]+col[1]+col[2]+col[3], 1e-12)
	assert.Equal(t, []float64{0, 0, 0, 0}, mat.Col(nil, 1, scaled))

	back, err := s.InverseTransform(scaled)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(original, back, 1e-12))

	_, err = s.Transform(mat.NewDense(1, 3, nil))
	assert.True(t, errors.IsDataError(err))
}

func TestMinMaxScaler(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{2, 4, 6})
	m := NewMinMaxScaler([2]float64{-1, 1})
	scaled, err := m.FitTransform(X)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-1, 0, 1}, mat.Col(nil, 0, scaled), 1e-12)

	outside, err := m.Transform(mat.NewDense(1, 1, []float64{10}))
	require.NoError(t, err)
	assert.InDelta(t, 3, outside.At(0, 0), 1e-12)

	back, err := m.InverseTransform(scaled)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(X, back, 1e-12))

	assert.True(t, errors.IsConfigurationError(NewMinMaxScaler([2]float64{1, 1}).Fit(X)))
	_, err = NewMinMaxScalerDefault().Transform(X)
	var notFitted *errors.NotFittedError
	assert.True(t, errors.As(err, &notFitted))
}

func TestScaledLearner_FitsOnTrainingRowsOnly(t *testing.T) {
	var seen [][]float64
	recorder := model.LearnerFunc[float64](func(X mat.Matrix, y []float64) (model.Model[float64], error) {
		seen = append(seen, mat.Col(nil, 0, X))
		return model.ModelFunc[float64](func(X mat.Matrix) ([]float64, error) {
			return mat.Col(nil, 0, X), nil
		}), nil
	})
	learner := NewScaledLearner(func() Transformer { return NewMinMaxScalerDefault() }, recorder)

	m, err := learner.Learn(mat.NewDense(2, 1, []float64{0, 10}), []float64{0, 1})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 1}}, seen)

	pred, err := m.Predict(mat.NewDense(2, 1, []float64{5, 20}))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 2}, pred)
}
