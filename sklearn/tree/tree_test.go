package tree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

func TestDecisionTreeClassifier_FitPredict_Binary(t *testing.T) {
	X := mat.NewDense(8, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		1, 1,
		3, 3,
		3, 4,
		4, 3,
		4, 4,
	})
	y := mat.NewDense(8, 1, []float64{0, 0, 0, 0, 1, 1, 1, 1})

	dt := NewDecisionTreeClassifier(WithCriterion("gini"), WithMaxDepth(5))
	require.NoError(t, dt.Fit(X, y))

	pred, err := dt.Predict(X)
	require.NoError(t, err)
	assert.True(t, mat.Equal(y, pred))

	testPred, err := dt.Predict(mat.NewDense(2, 2, []float64{0.5, 0.5, 3.5, 3.5}))
	require.NoError(t, err)
	assert.Equal(t, 0.0, testPred.At(0, 0))
	assert.Equal(t, 1.0, testPred.At(1, 0))
	assert.Equal(t, []float64{0, 1}, dt.Classes())
}

func TestDecisionTreeClassifier_Multiclass(t *testing.T) {
	X := mat.NewDense(9, 2, []float64{
		0, 0, 0, 1, 1, 0,
		5, 5, 5, 6, 6, 5,
		10, 0, 10, 1, 11, 0,
	})
	y := mat.NewDense(9, 1, []float64{2, 2, 2, 5, 5, 5, 7, 7, 7})

	dt := NewDecisionTreeClassifier(WithMaxDepth(5))
	require.NoError(t, dt.Fit(X, y))
	assert.Equal(t, 3, dt.nClasses_)
	assert.Equal(t, []float64{2, 5, 7}, dt.Classes())

	proba, err := dt.PredictProba(X)
	require.NoError(t, err)
	r, c := proba.Dims()
	require.Equal(t, 3, c)
	for i := 0; i < r; i++ {
		row := mat.Row(nil, i, proba)
		sum := 0.0
		for _, p := range row {
			assert.GreaterOrEqual(t, p, 0.0)
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
		assert.Equal(t, 1.0, row[i/3], "row %d", i)
	}
}

func TestDecisionTreeClassifier_Entropy(t *testing.T) {
	X := mat.NewDense(6, 2, []float64{0, 0, 0, 1, 1, 0, 2, 2, 2, 3, 3, 2})
	y := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})

	dt := NewDecisionTreeClassifier(WithCriterion("entropy"), WithMaxDepth(3))
	require.NoError(t, dt.Fit(X, y))
	score, err := dt.Score(X, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestDecisionTreeClassifier_FeatureImportance(t *testing.T) {
	X := mat.NewDense(8, 3, []float64{
		0, 0, 0,
		0, 1, 1,
		0, 0, 1,
		0, 1, 0,
		1, 0, 0,
		1, 1, 1,
		1, 0, 1,
		1, 1, 0,
	})
	y := mat.NewDense(8, 1, []float64{0, 0, 0, 0, 1, 1, 1, 1})

	dt := NewDecisionTreeClassifier()
	require.NoError(t, dt.Fit(X, y))

	importances := dt.GetFeatureImportances()
	require.Len(t, importances, 3)
	assert.Greater(t, importances[0], importances[1])
	assert.Greater(t, importances[0], importances[2])
	assert.InDelta(t, 1.0, importances[0]+importances[1]+importances[2], 1e-9)
}

func TestDecisionTreeClassifier_MaxDepth(t *testing.T) {
	X := mat.NewDense(16, 2, nil)
	y := mat.NewDense(16, 1, nil)
	for i := 0; i < 16; i++ {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, float64(i%4))
		y.Set(i, 0, float64(i%2))
	}

	dt := NewDecisionTreeClassifier(WithMaxDepth(2))
	require.NoError(t, dt.Fit(X, y))
	assert.LessOrEqual(t, dt.GetDepth(), 2)
	assert.LessOrEqual(t, dt.GetNLeaves(), 4)
}

func TestDecisionTreeClassifier_MinSamples(t *testing.T) {
	X := mat.NewDense(10, 2, nil)
	y := mat.NewDense(10, 1, nil)
	for i := 0; i < 10; i++ {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, float64(i%3))
		y.Set(i, 0, float64(i%2))
	}

	dt := NewDecisionTreeClassifier(WithMinSamplesSplit(5), WithMinSamplesLeaf(2))
	require.NoError(t, dt.Fit(X, y))
	assert.LessOrEqual(t, dt.GetNLeaves(), 5)
}

func TestDecisionTreeClassifier_GetSetParams(t *testing.T) {
	dt := NewDecisionTreeClassifier()
	params := dt.GetParams()
	assert.Equal(t, "gini", params["criterion"])
	assert.Equal(t, 2, params["min_samples_split"])

	require.NoError(t, dt.SetParams(map[string]interface{}{
		"criterion":         "entropy",
		"max_depth":         5,
		"min_samples_split": 4,
		"min_samples_leaf":  2,
	}))
	assert.Equal(t, "entropy", dt.params.Criterion)
	assert.Equal(t, 5, dt.params.MaxDepth)
	assert.Equal(t, 4, dt.params.MinSamplesSplit)
	assert.Equal(t, 2, dt.params.MinSamplesLeaf)

	err := dt.SetParams(map[string]interface{}{"splitter": "best"})
	assert.True(t, errors.IsConfigurationError(err))
	assert.Equal(t, "entropy", dt.params.Criterion)
}

func TestDecisionTreeClassifier_Errors(t *testing.T) {
	dt := NewDecisionTreeClassifier()
	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})

	_, err := dt.Predict(X)
	var notFitted *errors.NotFittedError
	assert.True(t, errors.As(err, &notFitted))
	_, err = dt.PredictProba(X)
	assert.Error(t, err)

	err = NewDecisionTreeClassifier(WithCriterion("log_loss")).Fit(X, mat.NewDense(2, 1, []float64{0, 1}))
	assert.True(t, errors.IsConfigurationError(err))

	err = dt.Fit(X, mat.NewDense(3, 1, nil))
	assert.True(t, errors.IsDataError(err))

	require.NoError(t, dt.Fit(X, mat.NewDense(2, 1, []float64{0, 1})))
	_, err = dt.Predict(mat.NewDense(1, 3, nil))
	assert.True(t, errors.IsDataError(err))
}

func TestDecisionTreeRegressor_StepFunction(t *testing.T) {
	X := mat.NewDense(20, 1, nil)
	y := mat.NewDense(20, 1, nil)
	for i := 0; i < 20; i++ {
		X.Set(i, 0, float64(i))
		if i < 10 {
			y.Set(i, 0, 1)
		} else {
			y.Set(i, 0, 5)
		}
	}

	dt := NewDecisionTreeRegressor()
	require.NoError(t, dt.Fit(X, y))
	assert.Equal(t, 1, dt.GetDepth())
	assert.Equal(t, 2, dt.GetNLeaves())

	pred, err := dt.Predict(mat.NewDense(3, 1, []float64{-3, 9.4, 30}))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 5}, mat.Col(nil, 0, pred))

	score, err := dt.Score(X, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-12)
}

func TestDecisionTreeRegressor_MaxDepthAveragesLeaves(t *testing.T) {
	X := mat.NewDense(8, 1, []float64{0, 1, 2, 3, 4, 5, 6, 7})
	y := mat.NewDense(8, 1, []float64{0, 1, 4, 9, 16, 25, 36, 49})

	stump := NewDecisionTreeRegressor(WithMaxDepth(1))
	require.NoError(t, stump.Fit(X, y))
	pred, err := stump.Predict(X)
	require.NoError(t, err)

	values := map[float64]bool{}
	for _, v := range mat.Col(nil, 0, pred) {
		values[v] = true
	}
	assert.Len(t, values, 2)

	full := NewDecisionTreeRegressor()
	require.NoError(t, full.Fit(X, y))
	pred, err = full.Predict(X)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(y, pred, 1e-12))
}

func TestDecisionTreeRegressor_MaxFeaturesDeterministic(t *testing.T) {
	X := mat.NewDense(30, 4, nil)
	y := mat.NewDense(30, 1, nil)
	for i := 0; i < 30; i++ {
		for j := 0; j < 4; j++ {
			X.Set(i, j, math.Sin(float64(i*(j+1))))
		}
		y.Set(i, 0, X.At(i, 0)+2*X.At(i, 3))
	}
	fit := func() mat.Matrix {
		dt := NewDecisionTreeRegressor(WithMaxFeatures(2), WithRandomState(9), WithMaxDepth(4))
		require.NoError(t, dt.Fit(X, y))
		pred, err := dt.Predict(X)
		require.NoError(t, err)
		return pred
	}
	assert.True(t, mat.Equal(fit(), fit()))
}
