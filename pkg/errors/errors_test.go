package errors

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		kind    string
		err     error
		wantMsg string
	}{
		{
			name:    "with original error",
			op:      "CrossValidate",
			kind:    "learner failed",
			err:     fmt.Errorf("test error"),
			wantMsg: "modelselect: CrossValidate: learner failed: test error",
		},
		{
			name:    "without original error",
			op:      "Predict",
			kind:    "not fitted",
			wantMsg: "modelselect: Predict: not fitted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)
			assert.Equal(t, tt.wantMsg, err.Error())
			// スタックトレースにテストファイル名が含まれること
			assert.Contains(t, fmt.Sprintf("%+v", err), "errors_test.go")

			var modelErr *ModelError
			require.True(t, As(err, &modelErr))
			assert.Equal(t, tt.op, modelErr.Op)
			if tt.err != nil {
				assert.True(t, Is(err, tt.err))
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("SplitSet", 10, 9, 0)
	assert.Equal(t, "modelselect: SplitSet: dimension mismatch on axis 0 (rows). Expected 10, got 9", err.Error())

	var dimErr *DimensionError
	require.True(t, As(err, &dimErr))
	assert.Equal(t, 9, dimErr.Got)
	assert.True(t, IsDataError(err))
	assert.False(t, IsConfigurationError(err))
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("trainingPercentage", "must be in (0, 1)", 1.5)
	assert.Equal(t, "modelselect: validation failed for parameter 'trainingPercentage': must be in (0, 1) (got: 1.5)", err.Error())
	assert.True(t, IsConfigurationError(err))
	assert.False(t, IsDataError(err))
}

func TestNewStratumTooSmallError(t *testing.T) {
	err := NewStratumTooSmallError(2, 3, 4)
	assert.Equal(t, "modelselect: stratum 2 has 3 members but 4 were requested", err.Error())
	assert.True(t, IsDataError(err))

	wrapped := Wrap(err, "stratified split")
	var stratumErr *StratumTooSmallError
	require.True(t, As(wrapped, &stratumErr))
	assert.Equal(t, 4, stratumErr.Requested)
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("DecisionTreeRegressor", "Predict")
	assert.Contains(t, err.Error(), "DecisionTreeRegressor")
	assert.Contains(t, err.Error(), "Predict()")
}

func TestNumericalInstabilityError(t *testing.T) {
	values := []float64{math.NaN(), 1, 2, 3, 4, 5, 6}
	err := NewNumericalInstabilityError("OptimizeBest", values, 3)
	assert.Contains(t, err.Error(), "OptimizeBest")
	assert.Contains(t, err.Error(), "...")

	assert.NoError(t, CheckScalar("x", 1.0, 0))
	assert.Error(t, CheckScalar("x", math.Inf(1), 0))
	assert.Error(t, CheckNumericalStability("x", []float64{1, math.NaN()}, 0))
}

func TestWarn(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(func(error) {})

	Warn(NewConvergenceWarning("SequentialModelBasedOptimizer", 7, "no unseen candidate"))
	require.Len(t, got, 1)
	assert.Equal(t, "SequentialModelBasedOptimizer stopped improving after 7 iterations: no unseen candidate", got[0].Error())
}

func TestWrapAndIs(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "fold %d", 2)
	assert.True(t, Is(wrapped, ErrEmptyData))
	assert.True(t, IsDataError(wrapped))
	assert.Contains(t, wrapped.Error(), "fold 2")
}
