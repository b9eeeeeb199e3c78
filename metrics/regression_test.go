package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

func TestMSE(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "perfect prediction",
			yTrue: []float64{1, 2, 3, 4, 5},
			yPred: []float64{1, 2, 3, 4, 5},
			want:  0,
		},
		{
			name:  "simple case",
			yTrue: []float64{1, 2, 3, 4},
			yPred: []float64{1.5, 2.5, 2.5, 3.5},
			want:  0.25,
		},
		{
			name:  "larger errors",
			yTrue: []float64{10, 20, 30},
			yPred: []float64{12, 18, 33},
			want:  17.0 / 3.0, // (4 + 4 + 9) / 3
		},
		{
			name:    "dimension mismatch",
			yTrue:   []float64{1, 2, 3},
			yPred:   []float64{1, 2},
			wantErr: true,
		},
		{
			name:    "empty vectors",
			yTrue:   []float64{},
			yPred:   []float64{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MSE(tt.yTrue, tt.yPred)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-10)
		})
	}
}

func TestRMSEAndMAE(t *testing.T) {
	yTrue := []float64{3, -0.5, 2, 7}
	yPred := []float64{2.5, 0, 2, 8}

	rmse, err := RMSE(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(0.375), rmse, 1e-10)

	mae, err := MAE(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, mae, 1e-10)

	_, err = MAE(yTrue, yPred[:2])
	assert.True(t, errors.IsDataError(err))
}

func TestR2Score(t *testing.T) {
	got, err := R2Score([]float64{3, -0.5, 2, 7}, []float64{2.5, 0, 2, 8})
	require.NoError(t, err)
	assert.InDelta(t, 0.9486, got, 1e-4)

	_, err = R2Score([]float64{1, 1, 1}, []float64{1, 2, 3})
	assert.Error(t, err)
}

func TestMAPE(t *testing.T) {
	got, err := MAPE([]float64{100, 0, 50}, []float64{110, 5, 45})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, got, 1e-10)

	_, err = MAPE([]float64{0, 0}, []float64{1, 2})
	assert.Error(t, err)
}

func TestRegressionMetricTypes(t *testing.T) {
	yTrue := []float64{1, 2, 3}
	yPred := []float64{2, 2, 2}

	mse, err := MeanSquaredErrorRegressionMetric{}.Error(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, mse, 1e-12)

	rmse, err := RootMeanSquaredErrorRegressionMetric{}.Error(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(2.0/3.0), rmse, 1e-12)

	mae, err := MeanAbsoluteErrorRegressionMetric{}.Error(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, mae, 1e-12)
}
