package optimization

import (
	"context"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := NewPrometheusObserver(reg)

	objective := func(p []float64) (OptimizerResult, error) {
		if p[0] > 9 {
			return OptimizerResult{Error: math.NaN()}, nil
		}
		return quadratic(p)
	}
	best, err := NewGridSearchOptimizer(oneDimension(), 11, WithObserver(obs)).OptimizeBest(context.Background(), objective)
	require.NoError(t, err)

	assert.Equal(t, 11.0, testutil.ToFloat64(obs.evaluations.WithLabelValues("grid_search")))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.nanResults.WithLabelValues("grid_search")))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.runs.WithLabelValues("grid_search")))
	assert.Equal(t, best.Error, testutil.ToFloat64(obs.bestError.WithLabelValues("grid_search")))
	assert.Equal(t, 1, testutil.CollectAndCount(obs.errors))
}
