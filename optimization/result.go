package optimization

import (
	"context"
	"math"
	"slices"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// OptimizerResult is one evaluated parameter vector and its error.
type OptimizerResult struct {
	ParameterSet []float64
	Error        float64
}

// Objective evaluates a parameter vector. Lower errors are better.
type Objective func(parameters []float64) (OptimizerResult, error)

// Optimizer searches a parameter space for the vector with the lowest error.
type Optimizer interface {
	// OptimizeBest returns the best result over the whole run.
	OptimizeBest(ctx context.Context, objective Objective) (OptimizerResult, error)
	// Optimize returns every evaluation in generation order.
	Optimize(ctx context.Context, objective Objective) ([]OptimizerResult, error)
}

// BestResult returns the result with the lowest error. Ties go to the
// earliest result and NaN errors never win.
func BestResult(results []OptimizerResult) (OptimizerResult, error) {
	if len(results) == 0 {
		return OptimizerResult{}, errors.NewValueError("BestResult", "no results")
	}
	best := -1
	for i, r := range results {
		if math.IsNaN(r.Error) {
			continue
		}
		if best < 0 || r.Error < results[best].Error {
			best = i
		}
	}
	if best < 0 {
		return OptimizerResult{}, errors.NewNumericalInstabilityError("BestResult",
			errorValues(results), len(results))
	}
	return results[best], nil
}

// SortedResults returns a copy ordered by ascending error. NaN errors go
// last and equal errors keep generation order.
func SortedResults(results []OptimizerResult) []OptimizerResult {
	out := slices.Clone(results)
	slices.SortStableFunc(out, func(a, b OptimizerResult) int {
		switch {
		case math.IsNaN(a.Error) && math.IsNaN(b.Error):
			return 0
		case math.IsNaN(a.Error):
			return 1
		case math.IsNaN(b.Error):
			return -1
		case a.Error < b.Error:
			return -1
		case a.Error > b.Error:
			return 1
		}
		return 0
	})
	return out
}

func errorValues(results []OptimizerResult) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = r.Error
	}
	return out
}

// optimizeBest runs optimize and reduces to the best result.
func optimizeBest(ctx context.Context, o Optimizer, objective Objective) (OptimizerResult, error) {
	results, err := o.Optimize(ctx, objective)
	if err != nil {
		return OptimizerResult{}, err
	}
	return BestResult(results)
}
