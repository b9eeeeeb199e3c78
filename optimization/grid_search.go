package optimization

import (
	"context"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// GridSearchOptimizer evaluates every point of a regular grid. Points are
// evenly spaced in transformed space; discrete dimensions drop duplicates
// after rounding.
type GridSearchOptimizer struct {
	specs  []MinMaxParameterSpec
	points int
	opts   options
}

// NewGridSearchOptimizer creates a grid with pointsPerDimension values per dimension.
func NewGridSearchOptimizer(specs []MinMaxParameterSpec, pointsPerDimension int, opts ...Option) *GridSearchOptimizer {
	return &GridSearchOptimizer{specs: specs, points: pointsPerDimension, opts: newOptions(opts)}
}

// Validate checks the configuration.
func (o *GridSearchOptimizer) Validate() error {
	if o.points < 2 {
		return errors.NewValidationError("pointsPerDimension", "must be at least 2", o.points)
	}
	return validateSpecs(o.specs)
}

// Grid returns the candidates in evaluation order: the last dimension varies fastest.
func (o *GridSearchOptimizer) Grid() [][]float64 {
	axes := make([][]float64, len(o.specs))
	for d, s := range o.specs {
		seen := map[float64]bool{}
		for i := 0; i < o.points; i++ {
			v := s.Round(s.FromUnit(float64(i) / float64(o.points-1)))
			if !seen[v] {
				seen[v] = true
				axes[d] = append(axes[d], v)
			}
		}
	}

	grid := [][]float64{{}}
	for _, axis := range axes {
		next := make([][]float64, 0, len(grid)*len(axis))
		for _, prefix := range grid {
			for _, v := range axis {
				point := append(append(make([]float64, 0, len(o.specs)), prefix...), v)
				next = append(next, point)
			}
		}
		grid = next
	}
	return grid
}

// OptimizeBest implements Optimizer.
func (o *GridSearchOptimizer) OptimizeBest(ctx context.Context, objective Objective) (OptimizerResult, error) {
	return optimizeBest(ctx, o, objective)
}

// Optimize implements Optimizer.
func (o *GridSearchOptimizer) Optimize(ctx context.Context, objective Objective) ([]OptimizerResult, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := validateObjective(objective); err != nil {
		return nil, err
	}
	e := newEvaluator("grid_search", o.specs, objective, o.opts)
	if _, err := e.evaluate(ctx, o.Grid()); err != nil {
		return nil, err
	}
	return e.finish()
}
