package optimization

import (
	"context"

	"github.com/YuminosukeSato/modelselect/core/random"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// RandomSearchOptimizer evaluates independently drawn candidates.
type RandomSearchOptimizer struct {
	specs      []MinMaxParameterSpec
	iterations int
	seed       uint64
	opts       options
}

// NewRandomSearchOptimizer creates an optimizer that evaluates exactly
// iterations candidates.
func NewRandomSearchOptimizer(specs []MinMaxParameterSpec, iterations int, seed uint64, opts ...Option) *RandomSearchOptimizer {
	return &RandomSearchOptimizer{specs: specs, iterations: iterations, seed: seed, opts: newOptions(opts)}
}

// Validate checks the configuration.
func (o *RandomSearchOptimizer) Validate() error {
	if o.iterations < 1 {
		return errors.NewValidationError("iterations", "must be at least 1", o.iterations)
	}
	return validateSpecs(o.specs)
}

// OptimizeBest implements Optimizer.
func (o *RandomSearchOptimizer) OptimizeBest(ctx context.Context, objective Objective) (OptimizerResult, error) {
	return optimizeBest(ctx, o, objective)
}

// Optimize implements Optimizer. All candidates are drawn from the seed
// before any is evaluated, so the result does not depend on parallelism.
func (o *RandomSearchOptimizer) Optimize(ctx context.Context, objective Objective) ([]OptimizerResult, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := validateObjective(objective); err != nil {
		return nil, err
	}
	rng := random.NewGenerator(o.seed)
	candidates := make([][]float64, o.iterations)
	for i := range candidates {
		candidates[i] = sampleVector(o.specs, rng)
	}

	e := newEvaluator("random_search", o.specs, objective, o.opts)
	if _, err := e.evaluate(ctx, candidates); err != nil {
		return nil, err
	}
	return e.finish()
}
