package optimization

import (
	"context"
	"fmt"
	"math"

	"github.com/c-bata/goptuna"
	"github.com/c-bata/goptuna/tpe"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
	"github.com/YuminosukeSato/modelselect/pkg/log"
)

// TPEOptimizer delegates candidate generation to goptuna's Tree-structured
// Parzen Estimator sampler. Trials run sequentially, so WithParallelism
// above one worker and WithAcquisition are configuration errors.
type TPEOptimizer struct {
	specs      []MinMaxParameterSpec
	iterations int
	startup    int
	seed       uint64
	opts       options
}

// NewTPEOptimizer evaluates exactly iterations candidates, the first
// startupTrials of them drawn at random by the sampler.
func NewTPEOptimizer(specs []MinMaxParameterSpec, iterations, startupTrials int, seed uint64, opts ...Option) *TPEOptimizer {
	return &TPEOptimizer{specs: specs, iterations: iterations, startup: startupTrials, seed: seed, opts: newOptions(opts)}
}

// Validate checks the configuration.
func (o *TPEOptimizer) Validate() error {
	switch {
	case o.iterations < 1:
		return errors.NewValidationError("iterations", "must be at least 1", o.iterations)
	case o.startup < 1:
		return errors.NewValidationError("startupTrials", "must be at least 1", o.startup)
	case o.opts.workers > 1:
		return errors.NewValidationError("parallelism", "trials run sequentially", o.opts.workers)
	case o.opts.acquisitionSet:
		return errors.NewValidationError("acquisition", "not used by the TPE sampler", o.opts.acquisition)
	}
	return validateSpecs(o.specs)
}

// OptimizeBest implements Optimizer.
func (o *TPEOptimizer) OptimizeBest(ctx context.Context, objective Objective) (OptimizerResult, error) {
	return optimizeBest(ctx, o, objective)
}

// Optimize implements Optimizer.
func (o *TPEOptimizer) Optimize(ctx context.Context, objective Objective) ([]OptimizerResult, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := validateObjective(objective); err != nil {
		return nil, err
	}
	e := newEvaluator("tpe", o.specs, objective, o.opts)

	sampler := tpe.NewSampler(
		tpe.SamplerOptionSeed(int64(o.seed)),
		tpe.SamplerOptionNumberOfStartupTrials(o.startup),
	)
	study, err := goptuna.CreateStudy(e.run.ID,
		goptuna.StudyOptionDirection(goptuna.StudyDirectionMinimize),
		goptuna.StudyOptionSampler(sampler),
		goptuna.StudyOptionLogger(e.logger),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create study")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	study.WithContext(ctx)

	var failure error
	err = study.Optimize(func(trial goptuna.Trial) (float64, error) {
		if failure != nil {
			return 0, failure
		}
		params, err := o.suggest(trial)
		if err == nil {
			var res []OptimizerResult
			if res, err = e.evaluate(ctx, [][]float64{params}); err == nil {
				// The sampler cannot rank NaN, so failed fits look maximally bad to it.
				if math.IsNaN(res[0].Error) {
					return math.MaxFloat64, nil
				}
				return res[0].Error, nil
			}
		}
		failure = err
		cancel()
		return 0, err
	}, o.iterations)
	if failure != nil {
		return nil, failure
	}
	if err != nil {
		return nil, errors.Wrap(err, "tpe study")
	}
	if len(e.results) < o.iterations {
		// goptuna stops quietly on cancellation.
		if cerr := context.Cause(ctx); cerr != nil {
			return nil, cerr
		}
	}
	return e.finish()
}

func (o *TPEOptimizer) suggest(trial goptuna.Trial) ([]float64, error) {
	params := make([]float64, len(o.specs))
	for i, s := range o.specs {
		name := fmt.Sprintf("p%d", i)
		var (
			v   float64
			err error
		)
		if s.Transform == Logarithmic {
			v, err = trial.SuggestLogFloat(name, s.Min, s.Max)
		} else {
			v, err = trial.SuggestFloat(name, s.Min, s.Max)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "suggest %s", name)
		}
		params[i] = v
	}
	o.opts.logger.Debug("tpe suggestion", log.ParametersKey, params)
	return params, nil
}
