package optimization

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/YuminosukeSato/modelselect/core/parallel"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
	"github.com/YuminosukeSato/modelselect/pkg/log"
)

// evaluator runs batches of candidates against the objective and keeps the
// history in generation order.
type evaluator struct {
	run       Run
	specs     []MinMaxParameterSpec
	objective Objective
	opts      options
	logger    log.Logger
	start     time.Time
	results   []OptimizerResult
}

func newEvaluator(name string, specs []MinMaxParameterSpec, objective Objective, opts options) *evaluator {
	run := newRun(name)
	return &evaluator{
		run:       run,
		specs:     specs,
		objective: objective,
		opts:      opts,
		logger:    opts.logger.With(log.OptimizerKey, name, log.RunIDKey, run.ID),
		start:     time.Now(),
	}
}

// evaluate rounds and evaluates candidates, possibly concurrently. Results
// are recorded only if the whole batch succeeds.
func (e *evaluator) evaluate(ctx context.Context, candidates [][]float64) ([]OptimizerResult, error) {
	offset := len(e.results)
	batch := make([]OptimizerResult, len(candidates))
	err := parallel.ForEach(ctx, len(candidates), e.opts.workers, func(i int) error {
		res, err := e.call(roundVector(e.specs, candidates[i]))
		if err != nil {
			return errors.NewModelError("Optimize", fmt.Sprintf("candidate %d", offset+i), err)
		}
		batch[i] = res
		return nil
	})
	if err != nil {
		e.logger.Error("objective evaluation failed", err)
		return nil, err
	}

	for i, res := range batch {
		e.results = append(e.results, res)
		e.opts.observer.OnEvaluation(e.run, offset+i, res)
		if e.logger.Enabled(ctx, log.LevelDebug) {
			e.logger.Debug("candidate evaluated",
				log.CandidateKey, offset+i,
				log.ParametersKey, res.ParameterSet,
				log.ErrorValueKey, res.Error,
			)
		}
	}
	return batch, nil
}

// call invokes the objective on a private copy of params. Panics become
// errors.
func (e *evaluator) call(params []float64) (res OptimizerResult, err error) {
	defer errors.Recover(&err, "objective")
	res, err = e.objective(slices.Clone(params))
	if err != nil {
		return OptimizerResult{}, err
	}
	if res.ParameterSet == nil {
		res.ParameterSet = params
	}
	return res, nil
}

// finish reports the best result to the observer and the log.
func (e *evaluator) finish() ([]OptimizerResult, error) {
	best, err := BestResult(e.results)
	if err != nil {
		e.logger.Error("no usable result", err)
		return nil, err
	}
	e.opts.observer.OnFinish(e.run, best)
	e.logger.Info("optimization completed",
		log.OperationKey, log.OperationOptimize,
		log.IterationKey, len(e.results),
		log.BestErrorKey, best.Error,
		log.ParametersKey, best.ParameterSet,
		log.DurationMsKey, time.Since(e.start).Milliseconds(),
	)
	return e.results, nil
}

func validateObjective(objective Objective) error {
	if objective == nil {
		return errors.NewValidationError("objective", "must not be nil", nil)
	}
	return nil
}
