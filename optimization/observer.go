package optimization

import (
	"github.com/google/uuid"
)

// Run identifies one optimizer invocation.
type Run struct {
	ID        string
	Optimizer string
}

func newRun(optimizer string) Run {
	return Run{ID: uuid.NewString(), Optimizer: optimizer}
}

// Observer is notified of evaluations in generation order, after each
// batch completes.
type Observer interface {
	OnEvaluation(run Run, iteration int, result OptimizerResult)
	OnFinish(run Run, best OptimizerResult)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are ignored.
type ObserverFuncs struct {
	Evaluation func(run Run, iteration int, result OptimizerResult)
	Finish     func(run Run, best OptimizerResult)
}

func (f ObserverFuncs) OnEvaluation(run Run, iteration int, result OptimizerResult) {
	if f.Evaluation != nil {
		f.Evaluation(run, iteration, result)
	}
}

func (f ObserverFuncs) OnFinish(run Run, best OptimizerResult) {
	if f.Finish != nil {
		f.Finish(run, best)
	}
}

// MultiObserver fans out to several observers.
type MultiObserver []Observer

func (m MultiObserver) OnEvaluation(run Run, iteration int, result OptimizerResult) {
	for _, o := range m {
		o.OnEvaluation(run, iteration, result)
	}
}

func (m MultiObserver) OnFinish(run Run, best OptimizerResult) {
	for _, o := range m {
		o.OnFinish(run, best)
	}
}

type noopObserver struct{}

func (noopObserver) OnEvaluation(Run, int, OptimizerResult) {}
func (noopObserver) OnFinish(Run, OptimizerResult)          {}
