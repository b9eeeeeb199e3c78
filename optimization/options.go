package optimization

import (
	"github.com/YuminosukeSato/modelselect/core/parallel"
	"github.com/YuminosukeSato/modelselect/pkg/log"
)

type options struct {
	logger         log.Logger
	workers        int
	observer       Observer
	acquisition    AcquisitionFunction
	acquisitionSet bool
	surrogate      SurrogateConfig
}

// Option configures an optimizer.
type Option func(*options)

// WithLogger sets the logger. The default is the "optimization" component logger.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithParallelism evaluates independent candidates on up to workers
// goroutines. Values below 1 use every CPU. The default is sequential.
// TPEOptimizer runs trials one at a time and rejects more than one worker.
func WithParallelism(workers int) Option {
	return func(o *options) { o.workers = parallel.Workers(workers) }
}

// WithObserver receives every evaluation and the final best result.
// A nil observer keeps the no-op default.
func WithObserver(observer Observer) Option {
	return func(o *options) {
		if observer != nil {
			o.observer = observer
		}
	}
}

// WithAcquisition selects the acquisition function of the sequential
// model-based optimizer. The default is ExpectedImprovement. Random and
// grid search ignore it; TPEOptimizer rejects it.
func WithAcquisition(acquisition AcquisitionFunction) Option {
	return func(o *options) {
		o.acquisition = acquisition
		o.acquisitionSet = true
	}
}

// WithSurrogate configures the random-forest surrogate of the sequential
// model-based optimizer.
func WithSurrogate(config SurrogateConfig) Option {
	return func(o *options) { o.surrogate = config }
}

func newOptions(opts []Option) options {
	o := options{
		workers:     1,
		observer:    noopObserver{},
		acquisition: ExpectedImprovement{},
		surrogate:   DefaultSurrogateConfig(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.GetLoggerWithName("optimization")
	}
	return o
}
