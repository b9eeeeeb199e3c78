package model_selection

import (
	"github.com/YuminosukeSato/modelselect/core/parallel"
	"github.com/YuminosukeSato/modelselect/pkg/log"
)

// Option configures splitters, cross-validators and learning-curve calculators.
type Option func(*options)

type options struct {
	logger  log.Logger
	workers int
}

func newOptions(opts []Option) options {
	o := options{workers: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.GetLoggerWithName("model_selection")
	}
	return o
}

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithParallelism evaluates independent folds or learning-curve cells on up
// to workers goroutines. Values below 1 use one worker per CPU. The default
// is sequential.
func WithParallelism(workers int) Option {
	return func(o *options) {
		o.workers = parallel.Workers(workers)
	}
}
