package optimization

import (
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const labelOptimizer = "optimizer"

// PrometheusObserver exports optimizer progress as Prometheus metrics.
type PrometheusObserver struct {
	evaluations *prometheus.CounterVec
	nanResults  *prometheus.CounterVec
	errors      *prometheus.HistogramVec
	bestError   *prometheus.GaugeVec
	runs        *prometheus.CounterVec
}

// NewPrometheusObserver registers the metrics with reg.
func NewPrometheusObserver(reg prometheus.Registerer) *PrometheusObserver {
	factory := promauto.With(reg)
	return &PrometheusObserver{
		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "modelselect",
			Subsystem: "optimizer",
			Name:      "evaluations_total",
			Help:      "Objective evaluations.",
		}, []string{labelOptimizer}),
		nanResults: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "modelselect",
			Subsystem: "optimizer",
			Name:      "nan_results_total",
			Help:      "Evaluations whose error was NaN.",
		}, []string{labelOptimizer}),
		errors: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "modelselect",
			Subsystem: "optimizer",
			Name:      "objective_error",
			Help:      "Errors returned by the objective.",
			Buckets:   prometheus.ExponentialBuckets(1e-4, 4, 12),
		}, []string{labelOptimizer}),
		bestError: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "modelselect",
			Subsystem: "optimizer",
			Name:      "best_error",
			Help:      "Best error of the last finished run.",
		}, []string{labelOptimizer}),
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "modelselect",
			Subsystem: "optimizer",
			Name:      "runs_total",
			Help:      "Finished optimizer runs.",
		}, []string{labelOptimizer}),
	}
}

func (p *PrometheusObserver) OnEvaluation(run Run, _ int, result OptimizerResult) {
	p.evaluations.WithLabelValues(run.Optimizer).Inc()
	if math.IsNaN(result.Error) {
		p.nanResults.WithLabelValues(run.Optimizer).Inc()
		return
	}
	p.errors.WithLabelValues(run.Optimizer).Observe(result.Error)
}

func (p *PrometheusObserver) OnFinish(run Run, best OptimizerResult) {
	p.runs.WithLabelValues(run.Optimizer).Inc()
	p.bestError.WithLabelValues(run.Optimizer).Set(best.Error)
}
