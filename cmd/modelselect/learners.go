package main

import (
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/YuminosukeSato/modelselect/core/model"
	"github.com/YuminosukeSato/modelselect/linear"
	"github.com/YuminosukeSato/modelselect/metrics"
	"github.com/YuminosukeSato/modelselect/optimization"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
	"github.com/YuminosukeSato/modelselect/preprocessing"
	"github.com/YuminosukeSato/modelselect/sklearn/dummy"
	"github.com/YuminosukeSato/modelselect/sklearn/ensemble"
	"github.com/YuminosukeSato/modelselect/sklearn/linear_model"
	"github.com/YuminosukeSato/modelselect/sklearn/tree"
)

// hyperParameter is one tunable dimension of a learner.
type hyperParameter struct {
	name  string
	space optimization.MinMaxParameterSpec
	value float64 // used when not tuning
}

type learnerFactory func(params []float64, seed uint64) model.Estimator

type learnerEntry struct {
	params         []hyperParameter
	regression     learnerFactory
	classification learnerFactory
	// scaled learners see standardized features.
	scaled bool
}

var learners = map[string]learnerEntry{
	"tree": {
		params: []hyperParameter{
			{"max_depth", optimization.NewMinMaxParameterSpec(1, 20, optimization.Linear, optimization.Discrete), 8},
			{"min_samples_leaf", optimization.NewMinMaxParameterSpec(1, 20, optimization.Linear, optimization.Discrete), 1},
		},
		regression: func(p []float64, seed uint64) model.Estimator {
			return tree.NewDecisionTreeRegressor(treeOptions(p, seed)...)
		},
		classification: func(p []float64, seed uint64) model.Estimator {
			return tree.NewDecisionTreeClassifier(treeOptions(p, seed)...)
		},
	},
	"forest": {
		params: []hyperParameter{
			{"n_estimators", optimization.NewMinMaxParameterSpec(10, 200, optimization.Linear, optimization.Discrete), 100},
			{"min_samples_leaf", optimization.NewMinMaxParameterSpec(1, 20, optimization.Linear, optimization.Discrete), 1},
		},
		regression: func(p []float64, seed uint64) model.Estimator {
			return ensemble.NewRandomForestRegressor(forestOptions(p, seed)...)
		},
		classification: func(p []float64, seed uint64) model.Estimator {
			return ensemble.NewRandomForestClassifier(forestOptions(p, seed)...)
		},
	},
	"ridge": {
		params: []hyperParameter{
			{"alpha", optimization.NewMinMaxParameterSpec(1e-4, 1e3, optimization.Logarithmic, optimization.Continuous), 1},
		},
		regression: func(p []float64, _ uint64) model.Estimator {
			return linear.NewRidge(p[0])
		},
		scaled: true,
	},
	"logistic": {
		params: []hyperParameter{
			{"C", optimization.NewMinMaxParameterSpec(1e-3, 1e3, optimization.Logarithmic, optimization.Continuous), 1},
		},
		classification: func(p []float64, _ uint64) model.Estimator {
			return linear_model.NewLogisticRegression(linear_model.WithLRC(p[0]))
		},
		scaled: true,
	},
	"mean": {
		regression: func([]float64, uint64) model.Estimator {
			return dummy.NewDummyRegressor("mean")
		},
		classification: func([]float64, uint64) model.Estimator {
			return dummy.NewDummyClassifier("most_frequent")
		},
	},
}

func treeOptions(p []float64, seed uint64) []tree.Option {
	return []tree.Option{
		tree.WithMaxDepth(int(p[0])),
		tree.WithMinSamplesLeaf(int(p[1])),
		tree.WithRandomState(seed),
	}
}

func forestOptions(p []float64, seed uint64) []ensemble.Option {
	return []ensemble.Option{
		ensemble.WithNEstimators(int(p[0])),
		ensemble.WithMinSamplesLeaf(int(p[1])),
		ensemble.WithRandomState(seed),
	}
}

func learnerNames() string {
	names := lo.Keys(learners)
	slices.Sort(names)
	return strings.Join(names, ", ")
}

func lookupLearner(name, task string) (learnerEntry, error) {
	entry, ok := learners[name]
	if !ok {
		return learnerEntry{}, errors.NewValidationError("learner", "must be one of "+learnerNames(), name)
	}
	if task == taskClassification && entry.classification == nil {
		return learnerEntry{}, errors.NewValidationError("learner", "does not support classification", name)
	}
	if task == taskRegression && entry.regression == nil {
		return learnerEntry{}, errors.NewValidationError("learner", "does not support regression", name)
	}
	return entry, nil
}

func (e learnerEntry) names() []string {
	return lo.Map(e.params, func(h hyperParameter, _ int) string { return h.name })
}

func (e learnerEntry) specs() []optimization.MinMaxParameterSpec {
	return lo.Map(e.params, func(h hyperParameter, _ int) optimization.MinMaxParameterSpec { return h.space })
}

func (e learnerEntry) defaults() []float64 {
	return lo.Map(e.params, func(h hyperParameter, _ int) float64 { return h.value })
}

// learner builds the learner for task with the given hyper-parameters.
func (e learnerEntry) learner(task string, params []float64, seed uint64) model.Learner[float64] {
	factory := e.regression
	if task == taskClassification {
		factory = e.classification
	}
	l := model.NewEstimatorLearner(func() model.Estimator { return factory(params, seed) })
	if e.scaled {
		l = preprocessing.NewScaledLearner(func() preprocessing.Transformer {
			return preprocessing.NewStandardScalerDefault()
		}, l)
	}
	return l
}

// metricFor returns the error minimized for task.
func metricFor(task string) (model.Metric[float64], string) {
	if task == taskClassification {
		return metrics.TotalErrorClassificationMetric{}, "total error"
	}
	return metrics.MeanSquaredErrorRegressionMetric{}, "mean squared error"
}
