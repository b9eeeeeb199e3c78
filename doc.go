// Package modelselect provides model selection for Go: holdout splits,
// cross-validation, hyper-parameter search and learning curves over
// gonum matrices.
//
// Learners, models and metrics are small generic interfaces (see core/model),
// so any estimator with Fit/Predict can be resampled and tuned. Every
// randomized step takes an explicit seed and results do not depend on the
// number of workers.
//
// # Installation
//
//	go get github.com/YuminosukeSato/modelselect
//
// # Quick Start
//
// Tune a decision tree with cross-validated error as the objective:
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/modelselect/core/model"
//	    "github.com/YuminosukeSato/modelselect/metrics"
//	    "github.com/YuminosukeSato/modelselect/optimization"
//	    "github.com/YuminosukeSato/modelselect/sklearn/model_selection"
//	    "github.com/YuminosukeSato/modelselect/sklearn/tree"
//	)
//
//	func main() {
//	    X, y := loadData()
//
//	    cv := model_selection.NewRandomCrossValidation[float64](5, 42)
//	    specs := []optimization.MinMaxParameterSpec{
//	        optimization.NewMinMaxParameterSpec(1, 20, optimization.Linear, optimization.Discrete),
//	    }
//
//	    objective := func(p []float64) (optimization.OptimizerResult, error) {
//	        learner := model.NewEstimatorLearner(func() model.Estimator {
//	            return tree.NewDecisionTreeRegressor(tree.WithMaxDepth(int(p[0])))
//	        })
//	        e, err := cv.CrossValidatedError(context.Background(), learner,
//	            metrics.MeanSquaredErrorRegressionMetric{}, X, y)
//	        return optimization.OptimizerResult{ParameterSet: p, Error: e}, err
//	    }
//
//	    o := optimization.NewRandomSearchOptimizer(specs, 30, 42)
//	    best, err := o.OptimizeBest(context.Background(), objective)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("max_depth:", best.ParameterSet[0], "mse:", best.Error)
//	}
//
// # Packages
//
//   - sampling: random and stratified index samplers
//   - sklearn/model_selection: training/test splits, cross-validation, learning curves
//   - optimization: random, grid, SMBO and TPE parameter search
//   - metrics: regression and classification error metrics
//   - sklearn/tree, sklearn/ensemble, sklearn/linear_model, sklearn/dummy, linear: learners
//   - preprocessing: feature scalers and scaled learners
//   - core/model: Learner, Model and Metric interfaces
//   - core/random, core/parallel: seeded random sources and worker pools
//   - pkg/config, pkg/errors, pkg/log: configuration, error types, structured logging
//
// The modelselect command in cmd/modelselect runs the same pipeline on CSV
// files.
package modelselect
