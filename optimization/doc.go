// Package optimization provides black-box hyperparameter optimizers.
//
// Every optimizer minimizes an Objective over a box described by
// MinMaxParameterSpec values. Optimizers never inspect the objective: it
// receives a parameter vector (discrete dimensions already rounded), fits and
// scores whatever it likes and returns an OptimizerResult.
//
//	specs := []optimization.MinMaxParameterSpec{
//	    optimization.NewMinMaxParameterSpec(1, 100, optimization.Linear, optimization.Discrete),
//	    optimization.NewMinMaxParameterSpec(1e-4, 10, optimization.Logarithmic, optimization.Continuous),
//	}
//	opt := optimization.NewRandomSearchOptimizer(specs, 30, 42, optimization.WithParallelism(4))
//	best, err := opt.OptimizeBest(ctx, objective)
//
// Available strategies are random search, grid search, sequential
// model-based optimization with a random-forest surrogate, and TPE.
package optimization
