package main

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/modelselect/optimization"
	"github.com/YuminosukeSato/modelselect/pkg/config"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
	"github.com/YuminosukeSato/modelselect/pkg/log"
)

func (a *app) tuneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tune",
		Short: "Tune the hyper-parameters of a learner against its cross-validated error",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, task, err := readDataFlags(cmd)
			if err != nil {
				return err
			}
			name, _ := cmd.Flags().GetString("learner")
			entry, err := lookupLearner(name, task)
			if err != nil {
				return err
			}
			if len(entry.params) == 0 {
				return errors.NewValidationError("learner", "has no hyper-parameters to tune", name)
			}
			top, _ := cmd.Flags().GetInt("top")
			metricsFile, _ := cmd.Flags().GetString("metrics-file")

			cfg := a.cfg.Optimizer
			ctx := cmd.Context()
			if cfg.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
				defer cancel()
			}

			metric, metricName := metricFor(task)
			cv := a.crossValidation(a.cfg.CrossValidation, 1)
			cvSeed := a.cfg.CrossValidation.Seed
			objective := func(p []float64) (optimization.OptimizerResult, error) {
				score, err := cv.CrossValidatedError(ctx, entry.learner(task, p, cvSeed), metric, ds.X, ds.y)
				if err != nil {
					return optimization.OptimizerResult{}, err
				}
				return optimization.OptimizerResult{ParameterSet: p, Error: score}, nil
			}

			specs := entry.specs()
			reg := prometheus.NewRegistry()
			observer := optimization.MultiObserver{
				newProgressObserver(cmd.ErrOrStderr(), plannedEvaluations(cfg, specs), "tuning "+name),
				optimization.NewPrometheusObserver(reg),
			}
			opt, err := newOptimizer(cfg, specs,
				optimization.WithLogger(a.logger.With(log.ModelNameKey, name)),
				optimization.WithParallelism(cfg.Parallelism),
				optimization.WithObserver(observer),
			)
			if err != nil {
				return err
			}
			results, err := opt.Optimize(ctx, objective)
			if err != nil {
				return err
			}
			if metricsFile != "" {
				if err := prometheus.WriteToTextfile(metricsFile, reg); err != nil {
					return errors.Wrapf(err, "write metrics to %s", metricsFile)
				}
			}

			sorted := optimization.SortedResults(results)
			sorted = sorted[:min(top, len(sorted))]
			header := append([]string{"Rank"}, entry.names()...)
			header = append(header, metricName)
			rows := make([][]string, len(sorted))
			for i, r := range sorted {
				row := []string{strconv.Itoa(i + 1)}
				for _, v := range r.ParameterSet {
					row = append(row, formatFloat(v))
				}
				rows[i] = append(row, formatFloat(r.Error))
			}
			return renderTable(cmd.OutOrStdout(), header, rows)
		},
	}
	addDataFlags(cmd)
	cmd.Flags().String("learner", "tree", "learner: "+learnerNames())
	cmd.Flags().String("optimizer", "random", "search strategy: random, smbo, grid or tpe")
	cmd.Flags().Int("iterations", 30, "evaluations (random, tpe) or proposal rounds (smbo)")
	cmd.Flags().Uint64("seed", 42, "random seed")
	cmd.Flags().Int("parallelism", 1, "concurrent evaluations, 0 for every CPU")
	cmd.Flags().String("acquisition", "ei", "acquisition function of smbo: ei, pi or ucb")
	cmd.Flags().Duration("timeout", 0, "abort the search after this duration, 0 for none")
	cmd.Flags().Int("top", 10, "number of results to print")
	cmd.Flags().String("metrics-file", "", "write Prometheus metrics of the run to this file")
	a.bind(cmd, map[string]string{
		"optimizer.strategy":    "optimizer",
		"optimizer.iterations":  "iterations",
		"optimizer.seed":        "seed",
		"optimizer.parallelism": "parallelism",
		"optimizer.acquisition": "acquisition",
		"optimizer.timeout":     "timeout",
	})
	return cmd
}

func newOptimizer(cfg config.OptimizerConfig, specs []optimization.MinMaxParameterSpec, opts ...optimization.Option) (optimization.Optimizer, error) {
	switch cfg.Strategy {
	case "random":
		return optimization.NewRandomSearchOptimizer(specs, cfg.Iterations, cfg.Seed, opts...), nil
	case "smbo":
		acquisition, ok := optimization.ParseAcquisition(cfg.Acquisition)
		if !ok {
			return nil, errors.NewValidationError("optimizer.acquisition", "must be ei, pi or ucb", cfg.Acquisition)
		}
		opts = append(opts, optimization.WithAcquisition(acquisition))
		return optimization.NewSequentialModelBasedOptimizer(specs, cfg.Iterations, cfg.InitialParameterSets,
			cfg.CandidatesPerIteration, cfg.Seed, opts...), nil
	case "grid":
		return optimization.NewGridSearchOptimizer(specs, cfg.PointsPerDimension, opts...), nil
	case "tpe":
		return optimization.NewTPEOptimizer(specs, cfg.Iterations, cfg.StartupTrials, cfg.Seed, opts...), nil
	}
	return nil, errors.NewValidationError("optimizer.strategy", "must be random, smbo, grid or tpe", cfg.Strategy)
}

// plannedEvaluations is the number of objective calls a successful run makes.
func plannedEvaluations(cfg config.OptimizerConfig, specs []optimization.MinMaxParameterSpec) int {
	switch cfg.Strategy {
	case "smbo":
		return cfg.InitialParameterSets + cfg.Iterations*cfg.CandidatesPerIteration
	case "grid":
		return len(optimization.NewGridSearchOptimizer(specs, cfg.PointsPerDimension).Grid())
	}
	return cfg.Iterations
}
