package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/modelselect/pkg/config"
	"github.com/YuminosukeSato/modelselect/sklearn/model_selection"
)

func (a *app) cvCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cv",
		Short: "Report the cross-validated error of a learner",
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
			metric, metricName := metricFor(task)
			cv := a.crossValidation(a.cfg.CrossValidation, a.cfg.CrossValidation.Parallelism)
			learner := entry.learner(task, entry.defaults(), a.cfg.CrossValidation.Seed)
			score, err := cv.CrossValidatedError(cmd.Context(), learner, metric, ds.X, ds.y)
			if err != nil {
				return err
			}
			return renderTable(cmd.OutOrStdout(),
				[]string{"Learner", "Folds", "Metric", "Error"},
				[][]string{{name, strconv.Itoa(cv.NumberOfFolds()), metricName, formatFloat(score)}})
		},
	}
	addDataFlags(cmd)
	cmd.Flags().String("learner", "tree", "learner: "+learnerNames())
	cmd.Flags().Int("folds", 5, "number of folds")
	cmd.Flags().Uint64("seed", 42, "random seed")
	cmd.Flags().Bool("stratified", false, "stratify folds by class")
	cmd.Flags().Int("parallelism", 1, "concurrent folds, 0 for every CPU")
	a.bind(cmd, map[string]string{
		"cross_validation.folds":       "folds",
		"cross_validation.seed":        "seed",
		"cross_validation.stratified":  "stratified",
		"cross_validation.parallelism": "parallelism",
	})
	return cmd
}

func (a *app) crossValidation(cfg config.CrossValidationConfig, workers int) *model_selection.CrossValidation[float64] {
	opts := []model_selection.Option{
		model_selection.WithLogger(a.logger),
		model_selection.WithParallelism(workers),
	}
	if cfg.Stratified {
		return model_selection.NewStratifiedCrossValidation[float64](cfg.Folds, cfg.Seed, opts...)
	}
	return model_selection.NewRandomCrossValidation[float64](cfg.Folds, cfg.Seed, opts...)
}

