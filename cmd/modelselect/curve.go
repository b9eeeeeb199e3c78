package main

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
	"github.com/YuminosukeSato/modelselect/sklearn/model_selection"
)

func (a *app) curveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Compute training and validation error for growing training sets",
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
			stratified, _ := cmd.Flags().GetBool("stratified")
			workers, _ := cmd.Flags().GetInt("parallelism")
			output, _ := cmd.Flags().GetString("output")
			plotPath, _ := cmd.Flags().GetString("plot")

			cfg := a.cfg.LearningCurve
			metric, metricName := metricFor(task)
			newCalculator := model_selection.NewRandomShuffleLearningCurvesCalculator[float64]
			if stratified {
				newCalculator = model_selection.NewStratifiedLearningCurvesCalculator[float64]
			}
			calc := newCalculator(metric, cfg.SamplePercentages, cfg.TrainingPercentage, cfg.Shuffles, cfg.Seed,
				model_selection.WithLogger(a.logger),
				model_selection.WithParallelism(workers),
			)
			points, err := calc.Calculate(cmd.Context(), entry.learner(task, entry.defaults(), cfg.Seed), ds.X, ds.y)
			if err != nil {
				return err
			}

			if output != "" {
				if err := writeCurveCSV(output, points); err != nil {
					return err
				}
			}
			if plotPath != "" {
				if err := model_selection.PlotLearningCurves(points, name+" ("+metricName+")", plotPath); err != nil {
					return err
				}
			}

			rows := make([][]string, len(points))
			for i, p := range points {
				rows[i] = []string{
					strconv.Itoa(p.SampleSize),
					formatFloat(p.SampleFraction),
					formatFloat(p.TrainingError),
					formatFloat(p.ValidationError),
				}
			}
			return renderTable(cmd.OutOrStdout(),
				[]string{"Samples", "Fraction", "Training " + metricName, "Validation " + metricName}, rows)
		},
	}
	addDataFlags(cmd)
	cmd.Flags().String("learner", "tree", "learner: "+learnerNames())
	cmd.Flags().Float64("training-percentage", 0.7, "fraction of rows available for training")
	cmd.Flags().Int("shuffles", 5, "repetitions per sample size")
	cmd.Flags().Uint64("seed", 42, "random seed")
	cmd.Flags().Bool("stratified", false, "split and subsample per class")
	cmd.Flags().Int("parallelism", 1, "concurrent fits, 0 for every CPU")
	cmd.Flags().StringP("output", "o", "", "write the curve as CSV to this file")
	cmd.Flags().String("plot", "", "render the curve to this image (.png, .svg, .pdf)")
	a.bind(cmd, map[string]string{
		"learning_curve.training_percentage": "training-percentage",
		"learning_curve.shuffles":            "shuffles",
		"learning_curve.seed":                "seed",
	})
	return cmd
}

func writeCurveCSV(path string, points []model_selection.LearningCurvePoint) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return model_selection.WriteCSV(f, points)
}
