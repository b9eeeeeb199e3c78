package main

import (
	"slices"
	"strconv"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/modelselect/sklearn/model_selection"
)

func (a *app) splitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split rows into training and test sets and report their sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, task, err := readDataFlags(cmd)
			if err != nil {
				return err
			}
			cfg := a.cfg.Split
			opts := []model_selection.Option{model_selection.WithLogger(a.logger)}
			splitter := model_selection.NewRandomTrainingTestIndexSplitter(cfg.TrainingPercentage, cfg.Seed, opts...)
			if cfg.Stratified {
				splitter = model_selection.NewStratifiedTrainingTestIndexSplitter(cfg.TrainingPercentage, cfg.Seed, opts...)
			}
			split, err := splitter.Split(ds.y)
			if err != nil {
				return err
			}

			header := []string{"Set", "Rows"}
			var classes []float64
			if task == taskClassification {
				classes = lo.Uniq(ds.y)
				slices.Sort(classes)
				for _, c := range classes {
					header = append(header, "class "+formatFloat(c))
				}
			}
			row := func(name string, indices []int) []string {
				out := []string{name, strconv.Itoa(len(indices))}
				counts := lo.CountValuesBy(indices, func(i int) float64 { return ds.y[i] })
				for _, c := range classes {
					out = append(out, strconv.Itoa(counts[c]))
				}
				return out
			}
			return renderTable(cmd.OutOrStdout(), header, [][]string{
				row("training", split.TrainingIndices),
				row("test", split.TestIndices),
			})
		},
	}
	addDataFlags(cmd)
	cmd.Flags().Float64("training-percentage", 0.7, "fraction of rows in the training set")
	cmd.Flags().Uint64("seed", 24, "random seed")
	cmd.Flags().Bool("stratified", false, "preserve class proportions")
	a.bind(cmd, map[string]string{
		"split.training_percentage": "training-percentage",
		"split.seed":                "seed",
		"split.stratified":          "stratified",
	})
	return cmd
}
