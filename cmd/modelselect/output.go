package main

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"

	"github.com/YuminosukeSato/modelselect/optimization"
)

func renderTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(header)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// progressObserver advances a progress bar once per evaluated candidate.
type progressObserver struct {
	bar *progressbar.ProgressBar
}

func newProgressObserver(w io.Writer, total int, description string) *progressObserver {
	return &progressObserver{bar: progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)}
}

func (p *progressObserver) OnEvaluation(optimization.Run, int, optimization.OptimizerResult) {
	_ = p.bar.Add(1)
}

func (p *progressObserver) OnFinish(optimization.Run, optimization.OptimizerResult) {
	_ = p.bar.Finish()
}
