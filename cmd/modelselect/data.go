package main

import (
	"encoding/csv"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

const (
	taskRegression     = "regression"
	taskClassification = "classification"
)

// dataset is a numeric CSV table split into features and a target column.
type dataset struct {
	X        *mat.Dense
	y        []float64
	features []string
	target   string
}

func addDataFlags(cmd *cobra.Command) {
	cmd.Flags().String("data", "", "CSV file with a header row")
	cmd.Flags().String("target", "", "name of the target column (default: last column)")
	cmd.Flags().String("task", taskRegression, "regression or classification")
	_ = cmd.MarkFlagRequired("data")
}

func readDataFlags(cmd *cobra.Command) (*dataset, string, error) {
	path, _ := cmd.Flags().GetString("data")
	target, _ := cmd.Flags().GetString("target")
	task, _ := cmd.Flags().GetString("task")
	if task != taskRegression && task != taskClassification {
		return nil, "", errors.NewValidationError("task", "must be regression or classification", task)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	ds, err := readCSV(f, target)
	if err != nil {
		return nil, "", errors.Wrapf(err, "load %s", path)
	}
	return ds, task, nil
}

// readCSV parses a header row followed by numeric rows. An empty target
// selects the last column.
func readCSV(r io.Reader, target string) (*dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "parse csv")
	}
	if len(records) < 2 {
		return nil, errors.Wrap(errors.ErrEmptyData, "csv needs a header and at least one row")
	}
	header := records[0]
	if len(header) < 2 {
		return nil, errors.NewValueError("readCSV", "csv needs at least one feature and a target column")
	}
	targetCol := len(header) - 1
	if target != "" {
		targetCol = slices.Index(header, target)
		if targetCol < 0 {
			return nil, errors.NewValidationError("target", "no such column", target)
		}
	}

	rows := records[1:]
	X := mat.NewDense(len(rows), len(header)-1, nil)
	y := make([]float64, len(rows))
	for i, record := range rows {
		col := 0
		for j, cell := range record {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "row %d, column %q", i+2, header[j])
			}
			if j == targetCol {
				y[i] = v
				continue
			}
			X.Set(i, col, v)
			col++
		}
	}
	return &dataset{
		X:        X,
		y:        y,
		features: slices.Delete(slices.Clone(header), targetCol, targetCol+1),
		target:   header[targetCol],
	}, nil
}
