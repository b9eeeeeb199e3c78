package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// writeData writes 40 rows of two features, a regression target and a class label.
func writeData(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("x0,x1,y,label\n")
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, "%d,%d,%d,%d\n", i, i%5, 2*i+i%5, i%2)
	}
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func TestSplitCommand(t *testing.T) {
	data := writeData(t)
	out, err := run(t, "split", "--data", data, "--target", "y")
	require.NoError(t, err)
	assert.Contains(t, out, "training")
	assert.Contains(t, out, "28")
	assert.Contains(t, out, "12")

	out, err = run(t, "split", "--data", data, "--target", "label", "--task", "classification", "--stratified")
	require.NoError(t, err)
	assert.Contains(t, out, "class 0")
	assert.Contains(t, out, "class 1")
	assert.Contains(t, out, "14")
}

func TestCVCommand(t *testing.T) {
	data := writeData(t)
	out, err := run(t, "cv", "--data", data, "--target", "y", "--learner", "mean", "--folds", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "mean squared error")
	assert.Contains(t, out, "4")

	for _, learner := range []string{"forest", "logistic"} {
		out, err = run(t, "cv", "--data", data, "--target", "label", "--task", "classification", "--learner", learner)
		require.NoError(t, err)
		assert.Contains(t, out, "total error")
	}
}

func TestTuneCommand(t *testing.T) {
	data := writeData(t)
	metricsFile := filepath.Join(t.TempDir(), "metrics.prom")
	out, err := run(t, "tune", "--data", data, "--target", "y", "--learner", "tree",
		"--iterations", "4", "--top", "2", "--metrics-file", metricsFile)
	require.NoError(t, err)
	assert.Contains(t, out, "max_depth")
	assert.Contains(t, out, "min_samples_leaf")

	metrics, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `modelselect_optimizer_evaluations_total{optimizer="random_search"} 4`)
}

func TestTuneCommand_Strategies(t *testing.T) {
	data := writeData(t)
	for _, strategy := range []string{"smbo", "grid", "tpe"} {
		t.Run(strategy, func(t *testing.T) {
			out, err := run(t, "tune", "--data", data, "--target", "y", "--learner", "ridge",
				"--optimizer", strategy, "--iterations", "3")
			require.NoError(t, err)
			assert.Contains(t, out, "alpha")
		})
	}
}

func TestTuneCommand_Errors(t *testing.T) {
	data := writeData(t)
	_, err := run(t, "tune", "--data", data, "--learner", "mean")
	assert.True(t, errors.IsConfigurationError(err))

	_, err = run(t, "tune", "--data", data, "--learner", "svm")
	assert.True(t, errors.IsConfigurationError(err))

	_, err = run(t, "tune", "--data", data, "--optimizer", "annealing")
	assert.True(t, errors.IsConfigurationError(err))

	_, err = run(t, "cv", "--data", data, "--target", "label", "--task", "classification", "--learner", "ridge")
	assert.True(t, errors.IsConfigurationError(err))

	_, err = run(t, "cv", "--data", data, "--target", "y", "--learner", "logistic")
	assert.True(t, errors.IsConfigurationError(err))
}

func TestCurveCommand(t *testing.T) {
	data := writeData(t)
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "curve.csv")
	plotPath := filepath.Join(dir, "curve.png")
	out, err := run(t, "curve", "--data", data, "--target", "y", "--shuffles", "2",
		"--output", csvPath, "--plot", plotPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Validation mean squared error")

	written, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	// Header plus one line per default sample percentage.
	assert.Len(t, strings.Split(strings.TrimSpace(string(written)), "\n"), 7)

	info, err := os.Stat(plotPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
