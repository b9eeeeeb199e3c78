package model_selection

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/modelselect/core/model"
	"github.com/YuminosukeSato/modelselect/core/parallel"
	"github.com/YuminosukeSato/modelselect/core/random"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
	"github.com/YuminosukeSato/modelselect/pkg/log"
	"github.com/YuminosukeSato/modelselect/sampling"
)

// DefaultSamplePercentages are the training fractions used when none are given.
var DefaultSamplePercentages = []float64{0.05, 0.1, 0.2, 0.4, 0.8, 1.0}

// LearningCurvePoint is the mean training and validation error at one
// training fraction.
type LearningCurvePoint struct {
	SampleSize      int
	SampleFraction  float64
	TrainingError   float64
	ValidationError float64
}

// LearningCurvesCalculator trains on growing fractions of a fixed training
// set and scores each model on its own training rows and on a fixed test
// set.
type LearningCurvesCalculator[P model.Prediction] struct {
	metric             model.Metric[P]
	samplePercentages  []float64
	trainingPercentage float64
	shuffles           int
	seed               uint64
	stratified         bool
	opts               options
}

// NewRandomShuffleLearningCurvesCalculator reshuffles the training rows once
// per repetition and takes growing prefixes of that order, so the subsets
// of one repetition are nested.
func NewRandomShuffleLearningCurvesCalculator[P model.Prediction](metric model.Metric[P], samplePercentages []float64,
	trainingPercentage float64, numberOfShufflesPrSample int, seed uint64, opts ...Option) *LearningCurvesCalculator[P] {
	return &LearningCurvesCalculator[P]{
		metric:             metric,
		samplePercentages:  samplePercentages,
		trainingPercentage: trainingPercentage,
		shuffles:           numberOfShufflesPrSample,
		seed:               seed,
		opts:               newOptions(opts),
	}
}

// NewStratifiedLearningCurvesCalculator splits and subsamples per class.
func NewStratifiedLearningCurvesCalculator[P model.Prediction](metric model.Metric[P], samplePercentages []float64,
	trainingPercentage float64, numberOfShufflesPrSample int, seed uint64, opts ...Option) *LearningCurvesCalculator[P] {
	c := NewRandomShuffleLearningCurvesCalculator(metric, samplePercentages, trainingPercentage, numberOfShufflesPrSample, seed, opts...)
	c.stratified = true
	return c
}

// Validate checks the configuration.
func (c *LearningCurvesCalculator[P]) Validate() error {
	if c.metric == nil {
		return errors.NewValidationError("metric", "must not be nil", nil)
	}
	if len(c.samplePercentages) == 0 {
		return errors.NewValidationError("samplePercentages", "must not be empty", c.samplePercentages)
	}
	for _, p := range c.samplePercentages {
		if math.IsNaN(p) || p <= 0 || p > 1 {
			return errors.NewValidationError("samplePercentages", "every fraction must be in (0, 1]", p)
		}
	}
	if c.shuffles < 1 {
		return errors.NewValidationError("numberOfShufflesPrSample", "must be at least 1", c.shuffles)
	}
	return validateTrainingPercentage(c.trainingPercentage)
}

type curveCell struct {
	size            int
	trainingError   float64
	validationError float64
}

// Calculate returns one point per configured fraction, in configured order.
func (c *LearningCurvesCalculator[P]) Calculate(ctx context.Context, learner model.Learner[P], X mat.Matrix, y []float64) ([]LearningCurvePoint, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := model.CheckObservations("LearningCurve", X, y); err != nil {
		return nil, err
	}

	var splitter *TrainingTestIndexSplitter
	if c.stratified {
		splitter = NewStratifiedTrainingTestIndexSplitter(c.trainingPercentage, c.seed, WithLogger(c.opts.logger))
	} else {
		splitter = NewRandomTrainingTestIndexSplitter(c.trainingPercentage, c.seed, WithLogger(c.opts.logger))
	}
	split, err := splitter.Split(y)
	if err != nil {
		return nil, err
	}
	testX := model.Rows(X, split.TestIndices)
	testY := model.Targets(y, split.TestIndices)

	// one shuffled order of the training rows per repetition
	orders := make([][]int, c.shuffles)
	for r := range orders {
		orders[r], err = sampling.NewRandomIndexSampler().Sample(y, len(split.TrainingIndices), split.TrainingIndices, random.DeriveSeed(c.seed, uint64(r)))
		if err != nil {
			return nil, err
		}
	}

	n := len(y)
	nFractions := len(c.samplePercentages)
	cells := make([]curveCell, c.shuffles*nFractions)
	logger := c.opts.logger.With(log.OperationKey, log.OperationLearningCurve)
	start := time.Now()

	err = parallel.ForEach(ctx, len(cells), c.opts.workers, func(task int) error {
		r, f := task/nFractions, task%nFractions
		fraction := c.samplePercentages[f]
		size := min(max(1, int(math.Round(fraction*c.trainingPercentage*float64(n)))), len(split.TrainingIndices))

		rows, err := c.subset(y, orders[r], size, r)
		if err != nil {
			return err
		}
		cell, err := c.evaluate(learner, X, y, rows, testX, testY)
		if err != nil {
			logger.Error("learning curve cell failed", err, log.FractionKey, fraction, log.RepetitionKey, r)
			return errors.NewModelError("LearningCurve", fmt.Sprintf("fraction %g repetition %d", fraction, r), err)
		}
		cells[task] = cell
		logger.Debug("learning curve cell completed",
			log.FractionKey, fraction,
			log.RepetitionKey, r,
			log.SamplesKey, size,
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	points := make([]LearningCurvePoint, nFractions)
	for f, fraction := range c.samplePercentages {
		var trainErrs, valErrs []float64
		for r := 0; r < c.shuffles; r++ {
			cell := cells[r*nFractions+f]
			trainErrs = append(trainErrs, cell.trainingError)
			valErrs = append(valErrs, cell.validationError)
			points[f].SampleSize = cell.size
		}
		points[f].SampleFraction = fraction
		points[f].TrainingError = stat.Mean(trainErrs, nil)
		points[f].ValidationError = stat.Mean(valErrs, nil)
	}

	logger.Info("learning curve completed",
		log.SamplesKey, n,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return points, nil
}

// subset picks the training rows of one cell: a prefix of the repetition's
// order, or a stratified draw from the training rows.
func (c *LearningCurvesCalculator[P]) subset(y []float64, order []int, size, repetition int) ([]int, error) {
	if !c.stratified || size == len(order) {
		return order[:size], nil
	}
	return sampling.NewStratifiedIndexSampler().Sample(y, size, order, random.DeriveSeed(c.seed, uint64(repetition)))
}

func (c *LearningCurvesCalculator[P]) evaluate(learner model.Learner[P], X mat.Matrix, y []float64, rows []int, testX *mat.Dense, testY []float64) (curveCell, error) {
	trainX := model.Rows(X, rows)
	trainY := model.Targets(y, rows)

	var cell curveCell
	err := errors.SafeExecute("learner", func() error {
		m, err := learner.Learn(trainX, trainY)
		if err != nil {
			return err
		}
		trainPred, err := m.Predict(trainX)
		if err != nil {
			return err
		}
		testPred, err := m.Predict(testX)
		if err != nil {
			return err
		}
		if cell.trainingError, err = c.metric.Error(trainY, trainPred); err != nil {
			return err
		}
		if cell.validationError, err = c.metric.Error(testY, testPred); err != nil {
			return err
		}
		cell.size = len(rows)
		return nil
	})
	return cell, err
}

// WriteCSV writes the points with a header row.
func WriteCSV(w io.Writer, points []LearningCurvePoint) error {
	cw := csv.NewWriter(w)
	records := [][]string{{"SampleFraction", "SampleSize", "TrainingError", "ValidationError"}}
	records = append(records, lo.Map(points, func(p LearningCurvePoint, _ int) []string {
		return []string{
			strconv.FormatFloat(p.SampleFraction, 'g', -1, 64),
			strconv.Itoa(p.SampleSize),
			strconv.FormatFloat(p.TrainingError, 'g', -1, 64),
			strconv.FormatFloat(p.ValidationError, 'g', -1, 64),
		}
	})...)
	if err := cw.WriteAll(records); err != nil {
		return errors.Wrap(err, "write learning curve")
	}
	return nil
}
