package model_selection

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/core/model"
	"github.com/YuminosukeSato/modelselect/core/parallel"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
	"github.com/YuminosukeSato/modelselect/pkg/log"
)

// CrossValidation produces out-of-fold predictions: every row is predicted
// by a model trained on the other folds only.
type CrossValidation[P model.Prediction] struct {
	folds      int
	seed       uint64
	stratified bool
	opts       options
}

// NewRandomCrossValidation assigns rows to folds by a seeded shuffle.
func NewRandomCrossValidation[P model.Prediction](folds int, seed uint64, opts ...Option) *CrossValidation[P] {
	return &CrossValidation[P]{folds: folds, seed: seed, opts: newOptions(opts)}
}

// NewStratifiedCrossValidation keeps class proportions similar across folds.
func NewStratifiedCrossValidation[P model.Prediction](folds int, seed uint64, opts ...Option) *CrossValidation[P] {
	return &CrossValidation[P]{folds: folds, seed: seed, stratified: true, opts: newOptions(opts)}
}

// NumberOfFolds returns k.
func (cv *CrossValidation[P]) NumberOfFolds() int { return cv.folds }

func (cv *CrossValidation[P]) validate(rows int) error {
	if cv.folds < 2 {
		return errors.NewValidationError("folds", "must be at least 2", cv.folds)
	}
	if cv.folds > rows {
		return errors.NewValidationError("folds", fmt.Sprintf("must not exceed the number of rows (%d)", rows), cv.folds)
	}
	return nil
}

// checkLabels rejects NaN class labels, which cannot be grouped into strata.
func (cv *CrossValidation[P]) checkLabels(labels []float64) error {
	if !cv.stratified {
		return nil
	}
	for i, label := range labels {
		if math.IsNaN(label) {
			return errors.NewValueError("CrossValidate", fmt.Sprintf("class label at position %d is NaN", i))
		}
	}
	return nil
}

// Folds returns the fold assignment for targets. Indices are row indices.
func (cv *CrossValidation[P]) Folds(targets []float64) ([]Fold, error) {
	if err := cv.validate(len(targets)); err != nil {
		return nil, err
	}
	if err := cv.checkLabels(targets); err != nil {
		return nil, err
	}
	return cv.assign(targets), nil
}

func (cv *CrossValidation[P]) assign(labels []float64) []Fold {
	var holdouts [][]int
	if cv.stratified {
		holdouts = stratifiedFoldAssignment(labels, cv.folds, cv.seed)
	} else {
		holdouts = randomFoldAssignment(len(labels), cv.folds, cv.seed)
	}
	return buildFolds(len(labels), holdouts)
}

// CrossValidate returns one prediction per row of X, in row order.
func (cv *CrossValidation[P]) CrossValidate(ctx context.Context, learner model.Learner[P], X mat.Matrix, y []float64) ([]P, error) {
	return cv.CrossValidateIndices(ctx, learner, X, y, lo.Range(len(y)))
}

// CrossValidateIndices cross-validates only the given rows. The result is
// aligned with indices: result[i] is the prediction for row indices[i].
func (cv *CrossValidation[P]) CrossValidateIndices(ctx context.Context, learner model.Learner[P], X mat.Matrix, y []float64, indices []int) ([]P, error) {
	if err := cv.validate(len(indices)); err != nil {
		return nil, err
	}
	if err := model.CheckObservations("CrossValidate", X, y); err != nil {
		return nil, err
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(y) {
			return nil, errors.NewValidationError("indices", "index outside the target range", idx)
		}
	}

	labels := model.Targets(y, indices)
	if err := cv.checkLabels(labels); err != nil {
		return nil, err
	}
	folds := cv.assign(labels)
	predictions := make([]P, len(indices))
	logger := cv.opts.logger.With(log.OperationKey, log.OperationCrossValidate, log.FoldsKey, cv.folds)
	start := time.Now()

	err := parallel.ForEach(ctx, len(folds), cv.opts.workers, func(f int) error {
		fold := folds[f]
		trainRows := lo.Map(fold.TrainingIndices, func(pos int, _ int) int { return indices[pos] })
		holdoutRows := lo.Map(fold.HoldoutIndices, func(pos int, _ int) int { return indices[pos] })

		foldPredictions, err := learnAndPredict(learner, X, y, trainRows, holdoutRows)
		if err != nil {
			logger.Error("fold failed", err, log.FoldKey, f)
			return errors.NewModelError("CrossValidate", fmt.Sprintf("fold %d", f), err)
		}
		for i, pos := range fold.HoldoutIndices {
			predictions[pos] = foldPredictions[i]
		}
		logger.Debug("fold completed",
			log.FoldKey, f,
			log.TrainingSamplesKey, len(trainRows),
			log.TestSamplesKey, len(holdoutRows),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("cross-validation completed",
		log.SamplesKey, len(indices),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return predictions, nil
}

// CrossValidatedError cross-validates and scores the out-of-fold predictions.
func (cv *CrossValidation[P]) CrossValidatedError(ctx context.Context, learner model.Learner[P], metric model.Metric[P], X mat.Matrix, y []float64) (float64, error) {
	predictions, err := cv.CrossValidate(ctx, learner, X, y)
	if err != nil {
		return 0, err
	}
	e, err := metric.Error(y, predictions)
	if err != nil {
		return 0, errors.NewModelError("CrossValidatedError", "metric failed", err)
	}
	return e, nil
}

// learnAndPredict fits a fresh model on trainRows and predicts predictRows.
// Panics inside the learner or model are returned as errors.
func learnAndPredict[P model.Prediction](learner model.Learner[P], X mat.Matrix, y []float64, trainRows, predictRows []int) ([]P, error) {
	var predictions []P
	err := errors.SafeExecute("learner", func() error {
		m, err := learner.Learn(model.Rows(X, trainRows), model.Targets(y, trainRows))
		if err != nil {
			return err
		}
		predictions, err = m.Predict(model.Rows(X, predictRows))
		if err != nil {
			return err
		}
		if len(predictions) != len(predictRows) {
			return errors.NewDimensionError("Predict", len(predictRows), len(predictions), 0)
		}
		return nil
	})
	return predictions, err
}
