// Package dummy provides baseline estimators that ignore the features.
// Compatible with scikit-learn's DummyRegressor and DummyClassifier.
package dummy

import (
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/modelselect/core/model"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// DummyRegressor predicts a constant: the mean or the median of the
// training targets.
type DummyRegressor struct {
	model.BaseEstimator

	strategy string
	constant float64
}

// NewDummyRegressor accepts "mean" or "median".
func NewDummyRegressor(strategy string) *DummyRegressor {
	return &DummyRegressor{strategy: strategy}
}

// Fit computes the constant from the n×1 column y.
func (d *DummyRegressor) Fit(X, y mat.Matrix) error {
	targets, err := fitTargets("DummyRegressor.Fit", X, y)
	if err != nil {
		return err
	}
	switch d.strategy {
	case "mean":
		d.constant = stat.Mean(targets, nil)
	case "median":
		sorted := slices.Clone(targets)
		slices.Sort(sorted)
		d.constant = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	default:
		return errors.NewValidationError("strategy", "must be mean or median", d.strategy)
	}
	d.SetFitted()
	return nil
}

// Predict returns the constant for every row.
func (d *DummyRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := d.CheckFitted("DummyRegressor", "Predict"); err != nil {
		return nil, err
	}
	r, _ := X.Dims()
	return model.ColumnVector(lo.Times(r, func(int) float64 { return d.constant })), nil
}

// DummyClassifier predicts the most frequent class, or the class
// distribution of the training labels.
type DummyClassifier struct {
	model.BaseEstimator

	strategy string
	classes_ []float64
	prior_   []float64
}

// NewDummyClassifier accepts "most_frequent" or "prior". Both predict the
// most frequent class; they differ in PredictProba.
func NewDummyClassifier(strategy string) *DummyClassifier {
	return &DummyClassifier{strategy: strategy}
}

// Fit records the class frequencies of y.
func (d *DummyClassifier) Fit(X, y mat.Matrix) error {
	if d.strategy != "most_frequent" && d.strategy != "prior" {
		return errors.NewValidationError("strategy", "must be most_frequent or prior", d.strategy)
	}
	targets, err := fitTargets("DummyClassifier.Fit", X, y)
	if err != nil {
		return err
	}
	counts := lo.CountValues(targets)
	d.classes_ = lo.Keys(counts)
	slices.Sort(d.classes_)
	d.prior_ = lo.Map(d.classes_, func(c float64, _ int) float64 {
		return float64(counts[c]) / float64(len(targets))
	})
	d.SetFitted()
	return nil
}

// Classes returns the sorted class labels.
func (d *DummyClassifier) Classes() []float64 { return slices.Clone(d.classes_) }

// PredictProba returns the training prior for "prior" and a one-hot row for
// "most_frequent".
func (d *DummyClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := d.CheckFitted("DummyClassifier", "PredictProba"); err != nil {
		return nil, err
	}
	row := slices.Clone(d.prior_)
	if d.strategy == "most_frequent" {
		best := d.mostFrequent()
		for j := range row {
			row[j] = 0
		}
		row[best] = 1
	}
	r, _ := X.Dims()
	out := mat.NewDense(r, len(row), nil)
	for i := 0; i < r; i++ {
		out.SetRow(i, row)
	}
	return out, nil
}

// Predict returns the most frequent class. Ties go to the smaller label.
func (d *DummyClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := d.CheckFitted("DummyClassifier", "Predict"); err != nil {
		return nil, err
	}
	label := d.classes_[d.mostFrequent()]
	r, _ := X.Dims()
	return model.ColumnVector(lo.Times(r, func(int) float64 { return label })), nil
}

func (d *DummyClassifier) mostFrequent() int {
	best := 0
	for j, p := range d.prior_ {
		if p > d.prior_[best] {
			best = j
		}
	}
	return best
}

func fitTargets(op string, X, y mat.Matrix) ([]float64, error) {
	if y == nil {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	targets := model.Column(y, 0)
	if err := model.CheckObservations(op, X, targets); err != nil {
		return nil, err
	}
	return targets, nil
}
