package tree

import (
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/core/model"
	"github.com/YuminosukeSato/modelselect/metrics"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// DecisionTreeClassifier is a CART classifier using the Gini or entropy
// criterion. Compatible with scikit-learn's DecisionTreeClassifier.
type DecisionTreeClassifier struct {
	model.BaseEstimator

	params params

	root         *node
	classes_     []float64
	nClasses_    int
	nFeatures_   int
	importances_ []float64
	depth_       int
	nLeaves_     int
}

// NewDecisionTreeClassifier creates a classifier. The default criterion is "gini".
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	return &DecisionTreeClassifier{params: newParams("gini", opts)}
}

// Fit grows the tree. y is an n×1 column of class labels.
func (dt *DecisionTreeClassifier) Fit(X, y mat.Matrix) error {
	if err := dt.params.validate("gini", "entropy"); err != nil {
		return err
	}
	dense, targets, err := checkFitInput("DecisionTreeClassifier.Fit", X, y)
	if err != nil {
		return err
	}

	classes := lo.Uniq(targets)
	slices.Sort(classes)
	classIndex := make(map[float64]int, len(classes))
	for i, c := range classes {
		classIndex[c] = i
	}
	labels := lo.Map(targets, func(v float64, _ int) int { return classIndex[v] })

	b := newBuilder(dt.params, dense, func() accumulator {
		return &classAccumulator{labels: labels, counts: make([]float64, len(classes)), criterion: dt.params.Criterion}
	})
	dt.root = b.build(lo.Range(len(targets)), 0)
	dt.classes_ = classes
	dt.nClasses_ = len(classes)
	_, dt.nFeatures_ = dense.Dims()
	dt.importances_ = b.normalizedImportance()
	dt.depth_ = b.depth
	dt.nLeaves_ = b.leaves
	dt.SetFitted()
	return nil
}

// Predict returns the most probable class per row. Ties go to the smaller label.
func (dt *DecisionTreeClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := dt.PredictProba(X)
	if err != nil {
		return nil, err
	}
	r, c := proba.Dims()
	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		best := 0
		for j := 1; j < c; j++ {
			if proba.At(i, j) > proba.At(i, best) {
				best = j
			}
		}
		out.Set(i, 0, dt.classes_[best])
	}
	return out, nil
}

// PredictProba returns the class distribution of the leaf reached by each
// row. Columns follow Classes().
func (dt *DecisionTreeClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := dt.CheckFitted("DecisionTreeClassifier", "PredictProba"); err != nil {
		return nil, err
	}
	rows, err := checkPredictInput("DecisionTreeClassifier.PredictProba", X, dt.nFeatures_)
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(len(rows), dt.nClasses_, nil)
	for i, x := range rows {
		out.SetRow(i, dt.root.find(x).value)
	}
	return out, nil
}

// Classes returns the sorted class labels seen during Fit.
func (dt *DecisionTreeClassifier) Classes() []float64 {
	return slices.Clone(dt.classes_)
}

// Score returns the mean accuracy on X and y.
func (dt *DecisionTreeClassifier) Score(X, y mat.Matrix) (float64, error) {
	pred, err := dt.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.Accuracy(model.Column(y, 0), model.Column(pred, 0))
}

// GetFeatureImportances returns the normalized total impurity decrease per feature.
func (dt *DecisionTreeClassifier) GetFeatureImportances() []float64 {
	return slices.Clone(dt.importances_)
}

// GetDepth returns the depth of the fitted tree. A single leaf has depth 0.
func (dt *DecisionTreeClassifier) GetDepth() int { return dt.depth_ }

// GetNLeaves returns the number of leaves of the fitted tree.
func (dt *DecisionTreeClassifier) GetNLeaves() int { return dt.nLeaves_ }

// GetParams returns the hyperparameters.
func (dt *DecisionTreeClassifier) GetParams() map[string]interface{} {
	return dt.params.asMap()
}

// SetParams updates hyperparameters by their GetParams names.
func (dt *DecisionTreeClassifier) SetParams(values map[string]interface{}) error {
	return dt.params.set(values)
}

// checkFitInput validates X and an n×1 target column and returns dense
// copies.
func checkFitInput(op string, X, y mat.Matrix) (*mat.Dense, []float64, error) {
	if X == nil || y == nil {
		return nil, nil, errors.NewModelError(op, "empty input", errors.ErrEmptyData)
	}
	_, c := y.Dims()
	if c != 1 {
		return nil, nil, errors.NewDimensionError(op, 1, c, 1)
	}
	targets := model.Column(y, 0)
	if err := model.CheckObservations(op, X, targets); err != nil {
		return nil, nil, err
	}
	return mat.DenseCopyOf(X), targets, nil
}

// checkPredictInput validates the feature count and returns the rows of X.
func checkPredictInput(op string, X mat.Matrix, nFeatures int) ([][]float64, error) {
	r, c := X.Dims()
	if c != nFeatures {
		return nil, errors.NewDimensionError(op, nFeatures, c, 1)
	}
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = mat.Row(nil, i, X)
	}
	return rows, nil
}
