package ensemble

import (
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/core/model"
	"github.com/YuminosukeSato/modelselect/metrics"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
	"github.com/YuminosukeSato/modelselect/sklearn/tree"
)

// RandomForestClassifier averages the class distributions of
// bootstrap-trained classification trees.
type RandomForestClassifier struct {
	model.BaseEstimator

	params   forestParams
	trees    []*tree.DecisionTreeClassifier
	classes_ []float64
}

// NewRandomForestClassifier creates a forest of 100 Gini trees by default.
func NewRandomForestClassifier(opts ...Option) *RandomForestClassifier {
	return &RandomForestClassifier{params: newForestParams(opts)}
}

// Fit trains every tree on its own bootstrap sample of X and the n×1 label column y.
func (rf *RandomForestClassifier) Fit(X, y mat.Matrix) error {
	if err := rf.params.validate(); err != nil {
		return err
	}
	if y == nil {
		return errors.NewModelError("RandomForestClassifier.Fit", "empty input", errors.ErrEmptyData)
	}
	targets := model.Column(y, 0)
	if err := model.CheckObservations("RandomForestClassifier.Fit", X, targets); err != nil {
		return err
	}
	trees, err := fitTrees(rf.params, X, targets, func(t int) *tree.DecisionTreeClassifier {
		return tree.NewDecisionTreeClassifier(rf.params.treeOptions(t)...)
	})
	if err != nil {
		return err
	}
	rf.trees = trees
	rf.classes_ = lo.Uniq(targets)
	slices.Sort(rf.classes_)
	rf.SetFitted()
	return nil
}

// PredictProba averages tree distributions. A tree whose bootstrap sample
// missed a class contributes zero probability to it.
func (rf *RandomForestClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := rf.CheckFitted("RandomForestClassifier", "PredictProba"); err != nil {
		return nil, err
	}
	column := make(map[float64]int, len(rf.classes_))
	for i, c := range rf.classes_ {
		column[c] = i
	}
	r, _ := X.Dims()
	out := mat.NewDense(r, len(rf.classes_), nil)
	for _, tr := range rf.trees {
		proba, err := tr.PredictProba(X)
		if err != nil {
			return nil, err
		}
		for j, c := range tr.Classes() {
			dst := column[c]
			for i := 0; i < r; i++ {
				out.Set(i, dst, out.At(i, dst)+proba.At(i, j))
			}
		}
	}
	out.Scale(1/float64(len(rf.trees)), out)
	return out, nil
}

// Predict returns the class with the highest mean probability per row.
func (rf *RandomForestClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := rf.PredictProba(X)
	if err != nil {
		return nil, err
	}
	return model.ColumnVector(model.PointPredictions(model.ProbabilitiesFromMatrix(proba, rf.classes_))), nil
}

// Classes returns the sorted class labels seen during Fit.
func (rf *RandomForestClassifier) Classes() []float64 { return slices.Clone(rf.classes_) }

// Score returns the mean accuracy on X and y.
func (rf *RandomForestClassifier) Score(X, y mat.Matrix) (float64, error) {
	pred, err := rf.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.Accuracy(model.Column(y, 0), model.Column(pred, 0))
}
