package ensemble

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/modelselect/core/model"
	"github.com/YuminosukeSato/modelselect/metrics"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
	"github.com/YuminosukeSato/modelselect/sklearn/tree"
)

// RandomForestRegressor averages bootstrap-trained regression trees.
type RandomForestRegressor struct {
	model.BaseEstimator

	params forestParams
	trees  []*tree.DecisionTreeRegressor
}

// NewRandomForestRegressor creates a forest of 100 trees by default.
func NewRandomForestRegressor(opts ...Option) *RandomForestRegressor {
	return &RandomForestRegressor{params: newForestParams(opts)}
}

// Fit trains every tree on its own bootstrap sample of X and the n×1 column y.
func (rf *RandomForestRegressor) Fit(X, y mat.Matrix) error {
	if err := rf.params.validate(); err != nil {
		return err
	}
	if y == nil {
		return errors.NewModelError("RandomForestRegressor.Fit", "empty input", errors.ErrEmptyData)
	}
	targets := model.Column(y, 0)
	if err := model.CheckObservations("RandomForestRegressor.Fit", X, targets); err != nil {
		return err
	}
	trees, err := fitTrees(rf.params, X, targets, func(t int) *tree.DecisionTreeRegressor {
		return tree.NewDecisionTreeRegressor(rf.params.treeOptions(t)...)
	})
	if err != nil {
		return err
	}
	rf.trees = trees
	rf.SetFitted()
	return nil
}

// PredictTrees returns an n×nEstimators matrix holding the prediction of
// every tree for every row.
func (rf *RandomForestRegressor) PredictTrees(X mat.Matrix) (*mat.Dense, error) {
	if err := rf.CheckFitted("RandomForestRegressor", "PredictTrees"); err != nil {
		return nil, err
	}
	r, _ := X.Dims()
	out := mat.NewDense(r, len(rf.trees), nil)
	for t, tr := range rf.trees {
		pred, err := tr.Predict(X)
		if err != nil {
			return nil, err
		}
		out.SetCol(t, mat.Col(nil, 0, pred))
	}
	return out, nil
}

// PredictMeanStd returns the mean and standard deviation across trees for
// every row. A single-tree forest reports zero spread.
func (rf *RandomForestRegressor) PredictMeanStd(X mat.Matrix) (mean, std []float64, err error) {
	perTree, err := rf.PredictTrees(X)
	if err != nil {
		return nil, nil, err
	}
	r, c := perTree.Dims()
	mean = make([]float64, r)
	std = make([]float64, r)
	for i := 0; i < r; i++ {
		row := perTree.RawRowView(i)
		if c == 1 {
			mean[i] = row[0]
			continue
		}
		mean[i], std[i] = stat.PopMeanStdDev(row, nil)
	}
	return mean, std, nil
}

// Predict returns the mean tree prediction per row.
func (rf *RandomForestRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	mean, _, err := rf.PredictMeanStd(X)
	if err != nil {
		return nil, err
	}
	return model.ColumnVector(mean), nil
}

// Score returns R² on X and y.
func (rf *RandomForestRegressor) Score(X, y mat.Matrix) (float64, error) {
	pred, err := rf.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(model.Column(y, 0), model.Column(pred, 0))
}

// NEstimators returns the configured number of trees.
func (rf *RandomForestRegressor) NEstimators() int { return rf.params.nEstimators }
