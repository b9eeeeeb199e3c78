package tree

import (
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/core/model"
	"github.com/YuminosukeSato/modelselect/metrics"
)

// DecisionTreeRegressor is a CART regressor minimizing squared error.
type DecisionTreeRegressor struct {
	model.BaseEstimator

	params params

	root         *node
	nFeatures_   int
	importances_ []float64
	depth_       int
	nLeaves_     int
}

// NewDecisionTreeRegressor creates a regressor using "squared_error".
func NewDecisionTreeRegressor(opts ...Option) *DecisionTreeRegressor {
	return &DecisionTreeRegressor{params: newParams("squared_error", opts)}
}

// Fit grows the tree on X and the n×1 target column y.
func (dt *DecisionTreeRegressor) Fit(X, y mat.Matrix) error {
	if err := dt.params.validate("squared_error"); err != nil {
		return err
	}
	dense, targets, err := checkFitInput("DecisionTreeRegressor.Fit", X, y)
	if err != nil {
		return err
	}
	b := newBuilder(dt.params, dense, func() accumulator {
		return &varianceAccumulator{targets: targets}
	})
	dt.root = b.build(lo.Range(len(targets)), 0)
	_, dt.nFeatures_ = dense.Dims()
	dt.importances_ = b.normalizedImportance()
	dt.depth_ = b.depth
	dt.nLeaves_ = b.leaves
	dt.SetFitted()
	return nil
}

// Predict returns the mean target of the leaf reached by each row.
func (dt *DecisionTreeRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := dt.CheckFitted("DecisionTreeRegressor", "Predict"); err != nil {
		return nil, err
	}
	rows, err := checkPredictInput("DecisionTreeRegressor.Predict", X, dt.nFeatures_)
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(len(rows), 1, nil)
	for i, x := range rows {
		out.Set(i, 0, dt.root.find(x).value[0])
	}
	return out, nil
}

// Score returns the coefficient of determination R² on X and y.
func (dt *DecisionTreeRegressor) Score(X, y mat.Matrix) (float64, error) {
	pred, err := dt.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(model.Column(y, 0), model.Column(pred, 0))
}

// GetFeatureImportances returns the normalized total variance reduction per feature.
func (dt *DecisionTreeRegressor) GetFeatureImportances() []float64 {
	return slices.Clone(dt.importances_)
}

// GetDepth returns the depth of the fitted tree.
func (dt *DecisionTreeRegressor) GetDepth() int { return dt.depth_ }

// GetNLeaves returns the number of leaves of the fitted tree.
func (dt *DecisionTreeRegressor) GetNLeaves() int { return dt.nLeaves_ }

// GetParams returns the hyperparameters.
func (dt *DecisionTreeRegressor) GetParams() map[string]interface{} {
	return dt.params.asMap()
}

// SetParams updates hyperparameters by their GetParams names.
func (dt *DecisionTreeRegressor) SetParams(values map[string]interface{}) error {
	return dt.params.set(values)
}
