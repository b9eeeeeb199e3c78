package preprocessing

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/core/model"
)

// NewScaledLearner fits a fresh transformer on every training set and
// applies it to the rows the resulting model predicts. Used inside
// cross-validation the held-out fold never influences the scaling.
func NewScaledLearner[P model.Prediction](newTransformer func() Transformer, learner model.Learner[P]) model.Learner[P] {
	return model.LearnerFunc[P](func(X mat.Matrix, y []float64) (model.Model[P], error) {
		tr := newTransformer()
		if err := tr.Fit(X); err != nil {
			return nil, err
		}
		scaled, err := tr.Transform(X)
		if err != nil {
			return nil, err
		}
		m, err := learner.Learn(scaled, y)
		if err != nil {
			return nil, err
		}
		return model.ModelFunc[P](func(X mat.Matrix) ([]P, error) {
			scaled, err := tr.Transform(X)
			if err != nil {
				return nil, err
			}
			return m.Predict(scaled)
		}), nil
	})
}
