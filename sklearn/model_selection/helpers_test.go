package model_selection

import (
	"sync"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/core/model"
)

// meanLearner predicts the mean of its training targets.
func meanLearner() model.Learner[float64] {
	return model.LearnerFunc[float64](func(X mat.Matrix, y []float64) (model.Model[float64], error) {
		mean := lo.Sum(y) / float64(len(y))
		return model.ModelFunc[float64](func(X mat.Matrix) ([]float64, error) {
			r, _ := X.Dims()
			return lo.Times(r, func(int) float64 { return mean }), nil
		}), nil
	})
}

// recordingLearner stores the row ids (column 0 of X) it was trained on and
// predicts the row id of each observation.
type recordingLearner struct {
	mu      sync.Mutex
	trained [][]float64
}

func (l *recordingLearner) Learn(X mat.Matrix, y []float64) (model.Model[float64], error) {
	ids := model.Column(X, 0)
	l.mu.Lock()
	l.trained = append(l.trained, ids)
	l.mu.Unlock()
	return model.ModelFunc[float64](func(X mat.Matrix) ([]float64, error) {
		return lo.Map(model.Column(X, 0), func(id float64, _ int) float64 { return id }), nil
	}), nil
}

// identityObservations returns an n×2 matrix whose first column is the row
// index and the targets 1..n.
func identityObservations(n int) (*mat.Dense, []float64) {
	X := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, float64(i*i))
		y[i] = float64(i + 1)
	}
	return X, y
}
