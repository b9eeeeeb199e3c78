package linear

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/core/model"
)

// syntheticLinearData は y = 1 + Σ 0.5(j+1)·x_j + ノイズ を生成する
func syntheticLinearData(rows, cols int) (*mat.Dense, *mat.Dense) {
	rng := rand.New(rand.NewPCG(42, 42))

	X := mat.NewDense(rows, cols, nil)
	y := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		target := 1.0
		for j := 0; j < cols; j++ {
			x := rng.Float64()*2 - 1
			X.Set(i, j, x)
			target += x * 0.5 * float64(j+1)
		}
		y.Set(i, 0, target+(rng.Float64()-0.5)*0.1)
	}
	return X, y
}

func BenchmarkRidgeFit(b *testing.B) {
	shapes := []struct{ rows, cols int }{
		{100, 10},
		{1000, 10},
		{5000, 20},
	}
	for _, shape := range shapes {
		for _, alpha := range []float64{0, 10} {
			b.Run(fmt.Sprintf("%dx%d/alpha=%g", shape.rows, shape.cols, alpha), func(b *testing.B) {
				X, y := syntheticLinearData(shape.rows, shape.cols)
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					if err := NewRidge(alpha).Fit(X, y); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

// 交差検証の1フォールド分に相当する Learn + Predict
func BenchmarkRidgeLearner(b *testing.B) {
	X, y := syntheticLinearData(2000, 20)
	targets := mat.Col(nil, 0, y)
	learner := model.NewEstimatorLearner(func() model.Estimator { return NewRidge(1) })

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m, err := learner.Learn(X, targets)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := m.Predict(X); err != nil {
			b.Fatal(err)
		}
	}
}
