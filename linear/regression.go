package linear

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/core/model"
	"github.com/YuminosukeSato/modelselect/core/parallel"
	"github.com/YuminosukeSato/modelselect/metrics"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// LinearRegression は L2 正則化付きの線形回帰モデル（リッジ回帰）
type LinearRegression struct {
	model.BaseEstimator // BaseEstimatorを埋め込み

	alpha        float64
	fitIntercept bool

	Weights   *mat.VecDense // 重み（係数）
	Intercept float64       // 切片
	NFeatures int           // 特徴量の数
}

// NewLinearRegression は新しい線形回帰モデルを作成する
func NewLinearRegression(opts ...Option) *LinearRegression {
	lr := &LinearRegression{fitIntercept: true}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// NewRidge は alpha を指定したリッジ回帰モデルを作成する
func NewRidge(alpha float64, opts ...Option) *LinearRegression {
	return NewLinearRegression(append([]Option{WithAlpha(alpha)}, opts...)...)
}

// Alpha は正則化の強さを返す
func (lr *LinearRegression) Alpha() float64 { return lr.alpha }

// Fit はモデルを訓練データで学習させる
// 中心化した X, y について (X^T X + αI) w = X^T y を解く。切片は正則化しない
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	if lr.alpha < 0 {
		return errors.NewValidationError("alpha", "must be non-negative", lr.alpha)
	}
	// 入力の検証
	if X == nil || y == nil {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	r, c := X.Dims()
	ry, cy := y.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("LinearRegression.Fit", "y must be a column vector")
	}

	lr.NFeatures = c

	// 列平均と目的変数の平均
	xMean := make([]float64, c)
	yVec := mat.NewVecDense(r, model.Column(y, 0))
	var yMean float64
	if lr.fitIntercept {
		for j := 0; j < c; j++ {
			xMean[j] = floats.Sum(mat.Col(nil, j, X)) / float64(r)
		}
		yMean = floats.Sum(yVec.RawVector().Data) / float64(r)
	}

	// 並列処理の閾値（この値以下の行数では逐次処理を使用）
	const parallelThreshold = 1000

	centered := mat.NewDense(r, c, nil)
	yCentered := mat.NewVecDense(r, nil)
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < c; j++ {
				centered.Set(i, j, X.At(i, j)-xMean[j])
			}
			yCentered.SetVec(i, yVec.AtVec(i)-yMean)
		}
	})

	// (X^T X + αI)
	var gram mat.Dense
	gram.Mul(centered.T(), centered)
	for j := 0; j < c; j++ {
		gram.Set(j, j, gram.At(j, j)+lr.alpha)
	}

	var xty mat.VecDense
	xty.MulVec(centered.T(), yCentered)

	weights := mat.NewVecDense(c, nil)
	if err := weights.SolveVec(&gram, &xty); err != nil {
		return errors.NewModelError("LinearRegression.Fit", "singular matrix", errors.ErrSingularMatrix)
	}
	if err := errors.CheckNumericalStability("LinearRegression.Fit", weights.RawVector().Data, 0); err != nil {
		return err
	}

	lr.Weights = weights
	lr.Intercept = yMean - mat.Dot(mat.NewVecDense(c, xMean), weights)

	// モデルを学習済み状態に設定
	lr.SetFitted()

	return nil
}

// Predict は入力データに対する予測を行う
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.CheckFitted("LinearRegression", "Predict"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	if c != lr.NFeatures {
		return nil, errors.NewDimensionError("LinearRegression.Predict", lr.NFeatures, c, 1)
	}

	// 予測: y = X * weights + intercept
	var out mat.VecDense
	out.MulVec(X, lr.Weights)
	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		predictions.Set(i, 0, out.AtVec(i)+lr.Intercept)
	}
	return predictions, nil
}

// GetWeights は学習された重み（係数）を返す
func (lr *LinearRegression) GetWeights() []float64 {
	if lr.Weights == nil {
		return nil
	}
	return mat.Col(nil, 0, lr.Weights)
}

// GetIntercept は学習された切片を返す
func (lr *LinearRegression) GetIntercept() float64 {
	if !lr.IsFitted() {
		return 0
	}
	return lr.Intercept
}

// Score はモデルの決定係数（R²）を計算する
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(model.Column(y, 0), model.Column(yPred, 0))
}
