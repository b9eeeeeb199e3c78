// Package metrics は学習器の評価指標を提供する。
// 全ての Metric は「小さいほど良い」順序で誤差を返し、交差検証や最適化の目的関数として使われる。
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// checkPair は入力長の検証を行う
func checkPair(op string, yTrue []float64, n int) error {
	if len(yTrue) == 0 {
		return errors.NewValueError(op, "empty vector")
	}
	if n != len(yTrue) {
		return errors.NewDimensionError(op, len(yTrue), n, 0)
	}
	return nil
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("MSE", yTrue, len(yPred)); err != nil {
		return 0, err
	}
	// MSE = (1/n) * Σ(yTrue - yPred)²
	d := floats.Distance(yTrue, yPred, 2)
	return d * d / float64(len(yTrue)), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred []float64) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("MAE", yTrue, len(yPred)); err != nil {
		return 0, err
	}
	// MAE = (1/n) * Σ|yTrue - yPred|
	return floats.Distance(yTrue, yPred, 1) / float64(len(yTrue)), nil
}

// R2Score は決定係数（R²）を計算する
func R2Score(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("R2Score", yTrue, len(yPred)); err != nil {
		return 0, err
	}
	// 全変動が0の場合（すべてのyTrueが同じ値）
	if stat.Variance(yTrue, nil) == 0 || len(yTrue) < 2 {
		return 0, errors.NewValueError("R2Score", "total sum of squares is zero (no variance in yTrue)")
	}
	return stat.RSquaredFrom(yPred, yTrue, nil), nil
}

// MAPE は平均絶対パーセンテージ誤差を計算する。yTrue が0の要素は除外する
func MAPE(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("MAPE", yTrue, len(yPred)); err != nil {
		return 0, err
	}
	var sum float64
	valid := 0
	for i, t := range yTrue {
		if t == 0 {
			continue
		}
		sum += math.Abs(t-yPred[i]) / math.Abs(t)
		valid++
	}
	if valid == 0 {
		return 0, errors.NewValueError("MAPE", "all yTrue values are zero")
	}
	return sum / float64(valid) * 100, nil
}

// MeanSquaredErrorRegressionMetric は MSE を Metric として提供する
type MeanSquaredErrorRegressionMetric struct{}

// Error implements model.Metric.
func (MeanSquaredErrorRegressionMetric) Error(targets, predictions []float64) (float64, error) {
	return MSE(targets, predictions)
}

// RootMeanSquaredErrorRegressionMetric は RMSE を Metric として提供する
type RootMeanSquaredErrorRegressionMetric struct{}

// Error implements model.Metric.
func (RootMeanSquaredErrorRegressionMetric) Error(targets, predictions []float64) (float64, error) {
	return RMSE(targets, predictions)
}

// MeanAbsoluteErrorRegressionMetric は MAE を Metric として提供する
type MeanAbsoluteErrorRegressionMetric struct{}

// Error implements model.Metric.
func (MeanAbsoluteErrorRegressionMetric) Error(targets, predictions []float64) (float64, error) {
	return MAE(targets, predictions)
}
