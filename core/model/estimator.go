package model

import (
	"gonum.org/v1/gonum/mat"
)

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる。y は n×1 の列ベクトル
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を n×1 の列ベクトルで返す
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Estimator は scikit-learn 形式の教師あり学習モデル
type Estimator interface {
	Fitter
	Predictor
}

// ProbabilityEstimator はクラス確率を出力できる分類器
type ProbabilityEstimator interface {
	Estimator
	// PredictProba は n×クラス数 の確率行列を返す。列の順序は Classes() と同じ
	PredictProba(X mat.Matrix) (mat.Matrix, error)
	// Classes は学習時に見たクラスラベルを昇順で返す
	Classes() []float64
}

// NewEstimatorLearner は Estimator のファクトリを Learner[float64] に変換する。
// Learn のたびに新しいインスタンスを生成するため、並行するフォールドや候補間で状態を共有しない。
func NewEstimatorLearner(factory func() Estimator) Learner[float64] {
	return LearnerFunc[float64](func(X mat.Matrix, y []float64) (Model[float64], error) {
		est := factory()
		if err := est.Fit(X, ColumnVector(y)); err != nil {
			return nil, err
		}
		return ModelFunc[float64](func(X mat.Matrix) ([]float64, error) {
			pred, err := est.Predict(X)
			if err != nil {
				return nil, err
			}
			return Column(pred, 0), nil
		}), nil
	})
}

// NewProbabilityEstimatorLearner は ProbabilityEstimator のファクトリを
// Learner[ProbabilityPrediction] に変換する。
func NewProbabilityEstimatorLearner(factory func() ProbabilityEstimator) Learner[ProbabilityPrediction] {
	return LearnerFunc[ProbabilityPrediction](func(X mat.Matrix, y []float64) (Model[ProbabilityPrediction], error) {
		est := factory()
		if err := est.Fit(X, ColumnVector(y)); err != nil {
			return nil, err
		}
		classes := est.Classes()
		return ModelFunc[ProbabilityPrediction](func(X mat.Matrix) ([]ProbabilityPrediction, error) {
			proba, err := est.PredictProba(X)
			if err != nil {
				return nil, err
			}
			return ProbabilitiesFromMatrix(proba, classes), nil
		}), nil
	})
}
