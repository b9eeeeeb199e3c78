package metrics

import (
	"math"

	"github.com/samber/lo"

	"github.com/YuminosukeSato/modelselect/core/model"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// logLossEpsilon は対数損失で確率をクリップする下限
const logLossEpsilon = 1e-15

// Accuracy は正解率を計算する
func Accuracy(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("Accuracy", yTrue, len(yPred)); err != nil {
		return 0, err
	}
	correct := lo.CountBy(lo.Range(len(yTrue)), func(i int) bool { return yTrue[i] == yPred[i] })
	return float64(correct) / float64(len(yTrue)), nil
}

// TotalError は誤分類率（1 - 正解率）を計算する
func TotalError(yTrue, yPred []float64) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// LogLoss は確率予測に対する多クラス対数損失を計算する。
// 各行の確率は合計1に正規化され、[ε, 1-ε] にクリップされる。
// 正解クラスが予測に含まれない行は確率0として扱い、UndefinedMetricWarning を出す。
func LogLoss(yTrue []float64, predictions []model.ProbabilityPrediction) (float64, error) {
	if err := checkPair("LogLoss", yTrue, len(predictions)); err != nil {
		return 0, err
	}
	var sum float64
	missing := 0
	for i, target := range yTrue {
		probs := predictions[i].Probabilities
		total := lo.Sum(lo.Values(probs))
		p, ok := probs[target]
		if !ok {
			missing++
		}
		if total > 0 {
			p /= total
		}
		p = errors.ClipValue(p, logLossEpsilon, 1-logLossEpsilon)
		sum -= math.Log(p)
	}
	if missing > 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("LogLoss", "target class missing from predicted probabilities", logLossEpsilon))
	}
	return sum / float64(len(yTrue)), nil
}

// TotalErrorClassificationMetric は誤分類率を Metric として提供する
type TotalErrorClassificationMetric struct{}

// Error implements model.Metric.
func (TotalErrorClassificationMetric) Error(targets, predictions []float64) (float64, error) {
	return TotalError(targets, predictions)
}

// LogLossClassificationProbabilityMetric は対数損失を確率予測用の Metric として提供する
type LogLossClassificationProbabilityMetric struct{}

// Error implements model.Metric.
func (LogLossClassificationProbabilityMetric) Error(targets []float64, predictions []model.ProbabilityPrediction) (float64, error) {
	return LogLoss(targets, predictions)
}

// OnPointPredictions は点予測用の Metric を確率予測に適用する（argmax ラベルで評価）
func OnPointPredictions(metric model.Metric[float64]) model.Metric[model.ProbabilityPrediction] {
	return model.MetricFunc[model.ProbabilityPrediction](func(targets []float64, predictions []model.ProbabilityPrediction) (float64, error) {
		return metric.Error(targets, model.PointPredictions(predictions))
	})
}
