// Package model defines the capability interfaces that connect learners,
// models and metrics to the resampling and optimization code.
//
// All three are generic over the prediction type P. The pipeline uses two
// flavours: float64 for regression and class point estimates, and
// ProbabilityPrediction for classifiers that report class probabilities.
// A Learner/Metric pair must agree on P.
package model

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Prediction is the set of prediction types the pipeline handles.
type Prediction interface {
	float64 | ProbabilityPrediction
}

// Learner fits a model. Each call to Learn must return an independent
// Model; learners are used concurrently by cross-validation folds and
// optimizer candidates.
type Learner[P Prediction] interface {
	Learn(X mat.Matrix, y []float64) (Model[P], error)
}

// Model predicts one value per observation row. Predict must not change
// the model.
type Model[P Prediction] interface {
	Predict(X mat.Matrix) ([]P, error)
}

// Metric scores predictions against targets. Lower is better.
type Metric[P Prediction] interface {
	Error(targets []float64, predictions []P) (float64, error)
}

// LearnerFunc adapts a function to Learner.
type LearnerFunc[P Prediction] func(X mat.Matrix, y []float64) (Model[P], error)

// Learn implements Learner.
func (f LearnerFunc[P]) Learn(X mat.Matrix, y []float64) (Model[P], error) { return f(X, y) }

// ModelFunc adapts a function to Model.
type ModelFunc[P Prediction] func(X mat.Matrix) ([]P, error)

// Predict implements Model.
func (f ModelFunc[P]) Predict(X mat.Matrix) ([]P, error) { return f(X) }

// MetricFunc adapts a function to Metric.
type MetricFunc[P Prediction] func(targets []float64, predictions []P) (float64, error)

// Error implements Metric.
func (f MetricFunc[P]) Error(targets []float64, predictions []P) (float64, error) {
	return f(targets, predictions)
}

// ProbabilityPrediction is a class-probability prediction: the argmax label
// and the probability of each class label.
type ProbabilityPrediction struct {
	Prediction    float64
	Probabilities map[float64]float64
}

// NewProbabilityPrediction picks the most probable label. Ties go to the
// smallest label.
func NewProbabilityPrediction(probabilities map[float64]float64) ProbabilityPrediction {
	labels := make([]float64, 0, len(probabilities))
	for label := range probabilities {
		labels = append(labels, label)
	}
	sort.Float64s(labels)

	best := 0.0
	bestP := -1.0
	for _, label := range labels {
		if p := probabilities[label]; p > bestP {
			best, bestP = label, p
		}
	}
	return ProbabilityPrediction{Prediction: best, Probabilities: probabilities}
}

// ProbabilitiesFromMatrix converts an n×len(classes) probability matrix.
func ProbabilitiesFromMatrix(proba mat.Matrix, classes []float64) []ProbabilityPrediction {
	r, _ := proba.Dims()
	out := make([]ProbabilityPrediction, r)
	for i := 0; i < r; i++ {
		probs := make(map[float64]float64, len(classes))
		for j, c := range classes {
			probs[c] = proba.At(i, j)
		}
		out[i] = NewProbabilityPrediction(probs)
	}
	return out
}

// PointPredictions extracts the argmax labels.
func PointPredictions(predictions []ProbabilityPrediction) []float64 {
	out := make([]float64, len(predictions))
	for i, p := range predictions {
		out[i] = p.Prediction
	}
	return out
}
