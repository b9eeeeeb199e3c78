// Package linear_model provides linear classifiers.
package linear_model

import (
	"math"
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/core/model"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// LogisticRegression is an L2-regularized logistic regression trained by
// gradient descent. More than two classes are handled one-vs-rest.
// Compatible with scikit-learn's LogisticRegression.
type LogisticRegression struct {
	model.BaseEstimator

	// Hyperparameters
	C            float64 // Inverse regularization strength
	fitIntercept bool
	maxIter      int
	tol          float64

	// Model parameters
	coef_      [][]float64 // one row per binary problem
	intercept_ []float64
	classes_   []float64
	nFeatures_ int
	nIter_     []int
}

// LogisticRegressionOption configures a LogisticRegression.
type LogisticRegressionOption func(*LogisticRegression)

// NewLogisticRegression creates a classifier with C=1, an intercept and at
// most 200 iterations per binary problem.
func NewLogisticRegression(opts ...LogisticRegressionOption) *LogisticRegression {
	lr := &LogisticRegression{
		C:            1.0,
		fitIntercept: true,
		maxIter:      200,
		tol:          1e-4,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// WithLRC sets the inverse regularization strength
func WithLRC(c float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) { lr.C = c }
}

// WithLogisticFitIntercept sets whether to fit intercept
func WithLogisticFitIntercept(fit bool) LogisticRegressionOption {
	return func(lr *LogisticRegression) { lr.fitIntercept = fit }
}

// WithLRMaxIter sets the maximum number of iterations
func WithLRMaxIter(maxIter int) LogisticRegressionOption {
	return func(lr *LogisticRegression) { lr.maxIter = maxIter }
}

// WithLRTol stops training once the largest gradient component is below tol.
func WithLRTol(tol float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) { lr.tol = tol }
}

func (lr *LogisticRegression) validate() error {
	switch {
	case !(lr.C > 0) || math.IsInf(lr.C, 0):
		return errors.NewValidationError("C", "must be positive and finite", lr.C)
	case lr.maxIter < 1:
		return errors.NewValidationError("max_iter", "must be at least 1", lr.maxIter)
	case lr.tol < 0:
		return errors.NewValidationError("tol", "must be non-negative", lr.tol)
	}
	return nil
}

// Fit trains the model on the n×1 label column y.
func (lr *LogisticRegression) Fit(X, y mat.Matrix) error {
	if err := lr.validate(); err != nil {
		return err
	}
	if X == nil || y == nil {
		return errors.NewModelError("LogisticRegression.Fit", "empty input", errors.ErrEmptyData)
	}
	if _, c := y.Dims(); c != 1 {
		return errors.NewDimensionError("LogisticRegression.Fit", 1, c, 1)
	}
	targets := model.Column(y, 0)
	if err := model.CheckObservations("LogisticRegression.Fit", X, targets); err != nil {
		return err
	}

	classes := lo.Uniq(targets)
	slices.Sort(classes)
	if len(classes) < 2 {
		return errors.NewValueError("LogisticRegression.Fit", "needs samples of at least two classes")
	}
	lr.classes_ = classes
	_, lr.nFeatures_ = X.Dims()

	// Binary problems fit the larger label against the smaller one.
	positives := classes[1:]
	if len(classes) > 2 {
		positives = classes
	}
	lr.coef_ = make([][]float64, len(positives))
	lr.intercept_ = make([]float64, len(positives))
	lr.nIter_ = make([]int, len(positives))
	for k, class := range positives {
		binary := lo.Map(targets, func(v float64, _ int) float64 {
			if v == class {
				return 1
			}
			return 0
		})
		lr.coef_[k], lr.intercept_[k], lr.nIter_[k] = lr.fitBinary(X, binary)
		if lr.nIter_[k] == lr.maxIter {
			errors.Warn(errors.NewConvergenceWarning("LogisticRegression", lr.maxIter,
				"gradient descent did not reach the tolerance"))
		}
	}
	lr.SetFitted()
	return nil
}

// fitBinary runs gradient descent on the averaged log loss plus
// ||w||²/(2·C·n). The step is the inverse of a Lipschitz bound of the
// gradient.
func (lr *LogisticRegression) fitBinary(X mat.Matrix, y []float64) ([]float64, float64, int) {
	n, p := X.Dims()
	lambda := 1 / (lr.C * float64(n))
	var meanSquaredNorm float64
	for i := 0; i < n; i++ {
		row := mat.Row(nil, i, X)
		meanSquaredNorm += floats.Dot(row, row)
	}
	meanSquaredNorm = meanSquaredNorm/float64(n) + 1
	step := 1 / (0.25*meanSquaredNorm + lambda)
	w := mat.NewVecDense(p, nil)
	var b float64
	z := mat.NewVecDense(n, nil)
	grad := mat.NewVecDense(p, nil)
	residual := make([]float64, n)

	iter := 0
	for iter < lr.maxIter {
		iter++
		z.MulVec(X, w)
		for i := 0; i < n; i++ {
			residual[i] = sigmoid(z.AtVec(i)+b) - y[i]
		}
		grad.MulVec(X.T(), mat.NewVecDense(n, residual))
		grad.ScaleVec(1/float64(n), grad)
		grad.AddScaledVec(grad, lambda, w)
		gradIntercept := floats.Sum(residual) / float64(n)

		w.AddScaledVec(w, -step, grad)
		if lr.fitIntercept {
			b -= step * gradIntercept
		}

		maxGrad := math.Abs(gradIntercept)
		if !lr.fitIntercept {
			maxGrad = 0
		}
		for j := 0; j < p; j++ {
			maxGrad = math.Max(maxGrad, math.Abs(grad.AtVec(j)))
		}
		if maxGrad < lr.tol {
			break
		}
	}
	return mat.Col(nil, 0, w), b, iter
}

// decision returns the linear score of every binary problem per row.
func (lr *LogisticRegression) decision(op string, X mat.Matrix) (*mat.Dense, error) {
	if err := lr.CheckFitted("LogisticRegression", op); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	if c != lr.nFeatures_ {
		return nil, errors.NewDimensionError("LogisticRegression."+op, lr.nFeatures_, c, 1)
	}
	coef := mat.NewDense(len(lr.coef_), lr.nFeatures_, nil)
	for k, w := range lr.coef_ {
		coef.SetRow(k, w)
	}
	scores := mat.NewDense(r, len(lr.coef_), nil)
	scores.Mul(X, coef.T())
	scores.Apply(func(_, k int, v float64) float64 { return v + lr.intercept_[k] }, scores)
	return scores, nil
}

// PredictProba returns class probabilities with columns ordered as Classes().
// One-vs-rest scores are normalized with a softmax.
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	scores, err := lr.decision("PredictProba", X)
	if err != nil {
		return nil, err
	}
	r, _ := scores.Dims()
	proba := mat.NewDense(r, len(lr.classes_), nil)
	for i := 0; i < r; i++ {
		if len(lr.classes_) == 2 {
			p1 := sigmoid(scores.At(i, 0))
			proba.Set(i, 0, 1-p1)
			proba.Set(i, 1, p1)
			continue
		}
		row := mat.Row(nil, i, scores)
		maxScore := floats.Max(row)
		for k := range row {
			row[k] = math.Exp(row[k] - maxScore)
		}
		floats.Scale(1/floats.Sum(row), row)
		proba.SetRow(i, row)
	}
	return proba, nil
}

// Predict returns the most probable class per row.
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := lr.PredictProba(X)
	if err != nil {
		return nil, err
	}
	r, _ := proba.Dims()
	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		out.Set(i, 0, lr.classes_[floats.MaxIdx(mat.Row(nil, i, proba))])
	}
	return out, nil
}

// Classes returns the training labels in ascending order.
func (lr *LogisticRegression) Classes() []float64 { return slices.Clone(lr.classes_) }

// Coefficients returns one weight row per binary problem.
func (lr *LogisticRegression) Coefficients() [][]float64 {
	return lo.Map(lr.coef_, func(w []float64, _ int) []float64 { return slices.Clone(w) })
}

// NIter returns the iterations used per binary problem.
func (lr *LogisticRegression) NIter() []int { return slices.Clone(lr.nIter_) }

// GetParams returns the model hyperparameters
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"C":             lr.C,
		"fit_intercept": lr.fitIntercept,
		"max_iter":      lr.maxIter,
		"tol":           lr.tol,
	}
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
