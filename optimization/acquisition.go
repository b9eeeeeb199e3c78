package optimization

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// AcquisitionFunction scores a candidate from the surrogate's predicted
// mean and spread. Higher scores are proposed first. Errors are minimized,
// so best is the lowest error observed so far.
type AcquisitionFunction interface {
	Name() string
	Score(mean, std, best float64) float64
}

// ExpectedImprovement is the expected amount by which a candidate beats
// best - Xi under a normal predictive distribution.
type ExpectedImprovement struct {
	Xi float64
}

func (ExpectedImprovement) Name() string { return "expected_improvement" }

func (a ExpectedImprovement) Score(mean, std, best float64) float64 {
	improvement := best - mean - a.Xi
	if std <= 0 {
		return math.Max(improvement, 0)
	}
	z := improvement / std
	return improvement*distuv.UnitNormal.CDF(z) + std*distuv.UnitNormal.Prob(z)
}

// ProbabilityOfImprovement is the probability that a candidate beats best - Xi.
type ProbabilityOfImprovement struct {
	Xi float64
}

func (ProbabilityOfImprovement) Name() string { return "probability_of_improvement" }

func (a ProbabilityOfImprovement) Score(mean, std, best float64) float64 {
	improvement := best - mean - a.Xi
	if std <= 0 {
		if improvement > 0 {
			return 1
		}
		return 0
	}
	return distuv.UnitNormal.CDF(improvement / std)
}

// DefaultKappa is the exploration weight of NewUpperConfidenceBound.
const DefaultKappa = 1.96

// UpperConfidenceBound favors low predicted error and high spread:
// the score is -(mean - Kappa*std). Kappa 0 ranks by predicted error only.
type UpperConfidenceBound struct {
	Kappa float64
}

// NewUpperConfidenceBound uses DefaultKappa.
func NewUpperConfidenceBound() UpperConfidenceBound {
	return UpperConfidenceBound{Kappa: DefaultKappa}
}

func (UpperConfidenceBound) Name() string { return "upper_confidence_bound" }

func (a UpperConfidenceBound) Score(mean, std, _ float64) float64 {
	return -(mean - a.Kappa*std)
}

// ParseAcquisition maps "ei", "pi" or "ucb" to an acquisition function.
func ParseAcquisition(name string) (AcquisitionFunction, bool) {
	switch name {
	case "ei", "expected_improvement", "":
		return ExpectedImprovement{}, true
	case "pi", "probability_of_improvement":
		return ProbabilityOfImprovement{}, true
	case "ucb", "upper_confidence_bound":
		return NewUpperConfidenceBound(), true
	}
	return nil, false
}
