package optimization

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/modelselect/core/random"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// Transform selects the space a dimension is sampled and modeled in.
type Transform int

const (
	// Linear samples uniformly in [Min, Max].
	Linear Transform = iota
	// Logarithmic samples uniformly in [log Min, log Max]. Min must be positive.
	Logarithmic
)

func (t Transform) String() string {
	switch t {
	case Linear:
		return "linear"
	case Logarithmic:
		return "log"
	default:
		return fmt.Sprintf("Transform(%d)", int(t))
	}
}

// ParameterType tells whether the objective receives integers.
type ParameterType int

const (
	Continuous ParameterType = iota
	// Discrete values are rounded to the nearest integer when handed to the
	// objective. The optimizer keeps the unrounded value internally.
	Discrete
)

func (p ParameterType) String() string {
	switch p {
	case Continuous:
		return "continuous"
	case Discrete:
		return "discrete"
	default:
		return fmt.Sprintf("ParameterType(%d)", int(p))
	}
}

// MinMaxParameterSpec bounds one dimension of the search space.
type MinMaxParameterSpec struct {
	Min       float64
	Max       float64
	Transform Transform
	Type      ParameterType
}

// NewMinMaxParameterSpec creates a spec.
func NewMinMaxParameterSpec(min, max float64, transform Transform, parameterType ParameterType) MinMaxParameterSpec {
	return MinMaxParameterSpec{Min: min, Max: max, Transform: transform, Type: parameterType}
}

// Validate reports malformed bounds.
func (s MinMaxParameterSpec) Validate() error {
	switch {
	case math.IsNaN(s.Min) || math.IsNaN(s.Max) || math.IsInf(s.Min, 0) || math.IsInf(s.Max, 0):
		return errors.NewValidationError("bounds", "must be finite", [2]float64{s.Min, s.Max})
	case s.Min >= s.Max:
		return errors.NewValidationError("bounds", "min must be smaller than max", [2]float64{s.Min, s.Max})
	case s.Transform == Logarithmic && s.Min <= 0:
		return errors.NewValidationError("bounds", "log transform requires a positive min", s.Min)
	case s.Transform != Linear && s.Transform != Logarithmic:
		return errors.NewValidationError("transform", "unknown transform", s.Transform)
	case s.Type != Continuous && s.Type != Discrete:
		return errors.NewValidationError("type", "unknown parameter type", s.Type)
	}
	return nil
}

// Sample draws a value according to the transform.
func (s MinMaxParameterSpec) Sample(rng random.Generator) float64 {
	return s.FromUnit(rng.Float64())
}

// ToUnit maps a value to [0, 1] in transformed space.
func (s MinMaxParameterSpec) ToUnit(v float64) float64 {
	if s.Transform == Logarithmic {
		return (math.Log(v) - math.Log(s.Min)) / (math.Log(s.Max) - math.Log(s.Min))
	}
	return (v - s.Min) / (s.Max - s.Min)
}

// FromUnit is the inverse of ToUnit. The result is clamped to [Min, Max].
func (s MinMaxParameterSpec) FromUnit(u float64) float64 {
	var v float64
	if s.Transform == Logarithmic {
		lo, hi := math.Log(s.Min), math.Log(s.Max)
		v = math.Exp(lo + u*(hi-lo))
	} else {
		v = s.Min + u*(s.Max-s.Min)
	}
	return math.Min(math.Max(v, s.Min), s.Max)
}

// Round returns the value the objective sees.
func (s MinMaxParameterSpec) Round(v float64) float64 {
	if s.Type == Discrete {
		return math.Round(v)
	}
	return v
}

func validateSpecs(specs []MinMaxParameterSpec) error {
	if len(specs) == 0 {
		return errors.NewValidationError("parameters", "at least one parameter spec is required", specs)
	}
	for i, s := range specs {
		if err := s.Validate(); err != nil {
			return errors.Wrapf(err, "parameter %d", i)
		}
	}
	return nil
}

// sampleVector draws one candidate.
func sampleVector(specs []MinMaxParameterSpec, rng random.Generator) []float64 {
	out := make([]float64, len(specs))
	for i, s := range specs {
		out[i] = s.Sample(rng)
	}
	return out
}

// roundVector returns the parameters handed to the objective.
func roundVector(specs []MinMaxParameterSpec, v []float64) []float64 {
	out := make([]float64, len(v))
	for i, s := range specs {
		out[i] = s.Round(v[i])
	}
	return out
}

func toUnitVector(specs []MinMaxParameterSpec, v []float64) []float64 {
	out := make([]float64, len(v))
	for i, s := range specs {
		out[i] = s.ToUnit(v[i])
	}
	return out
}

func fromUnitVector(specs []MinMaxParameterSpec, u []float64) []float64 {
	out := make([]float64, len(u))
	for i, s := range specs {
		out[i] = s.FromUnit(u[i])
	}
	return out
}

// vectorKey identifies an evaluated point.
func vectorKey(v []float64) string {
	return fmt.Sprint(v)
}
