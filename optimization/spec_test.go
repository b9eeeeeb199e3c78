package optimization

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/modelselect/core/random"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

func TestMinMaxParameterSpec_Validate(t *testing.T) {
	tests := []struct {
		name string
		spec MinMaxParameterSpec
		ok   bool
	}{
		{"linear", NewMinMaxParameterSpec(0, 1, Linear, Continuous), true},
		{"log", NewMinMaxParameterSpec(1e-3, 10, Logarithmic, Continuous), true},
		{"discrete", NewMinMaxParameterSpec(1, 20, Linear, Discrete), true},
		{"empty range", NewMinMaxParameterSpec(1, 1, Linear, Continuous), false},
		{"inverted", NewMinMaxParameterSpec(2, 1, Linear, Continuous), false},
		{"log with zero min", NewMinMaxParameterSpec(0, 1, Logarithmic, Continuous), false},
		{"infinite", NewMinMaxParameterSpec(0, math.Inf(1), Linear, Continuous), false},
		{"nan", NewMinMaxParameterSpec(math.NaN(), 1, Linear, Continuous), false},
		{"unknown transform", NewMinMaxParameterSpec(0, 1, Transform(7), Continuous), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.IsConfigurationError(err), "got %v", err)
			}
		})
	}
}

func TestMinMaxParameterSpec_UnitRoundTrip(t *testing.T) {
	lin := NewMinMaxParameterSpec(-2, 6, Linear, Continuous)
	assert.InDelta(t, 0.25, lin.ToUnit(0), 1e-12)
	assert.InDelta(t, 0, lin.FromUnit(lin.ToUnit(0)), 1e-12)

	lg := NewMinMaxParameterSpec(1, 100, Logarithmic, Continuous)
	assert.InDelta(t, 0.5, lg.ToUnit(10), 1e-12)
	assert.InDelta(t, 10, lg.FromUnit(0.5), 1e-9)

	// Out-of-range unit values are clamped.
	assert.Equal(t, 100.0, lg.FromUnit(1.5))
	assert.Equal(t, -2.0, lin.FromUnit(-0.1))
}

func TestMinMaxParameterSpec_Round(t *testing.T) {
	assert.Equal(t, 3.0, NewMinMaxParameterSpec(0, 10, Linear, Discrete).Round(2.6))
	assert.Equal(t, 2.6, NewMinMaxParameterSpec(0, 10, Linear, Continuous).Round(2.6))
}

func TestMinMaxParameterSpec_LogSampling(t *testing.T) {
	spec := NewMinMaxParameterSpec(1, 1000, Logarithmic, Continuous)
	rng := random.NewGenerator(3)
	const n = 4000
	below := 0
	for i := 0; i < n; i++ {
		v := spec.Sample(rng)
		require.GreaterOrEqual(t, v, 1.0)
		require.LessOrEqual(t, v, 1000.0)
		if v < math.Sqrt(1000) {
			below++
		}
	}
	// The geometric midpoint splits log-uniform draws in half.
	assert.InDelta(t, 0.5, float64(below)/n, 0.05)
}

func TestValidateSpecs(t *testing.T) {
	assert.True(t, errors.IsConfigurationError(validateSpecs(nil)))
	err := validateSpecs([]MinMaxParameterSpec{
		NewMinMaxParameterSpec(0, 1, Linear, Continuous),
		NewMinMaxParameterSpec(1, 0, Linear, Continuous),
	})
	assert.True(t, errors.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "parameter 1")
}
