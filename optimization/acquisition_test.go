package optimization

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpectedImprovement(t *testing.T) {
	ei := ExpectedImprovement{}
	assert.InDelta(t, 1/math.Sqrt(2*math.Pi), ei.Score(1, 1, 1), 1e-12)
	assert.Equal(t, 0.5, ei.Score(1, 0, 1.5))
	assert.Equal(t, 0.0, ei.Score(2, 0, 1))
	// A wider spread is worth more at the same mean.
	assert.Greater(t, ei.Score(2, 2, 1), ei.Score(2, 1, 1))
	assert.Greater(t, ei.Score(0.5, 1, 1), ei.Score(1.5, 1, 1))
}

func TestProbabilityOfImprovement(t *testing.T) {
	pi := ProbabilityOfImprovement{}
	assert.InDelta(t, 0.5, pi.Score(1, 1, 1), 1e-12)
	assert.Equal(t, 1.0, pi.Score(0, 0, 1))
	assert.Equal(t, 0.0, pi.Score(2, 0, 1))
	assert.InDelta(t, 0.8413447, pi.Score(0, 1, 1), 1e-6)
}

func TestUpperConfidenceBound(t *testing.T) {
	assert.Equal(t, 1.0, UpperConfidenceBound{Kappa: 2}.Score(1, 1, 0))
	assert.InDelta(t, 0.96, NewUpperConfidenceBound().Score(1, 1, 0), 1e-12)
	// kappa 0 ranks by predicted error alone
	assert.Equal(t, -1.0, UpperConfidenceBound{}.Score(1, 5, 0))
	assert.Equal(t, -0.5, UpperConfidenceBound{}.Score(0.5, 0, 0))
}

func TestParseAcquisition(t *testing.T) {
	for name, want := range map[string]string{
		"ei":  "expected_improvement",
		"pi":  "probability_of_improvement",
		"ucb": "upper_confidence_bound",
		"":    "expected_improvement",
	} {
		a, ok := ParseAcquisition(name)
		assert.True(t, ok)
		assert.Equal(t, want, a.Name())
	}
	ucb, _ := ParseAcquisition("ucb")
	assert.Equal(t, NewUpperConfidenceBound(), ucb)
	_, ok := ParseAcquisition("thompson")
	assert.False(t, ok)
}
