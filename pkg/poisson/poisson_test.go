package poisson

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPMF_KnownValues tests the pmf against hand-computed values
func TestPMF_KnownValues(t *testing.T) {
	assert.InDelta(t, math.Exp(-1.5), PMF(0, 1.5), 1e-15)
	assert.InDelta(t, 1.5*math.Exp(-1.5), PMF(1, 1.5), 1e-15)
	assert.InDelta(t, 1.125*math.Exp(-1.5), PMF(2, 1.5), 1e-15)

	assert.Equal(t, 0.0, PMF(-1, 1.5))
	assert.Equal(t, 1.0, PMF(0, 0))
	assert.Equal(t, 0.0, PMF(3, 0))
}

// TestPMF_LogSpaceContinuity tests that the log-space branch agrees with direct evaluation
func TestPMF_LogSpaceContinuity(t *testing.T) {
	lambda := 6.0
	direct := math.Exp(-lambda)
	for i := 1; i <= 20; i++ {
		direct *= lambda / float64(i)
	}
	assert.InEpsilon(t, direct, PMF(20, lambda), 1e-10)
	assert.Greater(t, PMF(30, lambda), 0.0)
}

// TestMarginal_SumsToOne tests sum(pmf) + tail == 1 for a range of lambdas
func TestMarginal_SumsToOne(t *testing.T) {
	for _, lambda := range []float64{0.05, 0.5, 1.2, 2.59, 4.0, 6.0} {
		for _, k := range []int{1, 6, 10, 25} {
			pmf, tail := Marginal(lambda, k)
			sum := tail
			for _, p := range pmf {
				sum += p
			}
			assert.InDelta(t, 1.0, sum, 1e-9, "lambda=%v k=%d", lambda, k)
			assert.GreaterOrEqual(t, tail, 0.0)
		}
	}
}

// TestOverProbability_Lines tests that over/under complement exactly
func TestOverProbability_Lines(t *testing.T) {
	for _, line := range []float64{1.5, 2.5, 3.5} {
		over := OverProbability(line, 2.4)
		under := 1 - over
		assert.InDelta(t, 1.0, over+under, 1e-9)
	}
	assert.InDelta(t, 1-math.Exp(-2.4)*(1+2.4), OverProbability(1.5, 2.4), 1e-12)
}
