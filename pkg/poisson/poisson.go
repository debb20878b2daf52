package poisson

import "math"

// logSpaceThreshold is the goal count from which the pmf is evaluated in log space
const logSpaceThreshold = 20

// PMF returns P(X = k) for X ~ Poisson(lambda)
func PMF(k int, lambda float64) float64 {
	if k < 0 || lambda < 0 {
		return 0
	}
	if lambda == 0 {
		if k == 0 {
			return 1
		}
		return 0
	}
	if k >= logSpaceThreshold {
		lg, _ := math.Lgamma(float64(k + 1))
		return math.Exp(float64(k)*math.Log(lambda) - lambda - lg)
	}

	p := math.Exp(-lambda)
	for i := 1; i <= k; i++ {
		p *= lambda / float64(i)
	}
	return p
}

// CDF returns P(X <= k)
func CDF(k int, lambda float64) float64 {
	if k < 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i <= k; i++ {
		sum += PMF(i, lambda)
	}
	if sum > 1 {
		return 1
	}
	return sum
}

// Marginal returns P(X = k) for k in [0, maxGoals] and the tail mass
// P(X > maxGoals), so that sum(pmf) + tail == 1
func Marginal(lambda float64, maxGoals int) ([]float64, float64) {
	pmf := make([]float64, maxGoals+1)
	sum := 0.0
	for k := 0; k <= maxGoals; k++ {
		pmf[k] = PMF(k, lambda)
		sum += pmf[k]
	}
	tail := 1 - sum
	if tail < 0 {
		tail = 0
	}
	return pmf, tail
}

// OverProbability returns P(total > line) for a half-goal line such as 2.5
func OverProbability(line, lambdaTotal float64) float64 {
	p := 1 - CDF(int(math.Floor(line)), lambdaTotal)
	if p < 0 {
		return 0
	}
	return p
}
