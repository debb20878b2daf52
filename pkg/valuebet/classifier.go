package valuebet

import (
	"fmt"
	"sort"

	"github.com/cypherlabdev/value-bet-service/internal/models"
)

// Thresholds of the classification table. They are contractual.
const (
	// MinModelProb is the admission filter applied before any tier rule
	MinModelProb = 0.15
	// ImpliedSplit separates STRONG territory (>=) from RISKY territory (<)
	ImpliedSplit = 0.35
	// StrongValuePct is the minimum value percent for STRONG
	StrongValuePct = 5.0
	// RiskyValuePct is the minimum value percent for RISKY
	RiskyValuePct = 15.0
)

// Assessment is the classifier's verdict on one priced market
type Assessment struct {
	ImpliedProb            float64
	ValueRatio             float64
	ValuePct               float64
	Classification         models.Classification
	RecommendationStrength float64
}

// Assess compares a model probability to a decimal odd and classifies the
// result for the given market family
func Assess(family models.MarketFamily, offeredOdd, modelProb float64) (Assessment, error) {
	if !models.ValidOdd(offeredOdd) {
		return Assessment{}, fmt.Errorf("%w: %v below %v", models.ErrInvalidOdd, offeredOdd, models.MinOdd)
	}
	if modelProb < 0 || modelProb > 1 {
		return Assessment{}, models.InvalidInputf("model probability %v outside [0, 1]", modelProb)
	}

	implied := 1 / offeredOdd
	ratio := modelProb / implied
	a := Assessment{
		ImpliedProb:            implied,
		ValueRatio:             ratio,
		ValuePct:               (ratio - 1) * 100,
		RecommendationStrength: ratio * modelProb,
	}

	switch family {
	case models.FamilyResult:
		a.Classification = classifyResult(a.ValuePct, implied, modelProb)
	case models.FamilyTotals:
		a.Classification = classifyTotals(a.ValuePct, implied, modelProb)
	default:
		return Assessment{}, models.InvalidInputf("unknown market family %q", family)
	}

	return a, nil
}

// classifyResult applies the 1X2 rule: value first, then implied probability
func classifyResult(valuePct, implied, modelProb float64) models.Classification {
	if modelProb < MinModelProb {
		return models.ClassNone
	}
	if valuePct >= StrongValuePct && implied >= ImpliedSplit {
		return models.ClassStrong
	}
	if valuePct >= RiskyValuePct && implied < ImpliedSplit {
		return models.ClassRisky
	}
	return models.ClassNone
}

// classifyTotals applies the over/under 2.5 rule: implied probability first, then value
func classifyTotals(valuePct, implied, modelProb float64) models.Classification {
	if modelProb < MinModelProb {
		return models.ClassNone
	}
	if implied >= ImpliedSplit && valuePct >= StrongValuePct {
		return models.ClassStrong
	}
	if implied < ImpliedSplit && valuePct >= RiskyValuePct {
		return models.ClassRisky
	}
	return models.ClassNone
}

// Less orders candidates by tier (STRONG first) then by descending
// recommendation strength
func Less(a, b *models.BetCandidate) bool {
	if a.Classification.Rank() != b.Classification.Rank() {
		return a.Classification.Rank() < b.Classification.Rank()
	}
	return a.RecommendationStrength > b.RecommendationStrength
}

// Rank sorts candidates in place by classifier ranking. Ties keep a stable
// fixture/market order so output does not depend on fetch order.
func Rank(candidates []models.BetCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := &candidates[i], &candidates[j]
		if Less(a, b) {
			return true
		}
		if Less(b, a) {
			return false
		}
		return tieBreak(a, b)
	})
}

func tieBreak(a, b *models.BetCandidate) bool {
	if a.Fixture.ID != b.Fixture.ID {
		return a.Fixture.ID < b.Fixture.ID
	}
	return marketIndex(a.Market) < marketIndex(b.Market)
}

func marketIndex(market string) int {
	for i, m := range models.MarketOrder {
		if m == market {
			return i
		}
	}
	return len(models.MarketOrder)
}
