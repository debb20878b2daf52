package valuebet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cypherlabdev/value-bet-service/internal/models"
)

// TestAssess_StrongHomeWin tests a 1X2 pick with value and a short price
func TestAssess_StrongHomeWin(t *testing.T) {
	a, err := Assess(models.FamilyResult, 1.90, 0.61)

	require.NoError(t, err)
	assert.InDelta(t, 0.526, a.ImpliedProb, 1e-3)
	assert.InDelta(t, 15.9, a.ValuePct, 0.1)
	assert.Equal(t, models.ClassStrong, a.Classification)
	assert.InDelta(t, a.ValueRatio*0.61, a.RecommendationStrength, 1e-12)
}

// TestAssess_OverLowValueIsNone tests an over pick with too little value at a long price
func TestAssess_OverLowValueIsNone(t *testing.T) {
	a, err := Assess(models.FamilyTotals, 4.00, 0.275)

	require.NoError(t, err)
	assert.InDelta(t, 0.25, a.ImpliedProb, 1e-12)
	assert.InDelta(t, 10.0, a.ValuePct, 1e-9)
	assert.Equal(t, models.ClassNone, a.Classification)
}

// TestAssess_OverJustBelowSplitIsRisky tests that implied 0.345 falls on the RISKY side
func TestAssess_OverJustBelowSplitIsRisky(t *testing.T) {
	a, err := Assess(models.FamilyTotals, 2.90, 0.423)

	require.NoError(t, err)
	assert.Less(t, a.ImpliedProb, ImpliedSplit)
	assert.InDelta(t, 22.7, a.ValuePct, 0.1)
	assert.Equal(t, models.ClassRisky, a.Classification)
}

// TestAssess_AdmissionCutoff tests that model_prob below 15% is never surfaced
func TestAssess_AdmissionCutoff(t *testing.T) {
	a, err := Assess(models.FamilyResult, 9.0, 0.12)

	require.NoError(t, err)
	assert.Greater(t, a.ValuePct, 0.0)
	assert.Equal(t, models.ClassNone, a.Classification)
}

// TestAssess_TierBoundaries tests each side of the value and implied thresholds
func TestAssess_TierBoundaries(t *testing.T) {
	tests := []struct {
		name      string
		family    models.MarketFamily
		odd       float64
		modelProb float64
		expected  models.Classification
	}{
		{"strong short price", models.FamilyResult, 2.0, 0.60, models.ClassStrong},
		{"short price thin value", models.FamilyResult, 2.5, 0.41, models.ClassNone},
		{"short price enough value", models.FamilyResult, 2.5, 0.44, models.ClassStrong},
		{"long price big value", models.FamilyResult, 4.0, 0.30, models.ClassRisky},
		{"long price moderate value", models.FamilyResult, 4.0, 0.28, models.ClassNone},
		{"negative value", models.FamilyResult, 1.5, 0.50, models.ClassNone},
		{"totals strong", models.FamilyTotals, 1.8, 0.60, models.ClassStrong},
		{"totals risky", models.FamilyTotals, 3.2, 0.40, models.ClassRisky},
		{"totals under admission", models.FamilyTotals, 12.0, 0.14, models.ClassNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Assess(tt.family, tt.odd, tt.modelProb)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, a.Classification)
		})
	}
}

// TestAssess_InvalidOdd tests that odds below 1.01 are rejected
func TestAssess_InvalidOdd(t *testing.T) {
	_, err := Assess(models.FamilyResult, 1.0, 0.5)
	assert.ErrorIs(t, err, models.ErrInvalidOdd)

	_, err = Assess(models.FamilyResult, 0, 0.5)
	assert.ErrorIs(t, err, models.ErrInvalidOdd)
}

// TestAssess_InvalidInput tests rejection of bad probabilities and families
func TestAssess_InvalidInput(t *testing.T) {
	_, err := Assess(models.FamilyResult, 2.0, 1.5)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = Assess("btts", 2.0, 0.5)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

// TestAssess_SurfacedCandidatesSatisfyRules tests the rule table over a grid of inputs
func TestAssess_SurfacedCandidatesSatisfyRules(t *testing.T) {
	for _, family := range []models.MarketFamily{models.FamilyResult, models.FamilyTotals} {
		for odd := 1.01; odd < 15; odd += 0.07 {
			for prob := 0.0; prob <= 1.0; prob += 0.01 {
				a, err := Assess(family, odd, prob)
				require.NoError(t, err)

				implied := 1 / odd
				vp := (prob/implied - 1) * 100
				strong := prob >= MinModelProb && vp >= StrongValuePct && implied >= ImpliedSplit
				risky := prob >= MinModelProb && vp >= RiskyValuePct && implied < ImpliedSplit
				require.False(t, strong && risky)

				switch a.Classification {
				case models.ClassStrong:
					assert.True(t, strong, "odd=%v prob=%v", odd, prob)
				case models.ClassRisky:
					assert.True(t, risky, "odd=%v prob=%v", odd, prob)
				default:
					assert.False(t, strong || risky, "odd=%v prob=%v", odd, prob)
				}
				if a.Classification != models.ClassNone {
					assert.GreaterOrEqual(t, prob, MinModelProb)
				}
			}
		}
	}
}

// TestRank_StrongBeforeRisky tests tier ordering and strength ordering within a tier
func TestRank_StrongBeforeRisky(t *testing.T) {
	candidates := []models.BetCandidate{
		{Fixture: models.Fixture{ID: "a"}, Market: models.MarketDraw, Classification: models.ClassRisky, RecommendationStrength: 0.9},
		{Fixture: models.Fixture{ID: "b"}, Market: models.MarketHomeWin, Classification: models.ClassStrong, RecommendationStrength: 0.5},
		{Fixture: models.Fixture{ID: "c"}, Market: models.MarketOver25, Classification: models.ClassStrong, RecommendationStrength: 0.7},
		{Fixture: models.Fixture{ID: "d"}, Market: models.MarketAwayWin, Classification: models.ClassRisky, RecommendationStrength: 0.4},
	}

	Rank(candidates)

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.Fixture.ID)
	}
	assert.Equal(t, []string{"c", "b", "a", "d"}, ids)
}

// TestRank_TieBreakIsStable tests that equal candidates order by fixture then market
func TestRank_TieBreakIsStable(t *testing.T) {
	candidates := []models.BetCandidate{
		{Fixture: models.Fixture{ID: "2"}, Market: models.MarketUnder25, Classification: models.ClassStrong, RecommendationStrength: 0.5},
		{Fixture: models.Fixture{ID: "1"}, Market: models.MarketUnder25, Classification: models.ClassStrong, RecommendationStrength: 0.5},
		{Fixture: models.Fixture{ID: "1"}, Market: models.MarketHomeWin, Classification: models.ClassStrong, RecommendationStrength: 0.5},
	}

	Rank(candidates)

	assert.Equal(t, "1", candidates[0].Fixture.ID)
	assert.Equal(t, models.MarketHomeWin, candidates[0].Market)
	assert.Equal(t, models.MarketUnder25, candidates[1].Market)
	assert.Equal(t, "2", candidates[2].Fixture.ID)
}

// TestEvaluate_DerivesAndFiltersCandidates tests candidate derivation from odds and a distribution
func TestEvaluate_DerivesAndFiltersCandidates(t *testing.T) {
	fixture := models.Fixture{ID: "fx-1", HomeTeam: "Home", AwayTeam: "Away", StartTime: time.Now()}
	odds := &models.MarketOdds{
		FixtureID: "fx-1",
		Result:    &models.ThreeWayOdds{Home: 1.90, Draw: 3.50, Away: 4.50},
		Over25:    &models.TotalOdds{Over: 2.90, Under: 1.00},
	}
	dist := &models.OutcomeDistribution{
		HomeWin: 0.61,
		Draw:    0.22,
		AwayWin: 0.17,
		Totals: []models.TotalsProbability{
			{Line: 2.5, Over: 0.423, Under: 0.577},
		},
	}

	candidates, skipped := Evaluate(fixture, odds, dist)

	require.Len(t, skipped, 1)
	assert.ErrorIs(t, skipped[0], models.ErrInvalidOdd)

	require.Len(t, candidates, 2)
	assert.Equal(t, models.MarketHomeWin, candidates[0].Market)
	assert.Equal(t, models.ClassStrong, candidates[0].Classification)
	assert.Equal(t, models.MarketOver25, candidates[1].Market)
	assert.Equal(t, models.ClassRisky, candidates[1].Classification)
	for _, c := range candidates {
		assert.Equal(t, fixture, c.Fixture)
	}
}

// TestEvaluate_NoOdds tests that an unpriced fixture yields nothing
func TestEvaluate_NoOdds(t *testing.T) {
	candidates, skipped := Evaluate(models.Fixture{ID: "x"}, nil, &models.OutcomeDistribution{})
	assert.Empty(t, candidates)
	assert.Empty(t, skipped)
}
