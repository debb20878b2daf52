package poisson

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cypherlabdev/value-bet-service/internal/models"
)

// statsWithAverages builds a 10-match aggregate with the given per-match averages
func statsWithAverages(scored, conceded float64) models.TeamStats {
	return models.TeamStats{
		MatchesCounted:     10,
		GoalsScoredTotal:   int(math.Round(scored * 10)),
		GoalsConcededTotal: int(math.Round(conceded * 10)),
		Wins:               4,
		Draws:              3,
		Losses:             3,
	}
}

func pairOf(home, away models.TeamStats) *models.TeamStatsPair {
	return &models.TeamStatsPair{
		Home: models.SideStats{Stats: home},
		Away: models.SideStats{Stats: away},
		Mode: models.ModePooled,
	}
}

func setupTestEngine(t *testing.T, cfg Config) *Engine {
	engine, err := NewEngine(cfg)
	require.NoError(t, err)
	return engine
}

// TestNewEngine_Defaults tests that unset parameters are defaulted
func TestNewEngine_Defaults(t *testing.T) {
	engine := setupTestEngine(t, Config{})

	cfg := engine.Config()
	assert.Equal(t, 1.2, cfg.LambdaLeague)
	assert.Equal(t, 1.15, cfg.HomeAdvantage)
	assert.Equal(t, 6, cfg.ScoreGridCap)
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, cfg.TotalsLines)
}

// TestNewEngine_InvalidConfig tests rejection of unusable parameters
func TestNewEngine_InvalidConfig(t *testing.T) {
	_, err := NewEngine(Config{LambdaLeague: -1})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = NewEngine(Config{ScoreGridCap: -2})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

// TestExpectedGoals_SingleMatchScenario tests expected goals for the reference fixture
func TestExpectedGoals_SingleMatchScenario(t *testing.T) {
	engine := setupTestEngine(t, DefaultConfig())

	pair := pairOf(statsWithAverages(1.8, 1.0), statsWithAverages(1.0, 1.5))
	lambdaHome, lambdaAway := engine.ExpectedGoals(pair)

	// 1.5 * 1.25 * 1.2 * 1.15
	assert.InDelta(t, 2.5875, lambdaHome, 1e-9)
	// (1.0/1.2) * (1.0/1.2) * 1.2
	assert.InDelta(t, 0.8333, lambdaAway, 1e-4)

	dist := engine.Distribution(pair)
	assert.InDelta(t, 0.746, dist.HomeWin, 1e-3)
	assert.Greater(t, dist.HomeWin, dist.Draw)
	assert.Greater(t, dist.Draw, dist.AwayWin)
}

// TestExpectedGoals_HomeAdvantageOff tests the 1.00 multiplier
func TestExpectedGoals_HomeAdvantageOff(t *testing.T) {
	engine := setupTestEngine(t, Config{HomeAdvantage: NoHomeAdvantage})

	pair := pairOf(statsWithAverages(1.2, 1.2), statsWithAverages(1.2, 1.2))
	lambdaHome, lambdaAway := engine.ExpectedGoals(pair)

	assert.InDelta(t, 1.2, lambdaHome, 1e-12)
	assert.InDelta(t, 1.2, lambdaAway, 1e-12)

	dist := engine.Distribution(pair)
	assert.InDelta(t, dist.HomeWin, dist.AwayWin, 1e-12)
}

// TestExpectedGoals_Clamped tests the [0.05, 6.0] clamp
func TestExpectedGoals_Clamped(t *testing.T) {
	engine := setupTestEngine(t, DefaultConfig())

	// Goal-shy home side against a defence that concedes nothing
	low := pairOf(statsWithAverages(0, 2.0), statsWithAverages(3.0, 0))
	lambdaHome, _ := engine.ExpectedGoals(low)
	assert.Equal(t, MinLambda, lambdaHome)

	high := pairOf(statsWithAverages(6.0, 0.5), statsWithAverages(0.5, 6.0))
	lambdaHome, _ = engine.ExpectedGoals(high)
	assert.Equal(t, MaxLambda, lambdaHome)
}

// TestExpectedGoals_SparseDataIsNeutral tests that zero-match sides use strength 1.0
func TestExpectedGoals_SparseDataIsNeutral(t *testing.T) {
	engine := setupTestEngine(t, Config{HomeAdvantage: NoHomeAdvantage})

	pair := pairOf(models.TeamStats{}, models.TeamStats{})
	lambdaHome, lambdaAway := engine.ExpectedGoals(pair)

	assert.InDelta(t, 1.2, lambdaHome, 1e-12)
	assert.InDelta(t, 1.2, lambdaAway, 1e-12)

	off, def, sparse := Strengths(&pair.Home.Stats, 1.2)
	assert.Equal(t, 1.0, off)
	assert.Equal(t, 1.0, def)
	assert.True(t, sparse)
}

// TestDistribution_ResultProbabilitiesSumToOne tests normalisation across many lambdas
func TestDistribution_ResultProbabilitiesSumToOne(t *testing.T) {
	engine := setupTestEngine(t, DefaultConfig())

	for lh := MinLambda; lh <= MaxLambda; lh += 0.35 {
		for la := MinLambda; la <= MaxLambda; la += 0.35 {
			dist := engine.FromExpectedGoals(lh, la)
			sum := dist.HomeWin + dist.Draw + dist.AwayWin
			assert.InDelta(t, 1.0, sum, 1e-6, "lambda_home=%v lambda_away=%v", lh, la)

			for _, total := range dist.Totals {
				assert.InDelta(t, 1.0, total.Over+total.Under, 1e-9)
				assert.GreaterOrEqual(t, total.Over, 0.0)
				assert.LessOrEqual(t, total.Over, 1.0)
			}
		}
	}
}

// TestDistribution_Totals tests over/under probabilities against closed forms
func TestDistribution_Totals(t *testing.T) {
	engine := setupTestEngine(t, DefaultConfig())

	dist := engine.FromExpectedGoals(1.0, 0.9)
	over25, ok := dist.Total(2.5)
	require.True(t, ok)
	// 1 - e^-1.9 (1 + 1.9 + 1.9^2/2)
	assert.InDelta(t, 0.29628, over25.Over, 1e-5)

	dist = engine.FromExpectedGoals(1.3, 1.1)
	over25, ok = dist.Total(2.5)
	require.True(t, ok)
	assert.InDelta(t, 0.43029, over25.Over, 1e-5)

	over15, ok := dist.Total(1.5)
	require.True(t, ok)
	over35, ok := dist.Total(3.5)
	require.True(t, ok)
	assert.Greater(t, over15.Over, over25.Over)
	assert.Greater(t, over25.Over, over35.Over)

	_, ok = dist.Total(4.5)
	assert.False(t, ok)
}

// TestDistribution_MarginalsAndTail tests per-side grids and tail mass
func TestDistribution_MarginalsAndTail(t *testing.T) {
	engine := setupTestEngine(t, DefaultConfig())

	dist := engine.FromExpectedGoals(2.5875, 0.8333)
	require.Len(t, dist.HomeGoals, 7)
	require.Len(t, dist.AwayGoals, 7)

	sum := dist.HomeTail
	for _, p := range dist.HomeGoals {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	assert.Equal(t, models.Scoreline{Home: 2, Away: 0}, dist.MostLikelyScore)
	assert.InDelta(t, 1.0, dist.BTTSYes+dist.BTTSNo, 1e-12)
}

// TestDistribution_Deterministic tests that repeated calls give identical output
func TestDistribution_Deterministic(t *testing.T) {
	engine := setupTestEngine(t, DefaultConfig())
	pair := pairOf(statsWithAverages(1.4, 0.9), statsWithAverages(1.1, 1.3))

	assert.Equal(t, engine.Distribution(pair), engine.Distribution(pair))
}
