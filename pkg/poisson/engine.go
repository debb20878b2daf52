package poisson

import (
	"math"

	"github.com/cypherlabdev/value-bet-service/internal/models"
)

const (
	DefaultLambdaLeague  = 1.2
	DefaultHomeAdvantage = 1.15
	NoHomeAdvantage      = 1.0
	DefaultScoreGridCap  = 6

	// Expected goals are clamped to keep distributions non-degenerate
	MinLambda = 0.05
	MaxLambda = 6.0
)

// DefaultTotalsLines are the over/under lines derived for every fixture
var DefaultTotalsLines = []float64{1.5, 2.5, 3.5}

// Config holds the engine parameters
type Config struct {
	LambdaLeague  float64 // league baseline goals per team per match
	HomeAdvantage float64 // multiplier on the home side's expected goals
	ScoreGridCap  int     // K: goals 0..K are enumerated per side
	TotalsLines   []float64
}

// DefaultConfig returns the default engine configuration
func DefaultConfig() Config {
	return Config{
		LambdaLeague:  DefaultLambdaLeague,
		HomeAdvantage: DefaultHomeAdvantage,
		ScoreGridCap:  DefaultScoreGridCap,
		TotalsLines:   DefaultTotalsLines,
	}
}

// Engine turns team statistics into outcome probabilities. It is pure and
// safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine, filling unset parameters with defaults
func NewEngine(cfg Config) (*Engine, error) {
	defaults := DefaultConfig()
	if cfg.LambdaLeague == 0 {
		cfg.LambdaLeague = defaults.LambdaLeague
	}
	if cfg.HomeAdvantage == 0 {
		cfg.HomeAdvantage = defaults.HomeAdvantage
	}
	if cfg.ScoreGridCap == 0 {
		cfg.ScoreGridCap = defaults.ScoreGridCap
	}
	if len(cfg.TotalsLines) == 0 {
		cfg.TotalsLines = defaults.TotalsLines
	}

	if cfg.LambdaLeague < 0 || math.IsNaN(cfg.LambdaLeague) {
		return nil, models.InvalidInputf("lambda_league must be positive, got %v", cfg.LambdaLeague)
	}
	if cfg.HomeAdvantage < 0 {
		return nil, models.InvalidInputf("home advantage must be positive, got %v", cfg.HomeAdvantage)
	}
	if cfg.ScoreGridCap < 1 {
		return nil, models.InvalidInputf("score grid cap must be at least 1, got %d", cfg.ScoreGridCap)
	}

	return &Engine{cfg: cfg}, nil
}

// Config returns the engine parameters
func (e *Engine) Config() Config {
	return e.cfg
}

// Strengths returns a team's offensive and defensive strength against the
// league baseline. A team with no counted matches is neutral (1.0, 1.0).
func Strengths(ts *models.TeamStats, lambdaLeague float64) (offense, defense float64, sparse bool) {
	if ts.IsSparse() || lambdaLeague <= 0 {
		return 1.0, 1.0, ts.IsSparse()
	}
	return ts.AvgGoalsScored() / lambdaLeague, ts.AvgGoalsConceded() / lambdaLeague, false
}

// ExpectedGoals computes the clamped expected goals of both sides
func (e *Engine) ExpectedGoals(pair *models.TeamStatsPair) (lambdaHome, lambdaAway float64) {
	offH, defH, _ := Strengths(&pair.Home.Stats, e.cfg.LambdaLeague)
	offA, defA, _ := Strengths(&pair.Away.Stats, e.cfg.LambdaLeague)

	lambdaHome = clamp(offH*defA*e.cfg.LambdaLeague*e.cfg.HomeAdvantage, MinLambda, MaxLambda)
	lambdaAway = clamp(offA*defH*e.cfg.LambdaLeague, MinLambda, MaxLambda)
	return lambdaHome, lambdaAway
}

// Distribution computes the full outcome distribution of a fixture
func (e *Engine) Distribution(pair *models.TeamStatsPair) *models.OutcomeDistribution {
	lambdaHome, lambdaAway := e.ExpectedGoals(pair)
	return e.FromExpectedGoals(lambdaHome, lambdaAway)
}

// FromExpectedGoals builds the distribution for given expected goals using
// an independent Poisson product over a (K+1)x(K+1) score grid
func (e *Engine) FromExpectedGoals(lambdaHome, lambdaAway float64) *models.OutcomeDistribution {
	lambdaHome = clamp(lambdaHome, MinLambda, MaxLambda)
	lambdaAway = clamp(lambdaAway, MinLambda, MaxLambda)
	k := e.cfg.ScoreGridCap

	homePMF, homeTail := Marginal(lambdaHome, k)
	awayPMF, awayTail := Marginal(lambdaAway, k)

	var homeWin, draw, awayWin, best float64
	var likely models.Scoreline
	for i := 0; i <= k; i++ {
		for j := 0; j <= k; j++ {
			p := homePMF[i] * awayPMF[j]
			switch {
			case i > j:
				homeWin += p
			case i == j:
				draw += p
			default:
				awayWin += p
			}
			if p > best {
				best = p
				likely = models.Scoreline{Home: i, Away: j}
			}
		}
	}

	// Normalising divides out the mass lost to grid truncation
	total := homeWin + draw + awayWin
	homeWin /= total
	draw /= total
	awayWin /= total

	totals := make([]models.TotalsProbability, 0, len(e.cfg.TotalsLines))
	for _, line := range e.cfg.TotalsLines {
		over := OverProbability(line, lambdaHome+lambdaAway)
		totals = append(totals, models.TotalsProbability{
			Line:  line,
			Over:  over,
			Under: 1 - over,
		})
	}

	bttsYes := (1 - PMF(0, lambdaHome)) * (1 - PMF(0, lambdaAway))

	return &models.OutcomeDistribution{
		LambdaHome:      lambdaHome,
		LambdaAway:      lambdaAway,
		HomeWin:         homeWin,
		Draw:            draw,
		AwayWin:         awayWin,
		Totals:          totals,
		BTTSYes:         bttsYes,
		BTTSNo:          1 - bttsYes,
		HomeGoals:       homePMF,
		AwayGoals:       awayPMF,
		HomeTail:        homeTail,
		AwayTail:        awayTail,
		MostLikelyScore: likely,
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
