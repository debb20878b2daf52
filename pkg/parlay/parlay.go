package parlay

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cypherlabdev/value-bet-service/internal/models"
)

// RiskBand grades an accumulator by its combined implied probability
type RiskBand string

const (
	RiskLow      RiskBand = "LOW RISK"
	RiskMedium   RiskBand = "MEDIUM RISK"
	RiskHigh     RiskBand = "HIGH RISK"
	RiskVeryHigh RiskBand = "VERY HIGH RISK"
)

// Advisory is the short recommendation shown with a computed parlay
type Advisory string

const (
	AdvisoryInteresting  Advisory = "interesting"
	AdvisorySmallerStake Advisory = "consider smaller stake"
	AdvisoryVeryRisky    Advisory = "very risky"
)

var (
	one = decimal.NewFromInt(1)
	two = decimal.NewFromInt(2)

	lowRiskFloor    = decimal.RequireFromString("0.30")
	mediumRiskFloor = decimal.RequireFromString("0.15")
	highRiskFloor   = decimal.RequireFromString("0.05")

	interestingFloor = decimal.RequireFromString("0.20")
	cautionFloor     = decimal.RequireFromString("0.10")
)

// Result is a priced accumulator
type Result struct {
	Selections          []models.BetCandidate `json:"selections"`
	Stake               decimal.Decimal       `json:"stake"`
	CombinedOdd         decimal.Decimal       `json:"combined_odd"`
	CombinedImpliedProb decimal.Decimal       `json:"combined_implied_prob"`
	GrossReturn         decimal.Decimal       `json:"gross_return"`
	NetProfit           decimal.Decimal       `json:"net_profit"`
	RiskBand            RiskBand              `json:"risk_band"`
	Advisory            Advisory              `json:"advisory"`
}

// Compute prices a selection of one or more bets at the given stake.
// Odds are multiplied in decimal so the combined odd is the exact product
// of the quoted two-decimal prices.
func Compute(selection []models.BetCandidate, stake decimal.Decimal) (*Result, error) {
	if len(selection) == 0 {
		return nil, models.InvalidInputf("parlay needs at least one selection")
	}
	if !stake.IsPositive() {
		return nil, models.InvalidInputf("stake must be positive, got %s", stake.String())
	}

	combined := one
	for _, c := range selection {
		if !models.ValidOdd(c.OfferedOdd) {
			return nil, fmt.Errorf("%w: fixture %s market %s odd %v", models.ErrInvalidOdd, c.Fixture.ID, c.Market, c.OfferedOdd)
		}
		combined = combined.Mul(decimal.NewFromFloat(c.OfferedOdd))
	}

	implied := one.Div(combined)
	gross := stake.Mul(combined)

	return &Result{
		Selections:          append([]models.BetCandidate(nil), selection...),
		Stake:               stake,
		CombinedOdd:         combined,
		CombinedImpliedProb: implied,
		GrossReturn:         gross,
		NetProfit:           gross.Sub(stake),
		RiskBand:            BandFor(implied),
		Advisory:            AdviseFor(implied, combined),
	}, nil
}

// BandFor maps a combined implied probability to its risk band
func BandFor(implied decimal.Decimal) RiskBand {
	switch {
	case implied.GreaterThanOrEqual(lowRiskFloor):
		return RiskLow
	case implied.GreaterThanOrEqual(mediumRiskFloor):
		return RiskMedium
	case implied.GreaterThanOrEqual(highRiskFloor):
		return RiskHigh
	default:
		return RiskVeryHigh
	}
}

// AdviseFor picks the advisory text for a combined implied probability and odd
func AdviseFor(implied, combinedOdd decimal.Decimal) Advisory {
	switch {
	case implied.GreaterThanOrEqual(interestingFloor) && combinedOdd.GreaterThanOrEqual(two):
		return AdvisoryInteresting
	case implied.GreaterThanOrEqual(cautionFloor) && implied.LessThan(interestingFloor):
		return AdvisorySmallerStake
	default:
		return AdvisoryVeryRisky
	}
}
