package valuebet

import (
	"fmt"

	"github.com/cypherlabdev/value-bet-service/internal/models"
)

type pricedMarket struct {
	label string
	odd   float64
	prob  float64
}

// Evaluate derives the five supported candidate bets of a fixture, assesses
// each and returns the ones classified STRONG or RISKY. Markets with an
// invalid odd are skipped and reported in skipped.
func Evaluate(fixture models.Fixture, odds *models.MarketOdds, dist *models.OutcomeDistribution) (candidates []models.BetCandidate, skipped []error) {
	if odds == nil || dist == nil {
		return nil, nil
	}

	var markets []pricedMarket
	if odds.Result != nil {
		markets = append(markets,
			pricedMarket{models.MarketHomeWin, odds.Result.Home, dist.HomeWin},
			pricedMarket{models.MarketDraw, odds.Result.Draw, dist.Draw},
			pricedMarket{models.MarketAwayWin, odds.Result.Away, dist.AwayWin},
		)
	}
	if odds.Over25 != nil {
		if totals, ok := dist.Total(2.5); ok {
			markets = append(markets,
				pricedMarket{models.MarketOver25, odds.Over25.Over, totals.Over},
				pricedMarket{models.MarketUnder25, odds.Over25.Under, totals.Under},
			)
		}
	}

	for _, m := range markets {
		family, _ := models.FamilyOf(m.label)
		a, err := Assess(family, m.odd, m.prob)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("fixture %s market %s: %w", fixture.ID, m.label, err))
			continue
		}
		if a.Classification == models.ClassNone {
			continue
		}
		candidates = append(candidates, models.BetCandidate{
			Fixture:                fixture,
			Market:                 m.label,
			OfferedOdd:             m.odd,
			ModelProb:              m.prob,
			ImpliedProb:            a.ImpliedProb,
			ValuePct:               a.ValuePct,
			Classification:         a.Classification,
			RecommendationStrength: a.RecommendationStrength,
		})
	}

	return candidates, skipped
}
