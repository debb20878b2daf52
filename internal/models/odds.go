package models

// MinOdd is the smallest decimal odd accepted from a bookmaker
const MinOdd = 1.01

// ThreeWayOdds holds decimal odds of the 1X2 market
type ThreeWayOdds struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// TotalOdds holds decimal odds of an over/under goals line
type TotalOdds struct {
	Over  float64 `json:"over"`
	Under float64 `json:"under"`
}

// BTTSOdds holds decimal odds of the both-teams-to-score market
type BTTSOdds struct {
	Yes float64 `json:"yes"`
	No  float64 `json:"no"`
}

// MarketOdds are the priced markets of one fixture. Markets the bookmaker
// did not price are nil.
type MarketOdds struct {
	FixtureID string        `json:"fixture_id"`
	Result    *ThreeWayOdds `json:"result,omitempty"`
	Over15    *TotalOdds    `json:"over_under_1_5,omitempty"`
	Over25    *TotalOdds    `json:"over_under_2_5,omitempty"`
	Over35    *TotalOdds    `json:"over_under_3_5,omitempty"`
	BTTS      *BTTSOdds     `json:"btts,omitempty"`
}

// HasRequiredMarkets reports whether both classifier markets are present
func (m *MarketOdds) HasRequiredMarkets() bool {
	return m != nil && m.Result != nil && m.Over25 != nil
}

// IsPriced reports whether the bookmaker priced at least one market
func (m *MarketOdds) IsPriced() bool {
	return m != nil && (m.Result != nil || m.Over15 != nil || m.Over25 != nil || m.Over35 != nil || m.BTTS != nil)
}

// ValidOdd reports whether an odd is usable (>= MinOdd)
func ValidOdd(odd float64) bool {
	return odd >= MinOdd
}

// MatchPreview is a fixture together with its priced markets, as returned
// by a single preview request
type MatchPreview struct {
	Fixture Fixture     `json:"fixture"`
	Odds    *MarketOdds `json:"odds,omitempty"`
}
