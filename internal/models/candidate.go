package models

// Market labels of the supported candidate bets
const (
	MarketHomeWin = "Home Win"
	MarketDraw    = "Draw"
	MarketAwayWin = "Away Win"
	MarketOver25  = "Over 2.5"
	MarketUnder25 = "Under 2.5"
)

// MarketFamily groups markets sharing a classification rule
type MarketFamily string

const (
	FamilyResult MarketFamily = "1x2"
	FamilyTotals MarketFamily = "over_under_2_5"
)

// FamilyOf returns the family of a market label
func FamilyOf(market string) (MarketFamily, bool) {
	switch market {
	case MarketHomeWin, MarketDraw, MarketAwayWin:
		return FamilyResult, true
	case MarketOver25, MarketUnder25:
		return FamilyTotals, true
	default:
		return "", false
	}
}

// MarketOrder is the display order of the supported markets
var MarketOrder = []string{MarketHomeWin, MarketDraw, MarketAwayWin, MarketOver25, MarketUnder25}

// Classification is the value tier of a candidate bet
type Classification string

const (
	ClassStrong Classification = "STRONG"
	ClassRisky  Classification = "RISKY"
	ClassNone   Classification = "NONE"
)

// Rank returns the sort rank of a classification (STRONG first)
func (c Classification) Rank() int {
	switch c {
	case ClassStrong:
		return 0
	case ClassRisky:
		return 1
	default:
		return 2
	}
}

// Period labels which requested day a fixture belongs to
type Period string

const (
	PeriodNone     Period = ""
	PeriodToday    Period = "today"
	PeriodTomorrow Period = "tomorrow"
)

// Rank returns the sort rank of a period (today first)
func (p Period) Rank() int {
	switch p {
	case PeriodToday:
		return 0
	case PeriodTomorrow:
		return 1
	default:
		return 2
	}
}

// BetCandidate is a priced market compared against the model
type BetCandidate struct {
	Fixture                Fixture        `json:"fixture"`
	Market                 string         `json:"market"`
	OfferedOdd             float64        `json:"offered_odd"`
	ModelProb              float64        `json:"model_prob"`
	ImpliedProb            float64        `json:"implied_prob"`
	ValuePct               float64        `json:"value_pct"`
	Classification         Classification `json:"classification"`
	RecommendationStrength float64        `json:"recommendation_strength"`
	Period                 Period         `json:"period,omitempty"`
	SparseData             bool           `json:"sparse_data,omitempty"`
}
