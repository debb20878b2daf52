package models

// Scoreline is a final score
type Scoreline struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// TotalsProbability is the over/under split of one goals line
type TotalsProbability struct {
	Line  float64 `json:"line"`
	Over  float64 `json:"over"`
	Under float64 `json:"under"`
}

// OutcomeDistribution is the model's view of a fixture
type OutcomeDistribution struct {
	LambdaHome float64 `json:"lambda_home"`
	LambdaAway float64 `json:"lambda_away"`

	// Normalised 1X2 probabilities, summing to 1
	HomeWin float64 `json:"home_win"`
	Draw    float64 `json:"draw"`
	AwayWin float64 `json:"away_win"`

	Totals []TotalsProbability `json:"totals"`

	BTTSYes float64 `json:"btts_yes"`
	BTTSNo  float64 `json:"btts_no"`

	// Per-side goal probabilities for 0..K; the tail holds P(goals > K)
	HomeGoals []float64 `json:"home_goals"`
	AwayGoals []float64 `json:"away_goals"`
	HomeTail  float64   `json:"home_tail"`
	AwayTail  float64   `json:"away_tail"`

	MostLikelyScore Scoreline `json:"most_likely_score"`
}

// Total returns the over/under split for a line, if computed
func (d *OutcomeDistribution) Total(line float64) (TotalsProbability, bool) {
	for _, t := range d.Totals {
		if t.Line == line {
			return t, true
		}
	}
	return TotalsProbability{}, false
}
