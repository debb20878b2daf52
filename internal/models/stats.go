package models

import "fmt"

// Side identifies the home or away team of a fixture
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// StatsMode selects how recent matches are pooled
type StatsMode string

const (
	// ModePooled counts every recent match regardless of venue
	ModePooled StatsMode = "pooled"
	// ModeVenueSplit counts home matches for the home side and away matches for the away side
	ModeVenueSplit StatsMode = "venue_split"
)

// Valid reports whether m is a known mode
func (m StatsMode) Valid() bool {
	return m == ModePooled || m == ModeVenueSplit
}

// DefaultWindow is the recent-matches window used for aggregation
const DefaultWindow = "last_10"

// FormResult is one entry of a team's recent form
type FormResult string

const (
	FormWin  FormResult = "W"
	FormDraw FormResult = "D"
	FormLoss FormResult = "L"
)

// MaxRecentForm is the longest recent-form sequence kept
const MaxRecentForm = 5

// TeamStats aggregates a team's last-N matches
type TeamStats struct {
	MatchesCounted     int          `json:"matches_counted"`
	GoalsScoredTotal   int          `json:"goals_scored_total"`
	GoalsConcededTotal int          `json:"goals_conceded_total"`
	Wins               int          `json:"wins"`
	Draws              int          `json:"draws"`
	Losses             int          `json:"losses"`
	CleanSheets        int          `json:"clean_sheets"`
	FailedToScore      int          `json:"failed_to_score"`
	Over15Count        int          `json:"over_1_5_count"`
	Over25Count        int          `json:"over_2_5_count"`
	BTTSCount          int          `json:"btts_count"`
	RecentForm         []FormResult `json:"recent_form"`
}

// Validate checks the aggregate invariants. A zero-match aggregate is valid.
func (t *TeamStats) Validate() error {
	if t.MatchesCounted < 0 {
		return fmt.Errorf("negative matches counted: %d", t.MatchesCounted)
	}
	if t.GoalsScoredTotal < 0 || t.GoalsConcededTotal < 0 {
		return fmt.Errorf("negative goal totals: scored=%d conceded=%d", t.GoalsScoredTotal, t.GoalsConcededTotal)
	}
	if t.Wins+t.Draws+t.Losses != t.MatchesCounted {
		return fmt.Errorf("results %d+%d+%d do not add up to %d matches", t.Wins, t.Draws, t.Losses, t.MatchesCounted)
	}

	counts := map[string]int{
		"wins":            t.Wins,
		"draws":           t.Draws,
		"losses":          t.Losses,
		"clean_sheets":    t.CleanSheets,
		"failed_to_score": t.FailedToScore,
		"over_1_5":        t.Over15Count,
		"over_2_5":        t.Over25Count,
		"btts":            t.BTTSCount,
	}
	for name, n := range counts {
		if n < 0 || n > t.MatchesCounted {
			return fmt.Errorf("%s count %d outside [0, %d]", name, n, t.MatchesCounted)
		}
	}

	if len(t.RecentForm) > MaxRecentForm {
		return fmt.Errorf("recent form has %d entries, max %d", len(t.RecentForm), MaxRecentForm)
	}

	return nil
}

// IsSparse reports whether no matches were counted
func (t *TeamStats) IsSparse() bool {
	return t.MatchesCounted == 0
}

// AvgGoalsScored is goals scored per counted match (0 when sparse)
func (t *TeamStats) AvgGoalsScored() float64 {
	if t.MatchesCounted == 0 {
		return 0
	}
	return float64(t.GoalsScoredTotal) / float64(t.MatchesCounted)
}

// AvgGoalsConceded is goals conceded per counted match (0 when sparse)
func (t *TeamStats) AvgGoalsConceded() float64 {
	if t.MatchesCounted == 0 {
		return 0
	}
	return float64(t.GoalsConcededTotal) / float64(t.MatchesCounted)
}

// SideStats is one side of a TeamStatsPair with the aggregator's flags
type SideStats struct {
	Stats TeamStats `json:"stats"`
	// FellBack is set when venue-split data was unavailable and pooled data was used
	FellBack bool `json:"fell_back"`
	// SparseData is set when no matches were counted; strengths default to 1.0
	SparseData bool `json:"sparse_data"`
	// Offense and Defense are strength ratios against the league baseline
	Offense float64 `json:"offense"`
	Defense float64 `json:"defense"`
}

// TeamStatsPair holds both sides' statistics for a fixture
type TeamStatsPair struct {
	Home SideStats `json:"home"`
	Away SideStats `json:"away"`
	Mode StatsMode `json:"mode"`
}

// SparseData reports whether either side had no counted matches
func (p *TeamStatsPair) SparseData() bool {
	return p.Home.SparseData || p.Away.SparseData
}
