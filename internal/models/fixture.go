package models

import "time"

// FixtureStatus is the provider-reported state of a match
type FixtureStatus string

const (
	StatusUnknown     FixtureStatus = ""
	StatusScheduled   FixtureStatus = "scheduled"
	StatusLive        FixtureStatus = "live"
	StatusFinished    FixtureStatus = "finished"
	StatusPostponed   FixtureStatus = "postponed"
	StatusCancelled   FixtureStatus = "cancelled"
	StatusInterrupted FixtureStatus = "interrupted"
)

// Relevance ranks leagues for fixture ordering (high sorts first)
type Relevance string

const (
	RelevanceHigh   Relevance = "high"
	RelevanceMedium Relevance = "medium"
	RelevanceLow    Relevance = "low"
)

// Rank returns the sort rank of a relevance tag; unknown tags sort with low
func (r Relevance) Rank() int {
	switch r {
	case RelevanceHigh:
		return 0
	case RelevanceMedium:
		return 1
	default:
		return 2
	}
}

// Fixture is a scheduled football match as listed by the provider
type Fixture struct {
	ID        string        `json:"id"`
	StartTime time.Time     `json:"start_time"` // zero when the provider did not send one
	HomeTeam  string        `json:"home_team"`
	AwayTeam  string        `json:"away_team"`
	League    string        `json:"league"`
	Relevance Relevance     `json:"relevance"`
	Status    FixtureStatus `json:"status"`
}

// Name returns the "Home vs Away" display name
func (f Fixture) Name() string {
	return f.HomeTeam + " vs " + f.AwayTeam
}

// HasStartTime reports whether the provider sent a kick-off time
func (f Fixture) HasStartTime() bool {
	return !f.StartTime.IsZero()
}
