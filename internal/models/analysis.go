package models

import (
	"time"

	"github.com/google/uuid"
)

// FixtureError summarises why one fixture contributed no candidates
type FixtureError struct {
	FixtureID string    `json:"fixture_id"`
	Kind      ErrorKind `json:"kind"`
	Stage     string    `json:"stage"`
	Message   string    `json:"message"`
}

// AnalysisResult is the outcome of a day analysis
type AnalysisResult struct {
	RunID      uuid.UUID      `json:"run_id"`
	Dates      []string       `json:"dates"`
	Candidates []BetCandidate `json:"candidates"`
	Errors     []FixtureError `json:"errors"`
	// Outage is set when the provider failed for two consecutive fixtures
	Outage bool `json:"outage"`
	// Cancelled is set when the caller stopped the run early
	Cancelled bool `json:"cancelled"`
	// Analyzed counts fixtures that reached classification
	Analyzed int `json:"analyzed"`
	// Skipped counts fixtures never analyzed because of an outage or cancellation
	Skipped     int       `json:"skipped"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// FixtureAnalysis is the interactive single-fixture result
type FixtureAnalysis struct {
	Fixture      Fixture              `json:"fixture"`
	Odds         *MarketOdds          `json:"odds,omitempty"`
	Stats        *TeamStatsPair       `json:"stats"`
	Distribution *OutcomeDistribution `json:"outcome_distribution"`
	Candidates   []BetCandidate       `json:"candidates"`
}

// Options are the runtime-tunable analysis settings
type Options struct {
	HomeAdvantage bool      `json:"home_advantage"`
	Mode          StatsMode `json:"mode"`
	LambdaLeague  float64   `json:"lambda_league"`
}

// Validate rejects unusable options
func (o Options) Validate() error {
	if !o.Mode.Valid() {
		return InvalidInputf("unknown stats mode %q", o.Mode)
	}
	if o.LambdaLeague <= 0 {
		return InvalidInputf("lambda_league must be positive, got %v", o.LambdaLeague)
	}
	return nil
}

// KafkaAnalysisRunMessage is the message published for a finished run
type KafkaAnalysisRunMessage struct {
	RunID     string          `json:"run_id"`
	Timestamp time.Time       `json:"timestamp"`
	Result    *AnalysisResult `json:"result"`
}
