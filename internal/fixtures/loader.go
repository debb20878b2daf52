package fixtures

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/value-bet-service/internal/models"
)

// StartedTolerance is how long after kick-off a fixture with no reliable
// status is still considered analyzable
const StartedTolerance = 6 * time.Hour

// Lister lists the fixtures of a date
type Lister interface {
	ListFixtures(ctx context.Context, date time.Time, utcOffsetMinutes int) ([]models.Fixture, error)
}

// Loader turns a provider day listing into the ordered analyzable fixtures
type Loader struct {
	lister    Lister
	relevance *RelevanceTable
	utcOffset int
	logger    zerolog.Logger
}

// NewLoader creates a new fixture loader
func NewLoader(lister Lister, relevance *RelevanceTable, utcOffsetMinutes int, logger zerolog.Logger) *Loader {
	return &Loader{
		lister:    lister,
		relevance: relevance,
		utcOffset: utcOffsetMinutes,
		logger:    logger.With().Str("component", "fixture_loader").Logger(),
	}
}

// AnalyzableFixtures lists the fixtures of date that can still be analyzed
// at now, tagged with league relevance and ordered by relevance, then
// kick-off, then ID. An empty day yields an empty list.
func (l *Loader) AnalyzableFixtures(ctx context.Context, date, now time.Time) ([]models.Fixture, error) {
	all, err := l.lister.ListFixtures(ctx, date, l.utcOffset)
	if errors.Is(err, models.ErrProviderEmpty) {
		l.logger.Info().Str("date", date.Format(time.DateOnly)).Msg("no fixtures listed")
		return []models.Fixture{}, nil
	}
	if err != nil {
		return nil, err
	}

	fixtures := make([]models.Fixture, 0, len(all))
	for _, f := range all {
		if !IsAnalyzable(f, now) {
			continue
		}
		f.Relevance = l.relevance.Lookup(f.League)
		fixtures = append(fixtures, f)
	}
	Sort(fixtures)

	l.logger.Info().
		Str("date", date.Format(time.DateOnly)).
		Int("listed", len(all)).
		Int("analyzable", len(fixtures)).
		Msg("loaded fixtures")

	return fixtures, nil
}

// IsAnalyzable reports whether a fixture is scheduled or live, or has no
// reliable status and kicked off no more than StartedTolerance before now
func IsAnalyzable(f models.Fixture, now time.Time) bool {
	switch f.Status {
	case models.StatusScheduled, models.StatusLive:
		return true
	case models.StatusFinished, models.StatusCancelled, models.StatusPostponed:
		return false
	}
	if !f.HasStartTime() {
		return false
	}
	return f.StartTime.Sub(now) >= -StartedTolerance
}

// Sort orders fixtures by relevance, then start time (missing last), then ID
func Sort(fixtures []models.Fixture) {
	sort.SliceStable(fixtures, func(i, j int) bool {
		a, b := fixtures[i], fixtures[j]
		if a.Relevance.Rank() != b.Relevance.Rank() {
			return a.Relevance.Rank() < b.Relevance.Rank()
		}
		if a.HasStartTime() != b.HasStartTime() {
			return a.HasStartTime()
		}
		if !a.StartTime.Equal(b.StartTime) {
			return a.StartTime.Before(b.StartTime)
		}
		return a.ID < b.ID
	})
}
