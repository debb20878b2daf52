package stats

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cypherlabdev/value-bet-service/internal/models"
	"github.com/cypherlabdev/value-bet-service/pkg/poisson"
)

// Fetcher fetches one side's recent-window aggregate
type Fetcher interface {
	FetchTeamStats(ctx context.Context, fixtureID string, side models.Side, mode models.StatsMode, window string) (*models.TeamStats, error)
}

// Aggregator builds the TeamStatsPair of a fixture. It is the only place
// that knows about venue modes.
type Aggregator struct {
	fetcher Fetcher
	window  string
	logger  zerolog.Logger
}

// NewAggregator creates a new statistics aggregator
func NewAggregator(fetcher Fetcher, window string, logger zerolog.Logger) *Aggregator {
	if window == "" {
		window = models.DefaultWindow
	}
	return &Aggregator{
		fetcher: fetcher,
		window:  window,
		logger:  logger.With().Str("component", "stats_aggregator").Logger(),
	}
}

// TeamStatsPair fetches both sides concurrently and derives their strengths
// against lambdaLeague. In venue-split mode a side whose venue data is
// missing, malformed or empty falls back to pooled data and is flagged.
func (a *Aggregator) TeamStatsPair(ctx context.Context, fixture models.Fixture, mode models.StatsMode, lambdaLeague float64) (*models.TeamStatsPair, error) {
	if !mode.Valid() {
		return nil, models.InvalidInputf("unknown stats mode %q", mode)
	}

	pair := &models.TeamStatsPair{Mode: mode}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		side, err := a.side(gctx, fixture.ID, models.SideHome, mode, lambdaLeague)
		if err != nil {
			return err
		}
		pair.Home = side
		return nil
	})
	g.Go(func() error {
		side, err := a.side(gctx, fixture.ID, models.SideAway, mode, lambdaLeague)
		if err != nil {
			return err
		}
		pair.Away = side
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return pair, nil
}

func (a *Aggregator) side(ctx context.Context, fixtureID string, side models.Side, mode models.StatsMode, lambdaLeague float64) (models.SideStats, error) {
	ts, err := a.fetcher.FetchTeamStats(ctx, fixtureID, side, mode, a.window)

	fellBack := false
	if mode == models.ModeVenueSplit && needsFallback(ts, err) {
		a.logger.Debug().
			Err(err).
			Str("fixture_id", fixtureID).
			Str("side", string(side)).
			Msg("venue data unavailable, using pooled stats")
		ts, err = a.fetcher.FetchTeamStats(ctx, fixtureID, side, models.ModePooled, a.window)
		fellBack = true
	}
	if err == nil && ts == nil {
		err = fmt.Errorf("%w: no stats returned", models.ErrProviderSchema)
	}
	if err != nil {
		return models.SideStats{}, fmt.Errorf("%s stats: %w", side, err)
	}

	offense, defense, sparse := poisson.Strengths(ts, lambdaLeague)
	if sparse {
		a.logger.Debug().
			Str("fixture_id", fixtureID).
			Str("side", string(side)).
			Msg("no recent matches, using neutral strengths")
	}

	return models.SideStats{
		Stats:      *ts,
		FellBack:   fellBack,
		SparseData: sparse,
		Offense:    offense,
		Defense:    defense,
	}, nil
}

// needsFallback reports whether venue-split data is unusable. Outages and
// cancellations are not recovered from by a second request.
func needsFallback(ts *models.TeamStats, err error) bool {
	if err != nil {
		return errors.Is(err, models.ErrProviderSchema) || errors.Is(err, models.ErrProviderEmpty)
	}
	return ts == nil || ts.IsSparse()
}
