package service

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/cypherlabdev/value-bet-service/internal/metrics"
	"github.com/cypherlabdev/value-bet-service/internal/models"
)

// DefaultConcurrency is the number of provider calls allowed in flight
const DefaultConcurrency = 4

// gatedProvider bounds the number of outstanding provider calls. Waiting
// for a slot is cancellable; a call holding a slot is not interrupted.
type gatedProvider struct {
	next    Provider
	sem     *semaphore.Weighted
	metrics *metrics.Metrics
}

func newGatedProvider(next Provider, size int, m *metrics.Metrics) *gatedProvider {
	if size <= 0 {
		size = DefaultConcurrency
	}
	return &gatedProvider{
		next:    next,
		sem:     semaphore.NewWeighted(int64(size)),
		metrics: m,
	}
}

func (g *gatedProvider) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	g.metrics.ProviderCallStarted()
	return nil
}

func (g *gatedProvider) release() {
	g.metrics.ProviderCallFinished()
	g.sem.Release(1)
}

func (g *gatedProvider) ListFixtures(ctx context.Context, date time.Time, utcOffsetMinutes int) ([]models.Fixture, error) {
	if err := g.acquire(ctx); err != nil {
		return nil, err
	}
	defer g.release()
	return g.next.ListFixtures(ctx, date, utcOffsetMinutes)
}

func (g *gatedProvider) FetchOdds(ctx context.Context, fixtureID string) (*models.MarketOdds, error) {
	if err := g.acquire(ctx); err != nil {
		return nil, err
	}
	defer g.release()
	return g.next.FetchOdds(ctx, fixtureID)
}

func (g *gatedProvider) FetchMatch(ctx context.Context, fixtureID string) (*models.MatchPreview, error) {
	if err := g.acquire(ctx); err != nil {
		return nil, err
	}
	defer g.release()
	return g.next.FetchMatch(ctx, fixtureID)
}

func (g *gatedProvider) FetchTeamStats(ctx context.Context, fixtureID string, side models.Side, mode models.StatsMode, window string) (*models.TeamStats, error) {
	if err := g.acquire(ctx); err != nil {
		return nil, err
	}
	defer g.release()
	return g.next.FetchTeamStats(ctx, fixtureID, side, mode, window)
}
