package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/value-bet-service/internal/metrics"
	"github.com/cypherlabdev/value-bet-service/internal/models"
)

const keyPrefix = "valuebet"

// cyclePrefix returns the key prefix shared by every entry of a cycle
func cyclePrefix(cycle string) string {
	return keyPrefix + ":" + cycle + ":"
}

// cachedProvider serves repeated provider requests of the current analysis
// cycle from a Cache. Only successful responses are stored; cache failures
// fall through to the provider.
type cachedProvider struct {
	next    Provider
	cache   Cache
	cycle   func() string
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func newCachedProvider(next Provider, cache Cache, cycle func() string, m *metrics.Metrics, logger zerolog.Logger) *cachedProvider {
	return &cachedProvider{
		next:    next,
		cache:   cache,
		cycle:   cycle,
		metrics: m,
		logger:  logger.With().Str("component", "cycle_cache").Logger(),
	}
}

func (p *cachedProvider) key(kind string, parts ...string) string {
	key := cyclePrefix(p.cycle()) + kind
	for _, part := range parts {
		key += ":" + part
	}
	return key
}

func (p *cachedProvider) ListFixtures(ctx context.Context, date time.Time, utcOffsetMinutes int) ([]models.Fixture, error) {
	key := p.key("fixtures", date.Format(time.DateOnly), strconv.Itoa(utcOffsetMinutes))
	return cached(ctx, p, "fixtures", key, func() ([]models.Fixture, error) {
		return p.next.ListFixtures(ctx, date, utcOffsetMinutes)
	})
}

func (p *cachedProvider) FetchOdds(ctx context.Context, fixtureID string) (*models.MarketOdds, error) {
	return cached(ctx, p, "odds", p.key("odds", fixtureID), func() (*models.MarketOdds, error) {
		return p.next.FetchOdds(ctx, fixtureID)
	})
}

func (p *cachedProvider) FetchMatch(ctx context.Context, fixtureID string) (*models.MatchPreview, error) {
	return cached(ctx, p, "match", p.key("match", fixtureID), func() (*models.MatchPreview, error) {
		return p.next.FetchMatch(ctx, fixtureID)
	})
}

func (p *cachedProvider) FetchTeamStats(ctx context.Context, fixtureID string, side models.Side, mode models.StatsMode, window string) (*models.TeamStats, error) {
	key := p.key("stats", fixtureID, string(side), string(mode), window)
	return cached(ctx, p, "stats", key, func() (*models.TeamStats, error) {
		return p.next.FetchTeamStats(ctx, fixtureID, side, mode, window)
	})
}

// cached returns the value stored under key or fetches and stores it
func cached[T any](ctx context.Context, p *cachedProvider, kind, key string, fetch func() (T, error)) (T, error) {
	data, err := p.cache.Get(ctx, key)
	switch {
	case err == nil:
		var v T
		uerr := json.Unmarshal(data, &v)
		if uerr == nil {
			p.metrics.RecordCacheLookup(kind, "hit")
			return v, nil
		}
		p.logger.Warn().Err(uerr).Str("key", key).Msg("discarding unreadable cache entry")
		p.metrics.RecordCacheLookup(kind, "error")
	case errors.Is(err, models.ErrCacheMiss):
		p.metrics.RecordCacheLookup(kind, "miss")
	default:
		p.logger.Warn().Err(err).Str("key", key).Msg("cache lookup failed")
		p.metrics.RecordCacheLookup(kind, "error")
	}

	v, err := fetch()
	if err != nil {
		return v, err
	}

	data, err = json.Marshal(v)
	if err != nil {
		return v, fmt.Errorf("failed to marshal %s: %w", kind, err)
	}
	if err := p.cache.Set(ctx, key, data); err != nil {
		p.logger.Warn().Err(err).Str("key", key).Msg("failed to cache provider response")
	}

	return v, nil
}
