package service

import (
	"context"
	"time"

	"github.com/cypherlabdev/value-bet-service/internal/models"
)

// Provider is an interface that abstracts the upstream sports-data API
type Provider interface {
	ListFixtures(ctx context.Context, date time.Time, utcOffsetMinutes int) ([]models.Fixture, error)
	FetchOdds(ctx context.Context, fixtureID string) (*models.MarketOdds, error)
	FetchMatch(ctx context.Context, fixtureID string) (*models.MatchPreview, error)
	FetchTeamStats(ctx context.Context, fixtureID string, side models.Side, mode models.StatsMode, window string) (*models.TeamStats, error)
}

// Publisher is an interface that abstracts delivery of finished analysis runs
type Publisher interface {
	PublishRun(ctx context.Context, result *models.AnalysisResult) error
	Close() error
}
