package provider

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cypherlabdev/value-bet-service/internal/models"
)

// ListFixtures lists the fixtures of a calendar date. The offset (minutes)
// shifts the provider's day boundary. A day without fixtures fails with
// ErrProviderEmpty.
func (c *Client) ListFixtures(ctx context.Context, date time.Time, utcOffsetMinutes int) ([]models.Fixture, error) {
	params := url.Values{}
	params.Set("mOffset", strconv.Itoa(utcOffsetMinutes))

	body, err := c.get(ctx, endpointDailyRadar, "/dailyRadar/"+date.Format(time.DateOnly), params)
	if err != nil {
		return nil, err
	}

	var resp dailyRadarResponse
	if err := decodeJSON(endpointDailyRadar, body, &resp); err != nil {
		return nil, err
	}
	if resp.DailyRadar == nil {
		return nil, schemaErrorf(endpointDailyRadar, "missing dailyRadar container")
	}

	seen := make(map[string]struct{})
	var fixtures []models.Fixture
	skipped := 0
	for _, region := range *resp.DailyRadar {
		for _, season := range region.Seasons {
			league := leagueName(region, season)
			for _, m := range season.Matches {
				f, ok := fixtureFromMatch(m, league)
				if !ok {
					skipped++
					continue
				}
				if _, dup := seen[f.ID]; dup {
					continue
				}
				seen[f.ID] = struct{}{}
				fixtures = append(fixtures, f)
			}
		}
	}

	if skipped > 0 {
		c.logger.Debug().Int("skipped", skipped).Str("date", date.Format(time.DateOnly)).Msg("skipped incomplete matches")
	}
	if len(fixtures) == 0 {
		return nil, fmt.Errorf("%w: no fixtures on %s", models.ErrProviderEmpty, date.Format(time.DateOnly))
	}

	return fixtures, nil
}

func leagueName(region regionDTO, season seasonDTO) string {
	if season.League != nil && season.League.Name != "" {
		return season.League.Name
	}
	if season.Name != "" {
		return season.Name
	}
	return region.Name
}

func fixtureFromMatch(m matchDTO, league string) (models.Fixture, bool) {
	if m.ID == "" || m.HomeTeam.Name == "" || m.AwayTeam.Name == "" {
		return models.Fixture{}, false
	}
	return models.Fixture{
		ID:        string(m.ID),
		StartTime: time.Time(m.MatchTime),
		HomeTeam:  strings.TrimSpace(m.HomeTeam.Name),
		AwayTeam:  strings.TrimSpace(m.AwayTeam.Name),
		League:    strings.TrimSpace(league),
		Status:    models.FixtureStatus(m.Status),
	}, true
}

// FetchOdds returns the priced markets of a fixture, or nil when the
// bookmaker has not priced it
func (c *Client) FetchOdds(ctx context.Context, fixtureID string) (*models.MarketOdds, error) {
	resp, err := c.prepRadar(ctx, fixtureID)
	if err != nil {
		return nil, err
	}
	return oddsFromDTO(fixtureID, resp.MarketOdds), nil
}

// FetchMatch returns a fixture together with its priced markets
func (c *Client) FetchMatch(ctx context.Context, fixtureID string) (*models.MatchPreview, error) {
	resp, err := c.prepRadar(ctx, fixtureID)
	if err != nil {
		return nil, err
	}
	if resp.HomeTeam.Name == "" || resp.AwayTeam.Name == "" {
		return nil, schemaErrorf(endpointPrepRadar, "fixture %s has no team names", fixtureID)
	}

	id := string(resp.ID)
	if id == "" {
		id = fixtureID
	}
	return &models.MatchPreview{
		Fixture: models.Fixture{
			ID:        id,
			StartTime: time.Time(resp.StartTime),
			HomeTeam:  strings.TrimSpace(resp.HomeTeam.Name),
			AwayTeam:  strings.TrimSpace(resp.AwayTeam.Name),
			League:    strings.TrimSpace(resp.League.Name),
			Status:    models.FixtureStatus(resp.Status),
		},
		Odds: oddsFromDTO(id, resp.MarketOdds),
	}, nil
}

func (c *Client) prepRadar(ctx context.Context, fixtureID string) (*prepRadarResponse, error) {
	if fixtureID == "" {
		return nil, models.InvalidInputf("empty fixture id")
	}
	body, err := c.get(ctx, endpointPrepRadar, "/prepRadar/"+url.PathEscape(fixtureID), nil)
	if err != nil {
		return nil, err
	}
	var resp prepRadarResponse
	if err := decodeJSON(endpointPrepRadar, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// oddsFromDTO converts the odds container. A market whose prices are all
// zero was not priced and is left nil.
func oddsFromDTO(fixtureID string, dto *marketOddsDTO) *models.MarketOdds {
	if dto == nil {
		return nil
	}
	odds := &models.MarketOdds{FixtureID: fixtureID}
	if r := dto.ResultFt; r != nil && (r.Home != 0 || r.Draw != 0 || r.Away != 0) {
		odds.Result = &models.ThreeWayOdds{Home: float64(r.Home), Draw: float64(r.Draw), Away: float64(r.Away)}
	}
	odds.Over15 = totalFromDTO(dto.GoalsOu15)
	odds.Over25 = totalFromDTO(dto.GoalsOu25)
	odds.Over35 = totalFromDTO(dto.GoalsOu35)
	if b := dto.BTTS; b != nil && (b.Yes != 0 || b.No != 0) {
		odds.BTTS = &models.BTTSOdds{Yes: float64(b.Yes), No: float64(b.No)}
	}
	if !odds.IsPriced() {
		return nil
	}
	return odds
}

func totalFromDTO(dto *totalDTO) *models.TotalOdds {
	if dto == nil || (dto.Over == 0 && dto.Under == 0) {
		return nil
	}
	return &models.TotalOdds{Over: float64(dto.Over), Under: float64(dto.Under)}
}

// FetchTeamStats returns one side's recent-window aggregate. Pooled mode
// counts every recent match; venue-split counts only matches at the side's
// venue in this fixture.
func (c *Client) FetchTeamStats(ctx context.Context, fixtureID string, side models.Side, mode models.StatsMode, window string) (*models.TeamStats, error) {
	if fixtureID == "" {
		return nil, models.InvalidInputf("empty fixture id")
	}
	if side != models.SideHome && side != models.SideAway {
		return nil, models.InvalidInputf("unknown side %q", side)
	}
	fieldMode, err := fieldModeOf(mode)
	if err != nil {
		return nil, err
	}
	if window == "" {
		window = models.DefaultWindow
	}

	params := url.Values{}
	params.Set("field", string(side))
	params.Set("window", strings.ReplaceAll(window, "_", ""))
	params.Set("mode", fieldMode)

	body, err := c.get(ctx, endpointGoalRadar, "/goalRadar/"+url.PathEscape(fixtureID), params)
	if err != nil {
		return nil, err
	}

	var resp goalRadarResponse
	if err := decodeJSON(endpointGoalRadar, body, &resp); err != nil {
		return nil, err
	}
	return statsFromDTO(fixtureID, side, &resp)
}

func fieldModeOf(mode models.StatsMode) (string, error) {
	switch mode {
	case models.ModePooled, "":
		return "anyField", nil
	case models.ModeVenueSplit:
		return "sameField", nil
	default:
		return "", models.InvalidInputf("unknown stats mode %q", mode)
	}
}

func statsFromDTO(fixtureID string, side models.Side, resp *goalRadarResponse) (*models.TeamStats, error) {
	if resp.Data == nil {
		return nil, schemaErrorf(endpointGoalRadar, "fixture %s side %s: missing data container", fixtureID, side)
	}
	matchCount := resp.MatchCount
	if matchCount == nil {
		matchCount = resp.Data.MatchCount
	}
	if matchCount == nil {
		return nil, schemaErrorf(endpointGoalRadar, "fixture %s side %s: missing matchCount", fixtureID, side)
	}

	d := resp.Data
	matches := matchCount.count()
	if matches > 0 && (d.Sums.GoalsScored == nil || d.Sums.GoalsConceded == nil) {
		return nil, schemaErrorf(endpointGoalRadar, "fixture %s side %s: missing goal sums", fixtureID, side)
	}

	stats := &models.TeamStats{
		MatchesCounted: matches,
		Wins:           d.Counts.Won.FullTime.count(),
		Draws:          d.Counts.Drew.FullTime.count(),
		Losses:         d.Counts.Lost.FullTime.count(),
		CleanSheets:    d.Counts.CleanSheet.FullTime.count(),
		FailedToScore:  d.Counts.FailToScore.FullTime.count(),
		Over15Count:    d.Counts.Markets.MatchGoals.Over15.count(),
		Over25Count:    d.Counts.Markets.MatchGoals.Over25.count(),
		BTTSCount:      d.Counts.Markets.MatchGoals.BTTS.count(),
	}
	if d.Sums.GoalsScored != nil {
		stats.GoalsScoredTotal = d.Sums.GoalsScored.FullTime.count()
	}
	if d.Sums.GoalsConceded != nil {
		stats.GoalsConcededTotal = d.Sums.GoalsConceded.FullTime.count()
	}
	for _, r := range d.Race {
		if r == "" {
			continue
		}
		stats.RecentForm = append(stats.RecentForm, models.FormResult(r))
		if len(stats.RecentForm) == models.MaxRecentForm {
			break
		}
	}

	if err := stats.Validate(); err != nil {
		return nil, schemaErrorf(endpointGoalRadar, "fixture %s side %s: %v", fixtureID, side, err)
	}
	return stats, nil
}
