package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/cypherlabdev/value-bet-service/internal/fixtures"
	"github.com/cypherlabdev/value-bet-service/internal/metrics"
	"github.com/cypherlabdev/value-bet-service/internal/models"
	"github.com/cypherlabdev/value-bet-service/internal/stats"
	"github.com/cypherlabdev/value-bet-service/pkg/parlay"
	"github.com/cypherlabdev/value-bet-service/pkg/poisson"
	"github.com/cypherlabdev/value-bet-service/pkg/valuebet"
)

const (
	DefaultFixtureTimeout = 45 * time.Second
	publishTimeout        = 10 * time.Second

	entryDay     = "day"
	entryFixture = "fixture"
)

var errOutage = errors.New("provider outage")

// AnalyzerConfig holds orchestrator configuration
type AnalyzerConfig struct {
	Concurrency         int           // provider calls in flight, e.g. 4
	FixtureTimeout      time.Duration // per-fixture budget, e.g. 45s
	HomeAdvantageFactor float64       // applied when Options.HomeAdvantage is set
	ScoreGridCap        int
	Window              string
	UTCOffsetMinutes    int
	OnePerFixture       bool // parlay selections limited to one per fixture
	Relevance           *fixtures.RelevanceTable
	Options             models.Options // initial runtime options
}

// DefaultAnalyzerConfig returns the default orchestrator configuration
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		Concurrency:         DefaultConcurrency,
		FixtureTimeout:      DefaultFixtureTimeout,
		HomeAdvantageFactor: poisson.DefaultHomeAdvantage,
		ScoreGridCap:        poisson.DefaultScoreGridCap,
		Window:              models.DefaultWindow,
		UTCOffsetMinutes:    -180,
		OnePerFixture:       true,
		Relevance:           fixtures.NewRelevanceTable(fixtures.DefaultHighLeagues, fixtures.DefaultMediumLeagues),
		Options: models.Options{
			HomeAdvantage: true,
			Mode:          models.ModePooled,
			LambdaLeague:  poisson.DefaultLambdaLeague,
		},
	}
}

// Analyzer orchestrates fixture loading, statistics, probabilities and
// classification into ranked value bets
type Analyzer struct {
	config     AnalyzerConfig
	provider   Provider
	cache      Cache
	publisher  Publisher
	loader     *fixtures.Loader
	aggregator *stats.Aggregator
	metrics    *metrics.Metrics
	now        func() time.Time
	logger     zerolog.Logger

	mu    sync.RWMutex
	opts  models.Options
	cycle string
}

// NewAnalyzer creates a new analyzer. Provider calls go through a
// concurrency gate and, when cache is not nil, a per-cycle response cache.
// publisher may be nil.
func NewAnalyzer(
	config AnalyzerConfig,
	provider Provider,
	cache Cache,
	publisher Publisher,
	m *metrics.Metrics,
	logger zerolog.Logger,
) (*Analyzer, error) {
	if err := config.Options.Validate(); err != nil {
		return nil, err
	}
	if config.FixtureTimeout <= 0 {
		config.FixtureTimeout = DefaultFixtureTimeout
	}
	if config.HomeAdvantageFactor <= 0 {
		config.HomeAdvantageFactor = poisson.DefaultHomeAdvantage
	}
	if config.ScoreGridCap <= 0 {
		config.ScoreGridCap = poisson.DefaultScoreGridCap
	}
	if config.Window == "" {
		config.Window = models.DefaultWindow
	}

	a := &Analyzer{
		config:    config,
		cache:     cache,
		publisher: publisher,
		metrics:   m,
		now:       time.Now,
		logger:    logger.With().Str("component", "analyzer").Logger(),
		opts:      config.Options,
		cycle:     uuid.NewString(),
	}

	var p Provider = newGatedProvider(provider, config.Concurrency, m)
	if cache != nil {
		p = newCachedProvider(p, cache, a.Cycle, m, logger)
	}
	a.provider = p
	a.loader = fixtures.NewLoader(p, config.Relevance, config.UTCOffsetMinutes, logger)
	a.aggregator = stats.NewAggregator(p, config.Window, logger)

	return a, nil
}

// Options returns the current runtime options
func (a *Analyzer) Options() models.Options {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.opts
}

// SetOptions validates and applies runtime options and starts a new cycle
func (a *Analyzer) SetOptions(ctx context.Context, opts models.Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	a.mu.Lock()
	a.opts = opts
	a.mu.Unlock()

	a.logger.Info().
		Bool("home_advantage", opts.HomeAdvantage).
		Str("mode", string(opts.Mode)).
		Float64("lambda_league", opts.LambdaLeague).
		Msg("options updated")

	a.NewCycle(ctx)
	return nil
}

// Cycle returns the current analysis cycle ID
func (a *Analyzer) Cycle() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cycle
}

// NewCycle starts a new analysis cycle and purges the responses cached by
// the previous one. It returns the new cycle ID.
func (a *Analyzer) NewCycle(ctx context.Context) string {
	next := uuid.NewString()

	a.mu.Lock()
	prev := a.cycle
	a.cycle = next
	a.mu.Unlock()

	if a.cache != nil {
		if _, err := a.cache.DeletePrefix(ctx, cyclePrefix(prev)); err != nil {
			a.logger.Warn().Err(err).Str("cycle", prev).Msg("failed to purge previous cycle")
		}
	}

	a.logger.Info().Str("cycle", next).Str("previous", prev).Msg("started analysis cycle")
	return next
}

func (a *Analyzer) engine(opts models.Options) (*poisson.Engine, error) {
	homeAdvantage := poisson.NoHomeAdvantage
	if opts.HomeAdvantage {
		homeAdvantage = a.config.HomeAdvantageFactor
	}
	return poisson.NewEngine(poisson.Config{
		LambdaLeague:  opts.LambdaLeague,
		HomeAdvantage: homeAdvantage,
		ScoreGridCap:  a.config.ScoreGridCap,
	})
}

// AnalyzeDay analyzes every analyzable fixture of date. Per-fixture
// failures, an outage and cancellation are reported in the result; the
// only error returned is ErrInvalidInput.
func (a *Analyzer) AnalyzeDay(ctx context.Context, date time.Time) (*models.AnalysisResult, error) {
	return a.analyze(ctx, []dayRequest{{date: date}})
}

// AnalyzeDays analyzes today and tomorrow, tagging candidates with their
// period and ordering today's first
func (a *Analyzer) AnalyzeDays(ctx context.Context, today, tomorrow time.Time) (*models.AnalysisResult, error) {
	return a.analyze(ctx, []dayRequest{
		{date: today, period: models.PeriodToday},
		{date: tomorrow, period: models.PeriodTomorrow},
	})
}

type dayRequest struct {
	date   time.Time
	period models.Period
}

func (a *Analyzer) analyze(ctx context.Context, days []dayRequest) (*models.AnalysisResult, error) {
	for _, d := range days {
		if d.date.IsZero() {
			return nil, models.InvalidInputf("date is required")
		}
	}

	start := a.now()
	opts := a.Options()
	engine, err := a.engine(opts)
	if err != nil {
		return nil, err
	}

	result := &models.AnalysisResult{
		RunID:      uuid.New(),
		Candidates: []models.BetCandidate{},
		Errors:     []models.FixtureError{},
		StartedAt:  start,
	}
	logger := a.logger.With().Str("run_id", result.RunID.String()).Logger()

	for _, d := range days {
		result.Dates = append(result.Dates, d.date.Format(time.DateOnly))
		if result.Outage || result.Cancelled {
			continue
		}
		a.runDay(ctx, d, opts, engine, result, logger)
	}

	sortCandidates(result.Candidates)
	result.CompletedAt = a.now()

	outcome := "ok"
	switch {
	case result.Outage:
		outcome = "outage"
	case result.Cancelled:
		outcome = "cancelled"
	}
	took := result.CompletedAt.Sub(start)
	a.metrics.RecordAnalysis(entryDay, outcome, took)
	for _, c := range result.Candidates {
		a.metrics.RecordCandidate(string(c.Classification), c.Market)
	}

	logger.Info().
		Strs("dates", result.Dates).
		Int("analyzed", result.Analyzed).
		Int("candidates", len(result.Candidates)).
		Int("errors", len(result.Errors)).
		Int("skipped", result.Skipped).
		Bool("outage", result.Outage).
		Bool("cancelled", result.Cancelled).
		Dur("took", took).
		Msg("analysis finished")

	a.publish(ctx, result)

	return result, nil
}

func (a *Analyzer) publish(ctx context.Context, result *models.AnalysisResult) {
	if a.publisher == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := a.publisher.PublishRun(pubCtx, result); err != nil {
		a.logger.Warn().Err(err).Str("run_id", result.RunID.String()).Msg("failed to publish analysis run")
	}
}

// runDay analyzes one date into result
func (a *Analyzer) runDay(ctx context.Context, day dayRequest, opts models.Options, engine *poisson.Engine, result *models.AnalysisResult, logger zerolog.Logger) {
	list, err := a.loader.AnalyzableFixtures(ctx, day.date, a.now())
	if err != nil {
		if ctx.Err() != nil {
			result.Cancelled = true
			return
		}
		kind := models.KindOf(err)
		a.metrics.RecordFixtureFailure(string(kind))
		result.Errors = append(result.Errors, models.FixtureError{
			Kind:    kind,
			Stage:   "list_fixtures",
			Message: err.Error(),
		})
		result.Outage = models.IsProviderOutage(err)
		logger.Warn().Err(err).Str("date", day.date.Format(time.DateOnly)).Msg("failed to list fixtures")
		return
	}

	b := newBatch(len(list))
	g := new(errgroup.Group)
	g.SetLimit(max(a.config.Concurrency, 1))

	for i := range list {
		if ctx.Err() != nil || !b.open(i) {
			break
		}
		g.Go(func() error {
			fctx, ok := b.start(ctx, i)
			if !ok {
				return nil
			}
			b.record(i, a.analyzeFixture(fctx, list[i], day.period, opts, engine, logger))
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		result.Cancelled = true
	}
	b.collect(result)
}

// fixtureState is the position of a fixture in the analysis pipeline
type fixtureState string

const (
	statePending       fixtureState = "pending"
	stateFetchingOdds  fixtureState = "fetching_odds"
	stateFetchingStats fixtureState = "fetching_stats"
	stateComputing     fixtureState = "computing"
	stateClassified    fixtureState = "classified"
	stateFailed        fixtureState = "failed"
	stateSkipped       fixtureState = "skipped"
)

type fixtureOutcome struct {
	state      fixtureState
	candidates []models.BetCandidate
	failure    *models.FixtureError
	err        error
}

func (o *fixtureOutcome) outage() bool {
	return o != nil && o.state == stateFailed && models.IsProviderOutage(o.err)
}

// analyzeFixture runs one fixture through the pipeline. Failures caused by
// cancellation of ctx are reported as skipped.
func (a *Analyzer) analyzeFixture(ctx context.Context, fixture models.Fixture, period models.Period, opts models.Options, engine *poisson.Engine, logger zerolog.Logger) *fixtureOutcome {
	logger = logger.With().Str("fixture_id", fixture.ID).Logger()
	transition := func(state fixtureState) {
		logger.Debug().Str("state", string(state)).Msg("fixture state")
	}

	fctx, cancel := context.WithTimeout(ctx, a.config.FixtureTimeout)
	defer cancel()

	fail := func(stage string, err error) *fixtureOutcome {
		if ctx.Err() != nil {
			transition(stateSkipped)
			return &fixtureOutcome{state: stateSkipped, err: err}
		}
		kind := models.KindOf(err)
		transition(stateFailed)
		logger.Warn().Err(err).Str("kind", string(kind)).Str("stage", stage).Msg("fixture analysis failed")
		a.metrics.RecordFixtureFailure(string(kind))
		return &fixtureOutcome{
			state: stateFailed,
			err:   err,
			failure: &models.FixtureError{
				FixtureID: fixture.ID,
				Kind:      kind,
				Stage:     stage,
				Message:   err.Error(),
			},
		}
	}

	transition(statePending)

	// odds and stats are fetched together; failures are resolved in a fixed
	// order so the outcome does not depend on which call returns first
	var (
		odds              *models.MarketOdds
		pair              *models.TeamStatsPair
		oddsErr, statsErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		transition(stateFetchingOdds)
		odds, oddsErr = a.provider.FetchOdds(fctx, fixture.ID)
		return nil
	})
	g.Go(func() error {
		transition(stateFetchingStats)
		pair, statsErr = a.aggregator.TeamStatsPair(fctx, fixture, opts.Mode, opts.LambdaLeague)
		return nil
	})
	_ = g.Wait()

	if oddsErr != nil {
		return fail(string(stateFetchingOdds), oddsErr)
	}
	if !odds.IsPriced() {
		logger.Debug().Msg("no priced markets")
		transition(stateClassified)
		return &fixtureOutcome{state: stateClassified}
	}
	if statsErr != nil {
		return fail(string(stateFetchingStats), statsErr)
	}

	transition(stateComputing)
	candidates := a.classify(fixture, odds, pair, engine.Distribution(pair), logger)
	for i := range candidates {
		candidates[i].Period = period
	}

	transition(stateClassified)
	return &fixtureOutcome{state: stateClassified, candidates: candidates}
}

func (a *Analyzer) classify(fixture models.Fixture, odds *models.MarketOdds, pair *models.TeamStatsPair, dist *models.OutcomeDistribution, logger zerolog.Logger) []models.BetCandidate {
	candidates, skipped := valuebet.Evaluate(fixture, odds, dist)
	for _, err := range skipped {
		logger.Debug().Err(err).Msg("market skipped")
	}
	sparse := pair.SparseData()
	for i := range candidates {
		candidates[i].SparseData = sparse
	}
	return candidates
}

// batch collects fixture outcomes by their position in the ordered list.
// Once two adjacent fixtures fail with a provider outage, fixtures listed
// after the pair are cancelled and no more are started; fixtures before it
// run to completion.
type batch struct {
	mu       sync.Mutex
	outcomes []*fixtureOutcome
	cancels  []context.CancelCauseFunc
	cut      int // fixtures at or after cut are not analyzed
}

func newBatch(n int) *batch {
	return &batch{
		outcomes: make([]*fixtureOutcome, n),
		cancels:  make([]context.CancelCauseFunc, n),
		cut:      n,
	}
}

// open reports whether fixture i may still be started
func (b *batch) open(i int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return i < b.cut
}

// start derives the context of fixture i, or reports false when the
// fixture falls after an outage or ctx is done
func (b *batch) start(ctx context.Context, i int) (context.Context, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i >= b.cut || ctx.Err() != nil {
		return nil, false
	}
	fctx, cancel := context.WithCancelCause(ctx)
	b.cancels[i] = cancel
	return fctx, true
}

// record stores the outcome of fixture i. When it completes a pair of
// adjacent provider outages no later than the current cut, the fixtures
// after the pair are cancelled and record reports true.
func (b *batch) record(i int, out *fixtureOutcome) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.outcomes[i] = out
	if b.cancels[i] != nil {
		b.cancels[i](nil)
		b.cancels[i] = nil
	}
	if !out.outage() {
		return false
	}

	end := -1
	switch {
	case i > 0 && b.outcomes[i-1].outage():
		end = i
	case i+1 < len(b.outcomes) && b.outcomes[i+1].outage():
		end = i + 1
	}
	if end < 0 || end+1 > b.cut {
		return false
	}

	b.cut = end + 1
	for j := b.cut; j < len(b.cancels); j++ {
		if b.cancels[j] != nil {
			b.cancels[j](errOutage)
			b.cancels[j] = nil
		}
	}
	return true
}

// collect appends the outcomes to result in list order. Everything after
// the first pair of adjacent outages is dropped and counted as skipped.
func (b *batch) collect(result *models.AnalysisResult) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cut := len(b.outcomes)
	for i := 1; i < len(b.outcomes); i++ {
		if b.outcomes[i-1].outage() && b.outcomes[i].outage() {
			cut = i + 1
			result.Outage = true
			break
		}
	}

	for i, out := range b.outcomes {
		if i >= cut || out == nil {
			result.Skipped++
			continue
		}
		switch out.state {
		case stateClassified:
			result.Analyzed++
			result.Candidates = append(result.Candidates, out.candidates...)
		case stateFailed:
			result.Errors = append(result.Errors, *out.failure)
		default:
			result.Skipped++
		}
	}
}

// sortCandidates orders candidates by period (today first), then by
// classifier ranking
func sortCandidates(candidates []models.BetCandidate) {
	valuebet.Rank(candidates)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Period.Rank() < candidates[j].Period.Rank()
	})
}

// AnalyzeFixture analyzes a single fixture on demand. Unlike AnalyzeDay,
// provider failures are returned to the caller.
func (a *Analyzer) AnalyzeFixture(ctx context.Context, fixtureID string) (*models.FixtureAnalysis, error) {
	if fixtureID == "" {
		return nil, models.InvalidInputf("fixture id is required")
	}

	start := a.now()
	opts := a.Options()
	engine, err := a.engine(opts)
	if err != nil {
		return nil, err
	}

	analysis, err := a.analyzeOne(ctx, fixtureID, opts, engine)
	outcome := "ok"
	if err != nil {
		outcome = string(models.KindOf(err))
	}
	a.metrics.RecordAnalysis(entryFixture, outcome, a.now().Sub(start))
	if err != nil {
		a.logger.Warn().Err(err).Str("fixture_id", fixtureID).Msg("fixture analysis failed")
		return nil, err
	}
	return analysis, nil
}

func (a *Analyzer) analyzeOne(ctx context.Context, fixtureID string, opts models.Options, engine *poisson.Engine) (*models.FixtureAnalysis, error) {
	ctx, cancel := context.WithTimeout(ctx, a.config.FixtureTimeout)
	defer cancel()

	preview, err := a.provider.FetchMatch(ctx, fixtureID)
	if err != nil {
		return nil, err
	}
	fixture := preview.Fixture
	fixture.Relevance = a.config.Relevance.Lookup(fixture.League)

	pair, err := a.aggregator.TeamStatsPair(ctx, fixture, opts.Mode, opts.LambdaLeague)
	if err != nil {
		return nil, err
	}

	logger := a.logger.With().Str("fixture_id", fixtureID).Logger()
	dist := engine.Distribution(pair)
	candidates := a.classify(fixture, preview.Odds, pair, dist, logger)
	if candidates == nil {
		candidates = []models.BetCandidate{}
	}
	valuebet.Rank(candidates)

	return &models.FixtureAnalysis{
		Fixture:      fixture,
		Odds:         preview.Odds,
		Stats:        pair,
		Distribution: dist,
		Candidates:   candidates,
	}, nil
}

// ParlayCompute prices a multiple over selection, enforcing one selection
// per fixture when configured
func (a *Analyzer) ParlayCompute(selection []models.BetCandidate, stake decimal.Decimal) (*parlay.Result, error) {
	slip := parlay.NewSlip(a.config.OnePerFixture)
	for _, c := range selection {
		if err := slip.Add(c); err != nil {
			return nil, err
		}
	}
	return slip.Compute(stake)
}
