package provider

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cypherlabdev/value-bet-service/internal/metrics"
	"github.com/cypherlabdev/value-bet-service/internal/models"
)

// testClientSetup holds a client pointed at a test server
type testClientSetup struct {
	client  *Client
	server  *httptest.Server
	calls   *atomic.Int32
	metrics *metrics.Metrics
}

// fastRetry keeps retry waits negligible in tests
func fastRetry() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		BackoffBase:    time.Millisecond,
		RateLimitDelay: time.Millisecond,
	}
}

// setupTestClient starts a server running handler and a client using it
func setupTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *testClientSetup {
	calls := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	m := metrics.New()
	opts = append([]Option{WithRetryPolicy(fastRetry()), WithMetrics(m)}, opts...)
	client := NewClient(ClientConfig{
		BaseURL:        server.URL,
		RequestTimeout: 2 * time.Second,
		Referer:        "https://www.example.com/",
	}, zerolog.Nop(), opts...)

	return &testClientSetup{client: client, server: server, calls: calls, metrics: m}
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

const prepRadarBody = `{
	"id": 9001,
	"startTime": 1760200200,
	"homeTeam": {"name": "Palmeiras"},
	"awayTeam": {"name": "Santos"},
	"league": {"name": "Brasileirão Série A"},
	"status": "notstarted",
	"marketOdds": {
		"resultFt": {"home": 1.90, "draw": "3.50", "away": 4.5},
		"goalsOu25": {"over": 2.05, "under": 1.80},
		"btts": {"yes": 1.95, "no": 1.85}
	}
}`

// TestNewClient_Defaults tests default timeout and retry policy
func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(ClientConfig{BaseURL: "http://provider/"}, zerolog.Nop())

	assert.Equal(t, "http://provider", client.baseURL)
	assert.Equal(t, 10*time.Second, client.timeout)
	assert.Equal(t, DefaultRetryPolicy(), client.retry)
	assert.Nil(t, client.limiter)
	assert.Equal(t, "gzip, deflate, br", client.headers.Get("Accept-Encoding"))
}

// TestFetchOdds_Success tests decoding of the odds container
func TestFetchOdds_Success(t *testing.T) {
	var gotHeaders http.Header
	setup := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		assert.Equal(t, "/prepRadar/9001", r.URL.Path)
		writeJSON(w, prepRadarBody)
	})

	odds, err := setup.client.FetchOdds(context.Background(), "9001")

	require.NoError(t, err)
	require.NotNil(t, odds)
	assert.Equal(t, "9001", odds.FixtureID)
	assert.Equal(t, &models.ThreeWayOdds{Home: 1.90, Draw: 3.50, Away: 4.5}, odds.Result)
	assert.Equal(t, &models.TotalOdds{Over: 2.05, Under: 1.80}, odds.Over25)
	assert.Equal(t, &models.BTTSOdds{Yes: 1.95, No: 1.85}, odds.BTTS)
	assert.Nil(t, odds.Over15)
	assert.True(t, odds.HasRequiredMarkets())

	assert.Contains(t, gotHeaders.Get("User-Agent"), "Mozilla/5.0")
	assert.Contains(t, gotHeaders.Get("Accept"), "application/json")
	assert.Equal(t, "https://www.example.com/", gotHeaders.Get("Referer"))
}

// TestFetchOdds_NoContainer tests that missing odds are not an error
func TestFetchOdds_NoContainer(t *testing.T) {
	setup := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"id": "1", "homeTeam": {"name": "A"}, "awayTeam": {"name": "B"}}`)
	})

	odds, err := setup.client.FetchOdds(context.Background(), "1")

	require.NoError(t, err)
	assert.Nil(t, odds)
}

// TestFetchOdds_InvalidJSON tests that decode failures are schema errors
func TestFetchOdds_InvalidJSON(t *testing.T) {
	setup := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `<html>blocked</html>`)
	})

	_, err := setup.client.FetchOdds(context.Background(), "1")

	assert.ErrorIs(t, err, models.ErrProviderSchema)
	assert.Equal(t, int32(1), setup.calls.Load())
}

// TestFetchMatch_Success tests fixture and odds from a preview
func TestFetchMatch_Success(t *testing.T) {
	setup := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, prepRadarBody)
	})

	preview, err := setup.client.FetchMatch(context.Background(), "9001")

	require.NoError(t, err)
	assert.Equal(t, "9001", preview.Fixture.ID)
	assert.Equal(t, "Palmeiras", preview.Fixture.HomeTeam)
	assert.Equal(t, "Santos", preview.Fixture.AwayTeam)
	assert.Equal(t, "Brasileirão Série A", preview.Fixture.League)
	assert.Equal(t, models.StatusScheduled, preview.Fixture.Status)
	assert.Equal(t, time.Unix(1760200200, 0).UTC(), preview.Fixture.StartTime)
	require.NotNil(t, preview.Odds)
	assert.Equal(t, 1.90, preview.Odds.Result.Home)
}

// TestGet_RetriesServerErrors tests recovery after a 5xx
func TestGet_RetriesServerErrors(t *testing.T) {
	var n atomic.Int32
	setup := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if n.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(w, prepRadarBody)
	})

	odds, err := setup.client.FetchOdds(context.Background(), "9001")

	require.NoError(t, err)
	assert.NotNil(t, odds)
	assert.Equal(t, int32(3), setup.calls.Load())
}

// TestGet_ServerErrorsExhausted tests that attempts are capped at three
func TestGet_ServerErrorsExhausted(t *testing.T) {
	setup := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := setup.client.FetchOdds(context.Background(), "1")

	assert.ErrorIs(t, err, models.ErrProviderUnavailable)
	assert.True(t, models.IsProviderOutage(err))
	assert.Equal(t, int32(3), setup.calls.Load())
}

// TestGet_RateLimited tests 429 handling and the rate-limited kind
func TestGet_RateLimited(t *testing.T) {
	setup := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := setup.client.FetchOdds(context.Background(), "1")

	assert.ErrorIs(t, err, models.ErrProviderRateLimited)
	assert.Equal(t, models.KindProviderRateLimited, models.KindOf(err))
	assert.Equal(t, int32(3), setup.calls.Load())
}

// TestGet_ForbiddenNotRetried tests that 403 fails immediately
func TestGet_ForbiddenNotRetried(t *testing.T) {
	setup := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := setup.client.FetchOdds(context.Background(), "1")

	assert.ErrorIs(t, err, models.ErrProviderForbidden)
	assert.Equal(t, int32(1), setup.calls.Load())
}

// TestGet_NotFoundIsEmpty tests that 404 maps to an empty response
func TestGet_NotFoundIsEmpty(t *testing.T) {
	setup := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := setup.client.FetchOdds(context.Background(), "1")

	assert.ErrorIs(t, err, models.ErrProviderEmpty)
	assert.False(t, models.IsProviderOutage(err))
	assert.Equal(t, int32(1), setup.calls.Load())
}

// TestGet_RepeatedTimeoutStops tests that a second timeout ends the call
func TestGet_RepeatedTimeoutStops(t *testing.T) {
	release := make(chan struct{})
	setup := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-time.After(time.Second):
		}
	})
	t.Cleanup(func() { close(release) })
	setup.client.timeout = 50 * time.Millisecond

	_, err := setup.client.FetchOdds(context.Background(), "1")

	assert.ErrorIs(t, err, models.ErrProviderUnavailable)
	assert.Equal(t, int32(2), setup.calls.Load())
}

// TestGet_CancelledBeforeCall tests that a cancelled context issues no request
func TestGet_CancelledBeforeCall(t *testing.T) {
	setup := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, prepRadarBody)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := setup.client.FetchOdds(ctx, "1")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), setup.calls.Load())
}

// TestGet_CancelledDuringBackoff tests that backoff waits honour cancellation
func TestGet_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	setup := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		cancel()
		w.WriteHeader(http.StatusInternalServerError)
	}, WithRetryPolicy(RetryPolicy{MaxAttempts: 3, BackoffBase: time.Minute}))

	_, err := setup.client.FetchOdds(ctx, "1")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), setup.calls.Load())
}

// TestReadBody_ContentEncodings tests gzip and brotli bodies
func TestReadBody_ContentEncodings(t *testing.T) {
	tests := []struct {
		name     string
		encoding string
		write    func(w http.ResponseWriter, body string)
	}{
		{
			name:     "gzip",
			encoding: "gzip",
			write: func(w http.ResponseWriter, body string) {
				gz := gzip.NewWriter(w)
				_, _ = gz.Write([]byte(body))
				_ = gz.Close()
			},
		},
		{
			name:     "brotli",
			encoding: "br",
			write: func(w http.ResponseWriter, body string) {
				br := brotli.NewWriter(w)
				_, _ = br.Write([]byte(body))
				_ = br.Close()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Encoding", tt.encoding)
				w.WriteHeader(http.StatusOK)
				tt.write(w, prepRadarBody)
			})

			odds, err := setup.client.FetchOdds(context.Background(), "9001")

			require.NoError(t, err)
			require.NotNil(t, odds)
			assert.Equal(t, 4.5, odds.Result.Away)
		})
	}
}
