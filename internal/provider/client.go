package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/cypherlabdev/value-bet-service/internal/metrics"
	"github.com/cypherlabdev/value-bet-service/internal/models"
)

const (
	defaultRequestTimeout = 10 * time.Second
	defaultUserAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	defaultAcceptLanguage = "en-US,en;q=0.9"

	// consecutive timeouts after which a call gives up without further attempts
	maxTimeouts = 2
)

// Endpoint labels used in logs and metrics
const (
	endpointDailyRadar = "daily_radar"
	endpointPrepRadar  = "prep_radar"
	endpointGoalRadar  = "goal_radar"
)

// RetryPolicy controls how a single provider call is retried
type RetryPolicy struct {
	MaxAttempts    int
	BackoffBase    time.Duration // wait before attempt n+1 is BackoffBase * 2^(n-1)
	MaxJitter      time.Duration // random extra wait per attempt, at most this much
	RateLimitDelay time.Duration // after a 429 the wait is RateLimitDelay * attempt
}

// DefaultRetryPolicy is three attempts with 1s, 2s backoff and up to 500ms jitter
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		BackoffBase:    time.Second,
		MaxJitter:      500 * time.Millisecond,
		RateLimitDelay: 5 * time.Second,
	}
}

// ClientConfig holds provider client configuration
type ClientConfig struct {
	BaseURL           string        // e.g., "https://api.example.com/v1"
	RequestTimeout    time.Duration // per attempt
	UserAgent         string
	Referer           string
	AcceptLanguage    string
	RequestsPerSecond float64 // 0 disables client-side rate limiting
	Burst             int
	Retry             RetryPolicy
}

// Client is the upstream sports-data API client
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
	retry      RetryPolicy
	headers    http.Header
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithRetryPolicy overrides the configured retry policy
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *Client) {
		c.retry = policy
	}
}

// WithMetrics records request metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a new provider client
func NewClient(config ClientConfig, logger zerolog.Logger, opts ...Option) *Client {
	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	retry := config.Retry
	if retry.MaxAttempts <= 0 {
		retry = DefaultRetryPolicy()
	}

	c := &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				// bodies are decoded by readBody so brotli can be negotiated too
				DisableCompression: true,
			},
		},
		timeout: timeout,
		retry:   retry,
		headers: browserHeaders(config),
		logger:  logger.With().Str("component", "provider_client").Logger(),
	}
	if config.RequestsPerSecond > 0 {
		burst := config.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), burst)
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func browserHeaders(config ClientConfig) http.Header {
	h := http.Header{}
	h.Set("User-Agent", orDefault(config.UserAgent, defaultUserAgent))
	h.Set("Accept", "application/json, text/plain, */*")
	h.Set("Accept-Language", orDefault(config.AcceptLanguage, defaultAcceptLanguage))
	h.Set("Accept-Encoding", "gzip, deflate, br")
	h.Set("Cache-Control", "no-cache")
	if config.Referer != "" {
		h.Set("Referer", config.Referer)
		h.Set("Origin", strings.TrimRight(config.Referer, "/"))
	}
	return h
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// get performs a GET with retries and returns the decoded response body
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values) ([]byte, error) {
	start := time.Now()
	body, err := c.getWithRetry(ctx, endpoint, path, params)
	c.metrics.RecordProviderRequest(endpoint, outcomeOf(err), time.Since(start))
	return body, err
}

func (c *Client) getWithRetry(ctx context.Context, endpoint, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var lastErr error
	timeouts := 0
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limiter: %w", err)
			}
		}

		status, body, err := c.fetch(ctx, u)

		var reason string
		var wait time.Duration
		switch {
		case err != nil && isTimeout(err):
			timeouts++
			lastErr = fmt.Errorf("%w: %s timed out: %v", models.ErrProviderUnavailable, endpoint, err)
			if timeouts >= maxTimeouts {
				return nil, lastErr
			}
			reason, wait = "timeout", c.backoff(attempt)
		case err != nil:
			lastErr = fmt.Errorf("%w: %s: %v", models.ErrProviderUnavailable, endpoint, err)
			reason, wait = "network", c.backoff(attempt)
		case status >= 200 && status < 300:
			return body, nil
		case status == http.StatusForbidden:
			return nil, fmt.Errorf("%w: %s returned %d", models.ErrProviderForbidden, endpoint, status)
		case status == http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s returned %d", models.ErrProviderEmpty, endpoint, status)
		case status == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("%w: %s returned %d", models.ErrProviderRateLimited, endpoint, status)
			reason, wait = "status_429", c.retry.RateLimitDelay*time.Duration(attempt)
		case status >= 500:
			lastErr = fmt.Errorf("%w: %s returned %d", models.ErrProviderUnavailable, endpoint, status)
			reason, wait = "status_5xx", c.backoff(attempt)
		default:
			return nil, fmt.Errorf("%w: %s returned %d", models.ErrProviderUnavailable, endpoint, status)
		}

		if attempt == c.retry.MaxAttempts {
			break
		}

		c.metrics.RecordProviderRetry(endpoint, reason)
		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("attempt", attempt).
			Int("status", status).
			Str("reason", reason).
			Dur("wait", wait).
			Msg("retrying provider request")

		if err := sleep(ctx, wait); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

// fetch runs one attempt. The attempt is detached from ctx cancellation so
// an in-flight request is never interrupted; only the request timeout bounds it.
func (c *Client) fetch(ctx context.Context, u string) (int, []byte, error) {
	reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range c.headers {
		req.Header[k] = v
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return resp.StatusCode, nil, nil
	}

	body, err := readBody(resp)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

func (c *Client) backoff(attempt int) time.Duration {
	wait := c.retry.BackoffBase << (attempt - 1)
	if c.retry.MaxJitter > 0 {
		wait += rand.N(c.retry.MaxJitter + 1)
	}
	return wait
}

// sleep waits for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	return string(models.KindOf(err))
}
