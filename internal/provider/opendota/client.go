// Package opendota provides the HTTP client for the OpenDota API, the
// upstream statistics provider for match lists, full match payloads and the
// hero/item reference catalogs.
//
// Every request is throttled by a token bucket, bounded by a per-request
// timeout, and routed through a circuit breaker so a failing provider is
// skipped quickly instead of stalling each enrichment fetch.
package opendota

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public OpenDota API root.
const DefaultBaseURL = "https://api.opendota.com/api"

// ErrNotFound is returned when the provider has no such resource.
var ErrNotFound = errors.New("opendota: not found")

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL           string
	APIKey            string
	RequestsPerMinute int
	Timeout           time.Duration
	// BreakerFailureRatio trips the breaker once at least breakerMinRequests
	// requests were seen in the current interval.
	BreakerFailureRatio float64
	BreakerOpenTimeout  time.Duration
	HTTPClient          *http.Client
}

const (
	defaultRequestsPerMinute = 1200
	defaultTimeout           = 8 * time.Second
	defaultFailureRatio      = 0.6
	defaultOpenTimeout       = 30 * time.Second
	breakerMinRequests       = 5
)

// Client is the shared HTTP client for all OpenDota endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	timeout    time.Duration
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

// NewClient creates an OpenDota client with rate limiting and a circuit breaker.
func NewClient(opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = defaultRequestsPerMinute
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.BreakerFailureRatio <= 0 {
		opts.BreakerFailureRatio = defaultFailureRatio
	}
	if opts.BreakerOpenTimeout <= 0 {
		opts.BreakerOpenTimeout = defaultOpenTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		// The per-request context deadline is the real bound; this is a backstop.
		httpClient = &http.Client{Timeout: 2 * opts.Timeout}
	}

	rps := float64(opts.RequestsPerMinute) / 60.0
	burst := opts.RequestsPerMinute / 60
	if burst < 1 {
		burst = 1
	}

	ratio := opts.BreakerFailureRatio
	settings := gobreaker.Settings{
		Name:        "opendota",
		MaxRequests: 1,
		Timeout:     opts.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= breakerMinRequests && failureRatio >= ratio
		},
		IsSuccessful: func(err error) bool {
			// A missing match is an answer, not an outage.
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    opts.BaseURL,
		apiKey:     opts.APIKey,
		timeout:    opts.Timeout,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		breaker:    gobreaker.NewCircuitBreaker(settings),
		logger:     logger,
	}
}

// BreakerState reports the circuit breaker state for health output.
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

// get performs a rate-limited, time-bounded GET and decodes the body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.do(ctx, path, params, out)
	})
	return err
}

func (c *Client) do(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	c.logger.Debug("OpenDota request", "path", path, "status", resp.StatusCode,
		"duration", time.Since(start).Round(time.Millisecond))

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("OpenDota %s returned %d: %s", path, resp.StatusCode, truncate(body, 200))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
