// Package tmdb is a rate-limited, circuit-broken client for The Movie Database API.
package tmdb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/HO1806/reeltrack/internal/breaker"
	"github.com/HO1806/reeltrack/internal/metadata/cache"
	"github.com/HO1806/reeltrack/internal/metrics"
	"github.com/HO1806/reeltrack/internal/ratelimit"
)

const (
	providerName = "tmdb"

	defaultBaseURL      = "https://api.themoviedb.org/3"
	defaultImageBaseURL = "https://image.tmdb.org/t/p/w500"
	backdropBaseURL     = "https://image.tmdb.org/t/p/w780"
	defaultTimeout      = 10 * time.Second
	defaultSpacing      = 300 * time.Millisecond

	castLimit = 5
)

// Config configures the client.
type Config struct {
	APIKey         string
	BaseURL        string
	ImageBaseURL   string
	Timeout        time.Duration
	RequestSpacing time.Duration
}

// Client is a TMDB API client. Every request waits on a shared spacing
// limiter, runs through a circuit breaker, and is cached when a cache is set.
type Client struct {
	http         *http.Client
	baseURL      string
	imageBaseURL string
	apiKey       string

	limiter *ratelimit.KeyedRateLimiter
	breaker *gobreaker.CircuitBreaker[[]byte]
	cache   *cache.Cache
	logger  *slog.Logger
}

// New creates a TMDB client. c may be nil to disable response caching.
func New(cfg Config, c *cache.Cache, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = defaultImageBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RequestSpacing < 0 {
		cfg.RequestSpacing = defaultSpacing
	}

	return &Client{
		http:         &http.Client{Timeout: cfg.Timeout},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(cfg.ImageBaseURL, "/"),
		apiKey:       cfg.APIKey,
		limiter:      ratelimit.NewSpacing(cfg.RequestSpacing),
		breaker:      breaker.New[[]byte](providerName, breaker.DefaultConfig(), logger, isLookupMiss),
		cache:        c,
		logger:       logger,
	}
}

// Configured reports whether the client has an API key.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// get fetches path and decodes the JSON body into dest.
func (c *Client) get(ctx context.Context, path string, query url.Values, dest any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	cacheKey := providerName + ":" + path
	if len(query) > 0 {
		cacheKey += "?" + query.Encode()
	}

	body, err := cache.Fetch(c.cache, cacheKey, func() ([]byte, error) {
		return c.breaker.Execute(func() ([]byte, error) {
			return c.doRequest(ctx, path, query)
		})
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// doRequest executes an HTTP request with rate limiting.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx, providerName); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ReelTrack/1.0")

	c.logger.Debug("tmdb request", "path", path)

	start := time.Now()
	body, err := c.execute(req)
	metrics.RecordProviderRequest(providerName, err, time.Since(start))
	return body, err
}

func (c *Client) execute(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusBadRequest:
		return nil, ErrBadRequest
	default:
		if resp.StatusCode >= 500 {
			return nil, ErrServer
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
}

func (c *Client) imageURL(path string) string {
	if path == "" {
		return ""
	}
	return c.imageBaseURL + path
}
