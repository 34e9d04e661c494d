// Package gemini asks Google's Gemini model for title suggestions based on
// the library's taste profile.
package gemini

import (
	"bytes"
	"context"
	"errors"
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
	"github.com/HO1806/reeltrack/internal/domain"
	"github.com/HO1806/reeltrack/internal/metrics"
)

const (
	providerName = "gemini"

	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.0-flash"
	defaultTimeout = 60 * time.Second
)

// Sentinel errors.
var (
	ErrNotConfigured   = errors.New("gemini: no API key configured")
	ErrUnauthorized    = errors.New("gemini: invalid API key")
	ErrRateLimited     = errors.New("gemini: rate limited by server")
	ErrServer          = errors.New("gemini: server error")
	ErrEmptyResponse   = errors.New("gemini: no suggestions returned")
	ErrInvalidResponse = errors.New("gemini: invalid JSON returned from model")
)

// Config configures the client.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client calls the generateContent endpoint.
type Client struct {
	http    *http.Client
	baseURL string
	model   string
	apiKey  string
	breaker *gobreaker.CircuitBreaker[string]
	logger  *slog.Logger
}

// New creates a Gemini client.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
		breaker: breaker.New[string](providerName, breaker.DefaultConfig(), logger, isReplyError),
		logger:  logger,
	}
}

// Configured reports whether the client has an API key.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// Suggest builds the taste prompt for library and returns the parsed suggestions.
func (c *Client) Suggest(ctx context.Context, library []domain.Entry) ([]domain.Suggestion, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	text, err := c.breaker.Execute(func() (string, error) {
		return c.generate(ctx, BuildPrompt(library))
	})
	if err != nil {
		return nil, err
	}

	suggestions, err := ParseSuggestions(text)
	if err != nil {
		c.logger.Warn("failed to parse gemini response", "error", err, "length", len(text))
		return nil, err
	}
	return suggestions, nil
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	text, err := c.execute(req)
	metrics.RecordProviderRequest(providerName, err, time.Since(start))
	return text, err
}

func (c *Client) execute(req *http.Request) (string, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", ErrRateLimited
	case resp.StatusCode >= 500:
		return "", ErrServer
	default:
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(data))
	}

	var gr generateResponse
	if err := json.Unmarshal(data, &gr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	var b strings.Builder
	for _, cand := range gr.Candidates {
		for _, p := range cand.Content.Parts {
			b.WriteString(p.Text)
		}
		if b.Len() > 0 {
			break
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}

// isReplyError reports failures caused by the reply, not the provider's availability.
func isReplyError(err error) bool {
	return errors.Is(err, ErrEmptyResponse)
}
