// Package remote mirrors the library to another ReelTrack backend over its
// legacy /api/library routes.
package remote

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

	"github.com/HO1806/reeltrack/internal/domain"
	"github.com/HO1806/reeltrack/internal/metrics"
)

const (
	providerName   = "remote"
	defaultTimeout = 15 * time.Second
)

// ErrNotConfigured is returned when no mirror URL is set.
var ErrNotConfigured = errors.New("remote: no base URL configured")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Op     string
	Status int
	// Message is the backend's {"error": ...} text when present.
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote %s: status %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("remote %s: status %d", e.Op, e.Status)
}

// IsNotFound reports whether err is a 404 from the mirror.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

// Client talks to a mirror backend.
type Client struct {
	http    *http.Client
	baseURL string
	logger  *slog.Logger
}

// New creates a mirror client for baseURL (for example http://localhost:5000).
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Configured reports whether a base URL is set.
func (c *Client) Configured() bool {
	return c != nil && c.baseURL != ""
}

// List returns every entry the mirror holds.
func (c *Client) List(ctx context.Context) ([]domain.Entry, error) {
	var entries []domain.Entry
	if err := c.do(ctx, "list", http.MethodGet, "/api/library", nil, &entries); err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Normalize()
	}
	return entries, nil
}

// Upsert creates or replaces an entry.
func (c *Client) Upsert(ctx context.Context, e domain.Entry) error {
	return c.do(ctx, "upsert", http.MethodPost, "/api/library", e, nil)
}

// Update replaces the entry with the given id.
func (c *Client) Update(ctx context.Context, id string, e domain.Entry) error {
	return c.do(ctx, "update", http.MethodPut, "/api/library/"+url.PathEscape(id), e, nil)
}

// Delete removes an entry.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "delete", http.MethodDelete, "/api/library/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, body, dest any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("remote %s: encode: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("remote %s: create request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	err = c.execute(req, op, dest)
	metrics.RecordProviderRequest(providerName, err, time.Since(start))
	return err
}

func (c *Client) execute(req *http.Request, op string, dest any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("remote %s: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("remote %s: read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Op: op, Status: resp.StatusCode}
		var body struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &body) == nil {
			se.Message = body.Error
		}
		return se
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("remote %s: decode response: %w", op, err)
	}
	return nil
}
