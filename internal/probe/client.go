package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const maxErrorBody = 512

// StatusError is a non-200 answer from the service.
type StatusError struct {
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d: %s", e.Path, e.Status, e.Body)
}

// client wraps http.Client with the base URL and year query.
type client struct {
	http *http.Client
	base string
	year int
}

func newClient(cfg *Config) *client {
	return &client{
		http: &http.Client{Timeout: cfg.Timeout},
		base: strings.TrimRight(cfg.BaseURL, "/"),
		year: cfg.Year,
	}
}

// get fetches path and decodes the JSON body into out. A nil out discards
// the body.
func (c *client) get(ctx context.Context, path string, out any) error {
	u := c.base + path
	if c.year > 0 && strings.HasPrefix(path, "/v1/") {
		u += "?" + url.Values{"year": {strconv.Itoa(c.year)}}.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decode: %w", path, err)
	}
	return nil
}

// timed runs fn and returns its latency alongside the error.
func timed(fn func() error) (time.Duration, error) {
	start := time.Now()
	err := fn()
	return time.Since(start), err
}
