// Package source reads the authoritative timezone from a downstream data
// service so stored ranges can be realigned to it.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
)

const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 10 * time.Second

	// DefaultAttempts is how many times a zone fetch is tried.
	DefaultAttempts = 4

	maxBodySize = 64 << 10
)

// ErrNoZone is returned when the source responds without a timezone field.
var ErrNoZone = errors.New("source reported no timezone")

// zoneResponse accepts either field name used by downstream services.
type zoneResponse struct {
	Timezone string `json:"timezone"`
	TZ       string `json:"tz"`
}

// Client fetches a zone name from a downstream source URL.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
	attempts   uint
	delay      time.Duration
}

// NewClient creates a client for url. A zero timeout means DefaultHTTPTimeout.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     slog.Default(),
		attempts:   DefaultAttempts,
		delay:      250 * time.Millisecond,
	}
}

// WithBaseURL returns a new Client with the specified URL.
// Useful for testing with mock servers.
func (c *Client) WithBaseURL(url string) *Client {
	cp := *c
	cp.url = url
	return &cp
}

// WithHTTPClient returns a new Client with the specified HTTP client.
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	cp := *c
	cp.httpClient = client
	return &cp
}

// WithLogger returns a new Client that logs retries to logger.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	cp := *c
	cp.logger = logger
	return &cp
}

// WithRetry returns a new Client with the given attempt count and base delay.
func (c *Client) WithRetry(attempts uint, delay time.Duration) *Client {
	cp := *c
	cp.attempts = attempts
	cp.delay = delay
	return &cp
}

// URL returns the source endpoint.
func (c *Client) URL() string {
	return c.url
}

// Zone fetches the source's timezone. Rate limits, server errors and network
// failures are retried with jittered backoff; other client errors and
// malformed bodies fail immediately.
func (c *Client) Zone(ctx context.Context) (string, error) {
	if c.url == "" {
		return "", errors.New("source url not configured")
	}

	var zone string
	err := retry.Do(
		func() error {
			z, err := c.fetch(ctx)
			if err != nil {
				return err
			}
			zone = z
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.MaxDelay(10*time.Second),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("retrying zone fetch",
				"url", c.url,
				"attempt", n+1,
				"error", err,
			)
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", fmt.Errorf("fetching zone from %s: %w", c.url, err)
	}

	c.logger.Debug("fetched source zone", "url", c.url, "timezone", zone)
	return zone, nil
}

func (c *Client) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, http.NoBody)
	if err != nil {
		return "", retry.Unrecoverable(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", err
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	case resp.StatusCode != http.StatusOK:
		return "", retry.Unrecoverable(fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var zr zoneResponse
	if err := json.Unmarshal(body, &zr); err != nil {
		return "", retry.Unrecoverable(fmt.Errorf("decoding response: %w", err))
	}
	zone := strings.TrimSpace(zr.Timezone)
	if zone == "" {
		zone = strings.TrimSpace(zr.TZ)
	}
	if zone == "" {
		return "", retry.Unrecoverable(ErrNoZone)
	}
	return zone, nil
}
