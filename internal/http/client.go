// Package http wraps the standard client with the pacing and retry
// behavior every outbound scrape request must follow.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/refurbtrack/price-tracker/internal/http/ratelimit"
)

const userAgent = "Mozilla/5.0 (compatible; PriceTrackerBot/1.0)"

// Client is an HTTP client with request pacing and retry on transient
// failures. One client is shared across all competitor fetches so the
// pacing budget is global, not per-site-per-call.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	config     ratelimit.Config
}

// NewClient creates a client with the given pacing config.
func NewClient(config ratelimit.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst),
		config:     config,
	}
}

// NewClientDefault creates a client with the default polite pacing.
func NewClientDefault() *Client {
	return NewClient(ratelimit.DefaultConfig())
}

// Get performs a paced GET with retries.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	var lastStatus int
	var lastErr error
	attempts := 0

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for request slot: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("building request for %s: %w", url, err)
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*")

		attempts++
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < c.config.MaxRetries {
				if err := sleepCtx(ctx, ratelimit.CalculateBackoff(attempt, c.config)); err != nil {
					return nil, err
				}
				continue
			}
			break
		}

		lastStatus = resp.StatusCode
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		resp.Body.Close()
		if !ratelimit.IsRetryableStatus(resp.StatusCode) || attempt == c.config.MaxRetries {
			break
		}

		var backoff time.Duration
		if resp.StatusCode == http.StatusTooManyRequests {
			backoff = ratelimit.CalculateRateLimitBackoff(attempt, c.config, resp.Header.Get("Retry-After"))
		} else {
			backoff = ratelimit.CalculateBackoff(attempt, c.config)
		}
		if err := sleepCtx(ctx, backoff); err != nil {
			return nil, err
		}
	}

	return nil, &ratelimit.FetchRetryError{
		URL:        url,
		Attempts:   attempts,
		LastStatus: lastStatus,
		LastError:  lastErr,
	}
}

// GetBytes performs a paced GET and returns the full response body.
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body from %s: %w", url, err)
	}
	return data, nil
}

// PostJSON performs a paced POST with a JSON body and bearer auth,
// used for calls to the extraction model endpoint.
func (c *Client) PostJSON(ctx context.Context, url, bearerToken string, body io.Reader) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for request slot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+bearerToken)
	}

	return c.httpClient.Do(req)
}

// Config returns the pacing config the client was built with.
func (c *Client) Config() ratelimit.Config { return c.config }

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
