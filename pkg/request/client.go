// Package request provides the HTTP download client used by the background
// refreshers. Downloads are bounded by a timeout, retried with exponential
// backoff, and rate-limited per host so a tight refresh loop can never
// hammer an upstream API.
package request

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"voiceatis/pkg/version"
)

var defaultUserAgent = fmt.Sprintf("voiceatis/%s (IVAO voice ATIS client)", version.Version)

// ClientConfig holds the tunables for a Client.
type ClientConfig struct {
	Retries   int
	Timeout   time.Duration
	BaseDelay time.Duration
	MaxDelay  time.Duration
	// RatePerMinute caps requests per host. Zero disables the limiter.
	RatePerMinute int
}

// Client performs GET downloads with retry, backoff and per-host rate limits.
type Client struct {
	httpClient *http.Client
	cfg        ClientConfig
	backoff    *HostBackoff
	logger     *slog.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// New creates a new Client. logger may be nil, in which case the default
// slog logger is used.
func New(cfg ClientConfig, logger *slog.Logger) *Client {
	if cfg.Retries <= 0 {
		cfg.Retries = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		backoff:    NewHostBackoff(cfg.BaseDelay, cfg.MaxDelay),
		logger:     logger,
		limiters:   make(map[string]*rate.Limiter),
	}
}

// Get downloads the URL and returns the response body.
func (c *Client) Get(ctx context.Context, u string) ([]byte, error) {
	parsedURL, err := url.Parse(u)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	host := parsedURL.Host

	if lim := c.limiter(host); lim != nil {
		if err := lim.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var lastErr error
	for attempt := 1; attempt <= c.cfg.Retries; attempt++ {
		if err := c.backoff.Wait(ctx, host); err != nil {
			return nil, err
		}

		body, err := c.getOnce(ctx, u)
		if err == nil {
			c.backoff.RecordSuccess(host)
			return body, nil
		}
		lastErr = err
		c.backoff.RecordFailure(host)
		c.logger.Warn("download failed", "url", u, "attempt", attempt, "error", err)

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("download failed after %d attempts: %w", c.cfg.Retries, lastErr)
}

func (c *Client) getOnce(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	c.logger.Info("download ok", "url", u, "bytes", len(body), "duration", time.Since(start).Round(time.Millisecond))
	return body, nil
}

func (c *Client) limiter(host string) *rate.Limiter {
	if c.cfg.RatePerMinute <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	lim, ok := c.limiters[host]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(float64(c.cfg.RatePerMinute)/60.0), c.cfg.RatePerMinute)
		c.limiters[host] = lim
	}
	return lim
}
