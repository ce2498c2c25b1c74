// Package collyfetcher implements harvest.Fetcher using the Colly
// collector with a bounded retry and exponential backoff budget.
package collyfetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/Iasm789/event-mospolytech-bot/internal/harvest"
)

// maxBackoff caps the delay between attempts.
const maxBackoff = 30 * time.Second

// Config controls fetch behavior.
type Config struct {
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	BaseDelay  time.Duration
}

// Fetcher implements harvest.Fetcher. One listing page per call; no
// caching, no link following.
type Fetcher struct {
	cfg    Config
	base   *colly.Collector
	logger *zap.Logger
	wait   func(ctx context.Context, d time.Duration) error
}

// New builds a Fetcher.
func New(cfg Config, logger *zap.Logger) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 2 * time.Second
	}

	// Synchronous collection is the default; colly v2.1.0's Async option
	// ignores its argument and would force async mode if passed here.
	c := colly.NewCollector()
	c.IgnoreRobotsTxt = true
	c.AllowURLRevisit = true
	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}
	c.SetRequestTimeout(cfg.Timeout)
	c.WithTransport(newHTTPTransport())

	return &Fetcher{
		cfg:    cfg,
		base:   c,
		logger: logger,
		wait:   sleepContext,
	}
}

// Fetch retrieves a listing page, retrying transport failures and non-200
// statuses. The delay before attempt k+1 is min(baseDelay*2^k, 30s).
// After the budget is exhausted a typed harvest.FetchError is returned.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var (
		lastErr  error
		lastKind harvest.FetchErrorKind
	)
	for attempt := 0; attempt < f.cfg.MaxRetries; attempt++ {
		harvest.TotalFetchAttempts.Inc()
		body, status, err := f.attempt(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		lastKind = classify(err, status)
		f.logger.Warn("fetch attempt failed",
			zap.String("url", url),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", f.cfg.MaxRetries),
			zap.Int("status", status),
			zap.Error(err),
		)
		if ctx.Err() != nil {
			break
		}
		if attempt < f.cfg.MaxRetries-1 {
			if werr := f.wait(ctx, f.backoff(attempt)); werr != nil {
				break
			}
		}
	}
	harvest.TotalFetchFailures.Inc()
	return "", &harvest.FetchError{Kind: lastKind, Attempts: f.cfg.MaxRetries, Err: lastErr}
}

func (f *Fetcher) attempt(ctx context.Context, url string) (string, int, error) {
	collector := f.base.Clone()

	var (
		body   string
		status int
		cbErr  error
	)
	collector.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
		status = r.StatusCode
	})
	collector.OnError(func(r *colly.Response, err error) {
		cbErr = err
		if r != nil {
			status = r.StatusCode
		}
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return "", 0, fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return "", status, fmt.Errorf("visit %s: %w", url, err)
		}
		if cbErr != nil {
			return "", status, fmt.Errorf("visit %s: %w", url, cbErr)
		}
		if status != http.StatusOK {
			return "", status, fmt.Errorf("visit %s: unexpected status %d", url, status)
		}
		return body, status, nil
	}
}

func (f *Fetcher) backoff(attempt int) time.Duration {
	d := f.cfg.BaseDelay << uint(attempt)
	if d <= 0 || d > maxBackoff {
		return maxBackoff
	}
	return d
}

func classify(err error, status int) harvest.FetchErrorKind {
	if status != 0 && status != http.StatusOK {
		return harvest.FetchHTTPStatus
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return harvest.FetchTimeout
	}
	return harvest.FetchTransport
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
