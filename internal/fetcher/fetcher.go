package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/novadev/novaauto-scraper/internal/ratelimit"
)

// StatusError reports a non-2xx response. It funnels into the same
// retry path as transport errors.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// Fetcher retrieves pages over a session-level HTTP client. Cookies
// persist across calls within one instance. Each attempt sends a
// freshly chosen user-agent from the configured pool.
type Fetcher struct {
	client     *http.Client
	limiter    ratelimit.Limiter
	userAgents []string
	maxRetries int
	referer    string
	logger     *slog.Logger

	// backoffUnit scales the 2^attempt backoff. Tests shrink it.
	backoffUnit time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
}

type Options struct {
	Timeout    time.Duration
	MaxRetries int
	UserAgents []string
	Referer    string
}

func New(opts Options, limiter ratelimit.Limiter, logger *slog.Logger) *Fetcher {
	jar, _ := cookiejar.New(nil)

	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
			Jar:     jar,
		},
		limiter:     limiter,
		userAgents:  opts.UserAgents,
		maxRetries:  opts.MaxRetries,
		referer:     opts.Referer,
		logger:      logger.With("component", "fetcher"),
		backoffUnit: time.Second,
		sleep:       sleepCtx,
	}
}

// Fetch performs up to maxRetries GET attempts against url and returns
// the response body. Between failed attempts it sleeps 2^i backoff
// units (i starting at 0); after the last attempt the last error is
// returned.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error

	for attempt := 0; attempt < f.maxRetries; attempt++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return "", err
		}

		body, err := f.doRequest(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		f.logger.Warn("fetch attempt failed", "url", url, "attempt", attempt+1, "error", err)

		if attempt == f.maxRetries-1 {
			break
		}

		backoff := time.Duration(1<<uint(attempt)) * f.backoffUnit
		if err := f.sleep(ctx, backoff); err != nil {
			return "", err
		}
	}

	f.logger.Error("max retries reached", "url", url, "retries", f.maxRetries)
	return "", lastErr
}

func (f *Fetcher) doRequest(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("User-Agent", f.randomUserAgent())
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if f.referer != "" {
		req.Header.Set("Referer", f.referer)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	return string(body), nil
}

func (f *Fetcher) randomUserAgent() string {
	if len(f.userAgents) == 0 {
		return ""
	}
	return f.userAgents[rand.Intn(len(f.userAgents))]
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
