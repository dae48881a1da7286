package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/esgtrace/internal/model"
	"github.com/ppiankov/esgtrace/internal/util"
	"github.com/ppiankov/esgtrace/internal/worker"
)

// ErrDisallowed is returned when robots.txt forbids a URL
var ErrDisallowed = eris.New("disallowed by robots.txt")

// Fetcher downloads remote documents politely: robots.txt, per-host rate
// limits and a bounded body size.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *RobotsChecker
	limiter    *worker.Limiter
	backoff    time.Duration // First retry delay, doubled per attempt
}

// fetchMaxRetries bounds attempts per URL
const fetchMaxRetries = 3

// NewFetcher creates a fetcher from the HTTP and rate limiting settings
func NewFetcher(cfg model.HTTPConfig, rl model.RateLimitingConfig) *Fetcher {
	client := util.NewHTTPClient(cfg)
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= 3 {
			return fmt.Errorf("stopped after 3 redirects")
		}
		return nil
	}

	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}

	f := &Fetcher{
		httpClient: client,
		userAgent:  cfg.UserAgent,
		maxBytes:   maxBytes,
		limiter:    worker.NewLimiter(rl.RequestsPerSecond, rl.BurstSize),
		backoff:    time.Second,
	}
	if cfg.RespectRobots {
		f.robots = NewRobotsChecker(client, cfg.UserAgent)
	}
	return f
}

// Document is a fetched body with its content type
type Document struct {
	URL         string
	FinalURL    string
	ContentType string
	Body        []byte
}

// Fetch retrieves rawURL. Server errors, 429 and transient network
// failures are retried with exponential backoff.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	host, err := worker.HostOf(rawURL)
	if err != nil {
		return nil, err
	}

	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, eris.Wrapf(ErrDisallowed, "fetch %s", rawURL)
		}
		f.limiter.SetDelay(host, delay)
	}

	var lastErr error
	for attempt := 0; attempt < fetchMaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * f.backoff
			zap.L().Debug("retrying fetch", zap.String("url", rawURL), zap.Int("attempt", attempt+1), zap.Duration("backoff", backoff))
			if err := sleepCtx(ctx, backoff); err != nil {
				return nil, err
			}
		}

		if err := f.limiter.Wait(ctx, host); err != nil {
			return nil, err
		}

		doc, status, err := f.fetchOnce(ctx, rawURL)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		if ctx.Err() != nil || !isRetryable(status, err) {
			break
		}
	}
	return nil, lastErr
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (*Document, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, 0, eris.Wrapf(err, "fetch %s", rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, eris.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, resp.StatusCode, eris.Wrapf(err, "read body of %s", rawURL)
	}

	zap.L().Debug("fetched",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
	)

	return &Document{
		URL:         rawURL,
		FinalURL:    resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, resp.StatusCode, nil
}

// isRetryable reports transient failures: 5xx, 429 and network timeouts
// or resets
func isRetryable(status int, err error) bool {
	if status >= 500 && status < 600 || status == http.StatusTooManyRequests {
		return true
	}
	if status != 0 {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "timeout") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset")
}

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
