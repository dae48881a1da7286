package worker

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Limiter hands out per-key rate limiters. Keys are hostnames for the
// ingest fetcher and provider names for explanation requests.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	delays       map[string]time.Duration
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a limiter with the given default rate for unseen keys.
// A non-positive rate means unlimited.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		delays:       make(map[string]time.Duration),
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Wait blocks until key has a token available, then sleeps for any extra
// delay registered for key.
func (l *Limiter) Wait(ctx context.Context, key string) error {
	if err := l.get(key).Wait(ctx); err != nil {
		return eris.Wrapf(err, "rate limit wait for %s", key)
	}

	return sleep(ctx, l.delay(key))
}

// WaitURL is Wait keyed by the host of rawURL.
func (l *Limiter) WaitURL(ctx context.Context, rawURL string) error {
	host, err := HostOf(rawURL)
	if err != nil {
		return err
	}
	return l.Wait(ctx, host)
}

// Allow reports whether key may proceed now, consuming a token if so.
func (l *Limiter) Allow(key string) bool {
	return l.get(key).Allow()
}

// SetRate overrides the rate for one key.
func (l *Limiter) SetRate(key string, requestsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}

	l.limiters[normalizeKey(key)] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

// SetDelay registers an extra pause applied after every Wait on key,
// typically a robots.txt Crawl-delay.
func (l *Limiter) SetDelay(key string, d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if d <= 0 {
		delete(l.delays, normalizeKey(key))
		return
	}
	l.delays[normalizeKey(key)] = d
}

func (l *Limiter) delay(key string) time.Duration {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.delays[normalizeKey(key)]
}

func (l *Limiter) get(key string) *rate.Limiter {
	key = normalizeKey(key)

	l.mu.RLock()
	limiter, exists := l.limiters[key]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := l.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[key] = limiter

	return limiter
}

// HostOf returns the lower-cased host of rawURL.
func HostOf(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", eris.Wrapf(err, "parse url %q", rawURL)
	}
	if parsed.Host == "" {
		return "", eris.Errorf("url %q has no host", rawURL)
	}
	return normalizeKey(parsed.Host), nil
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
