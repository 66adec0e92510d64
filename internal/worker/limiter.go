package worker

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter implements per-key rate limiting. Keys that parse as URLs
// with a host are limited per host; any other key (a provider name,
// a file path) is limited by its own value.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a new rate limiter. A non-positive rate disables limiting.
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
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Wait waits for rate limit clearance for the given key
func (l *Limiter) Wait(ctx context.Context, key string) error {
	return l.getLimiter(bucket(key)).Wait(ctx)
}

// getLimiter returns the rate limiter for a bucket
func (l *Limiter) getLimiter(name string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[name]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := l.limiters[name]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[name] = limiter

	return limiter
}

// SetRate overrides the rate for one host or key. A non-positive rate lifts the limit.
func (l *Limiter) SetRate(key string, requestsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}

	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}
	l.limiters[bucket(key)] = rate.NewLimiter(limit, burst)
}

// bucket maps a key onto its limiter name
func bucket(key string) string {
	parsed, err := url.Parse(key)
	if err != nil || parsed.Host == "" {
		return key
	}
	return parsed.Host
}

// WaitWithDelay waits for rate limit and adds an additional delay
func (l *Limiter) WaitWithDelay(ctx context.Context, key string, additionalDelay time.Duration) error {
	if err := l.Wait(ctx, key); err != nil {
		return err
	}

	if additionalDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(additionalDelay):
		}
	}

	return nil
}
