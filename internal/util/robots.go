package util

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"github.com/temoto/robotstxt"
	"go.uber.org/zap"
)

// RobotsChecker checks robots.txt compliance, caching one ruleset per host
type RobotsChecker struct {
	cache      map[string]*robotstxt.RobotsData
	mu         sync.RWMutex
	httpClient *http.Client
	userAgent  string
}

// NewRobotsChecker creates a new robots.txt checker. transport may be nil.
func NewRobotsChecker(userAgent string, timeout time.Duration, transport http.RoundTripper) *RobotsChecker {
	return &RobotsChecker{
		cache: make(map[string]*robotstxt.RobotsData),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		userAgent: userAgent,
	}
}

// CanFetch checks if the URL can be fetched according to robots.txt.
// Returns (allowed, crawlDelay, error). An unreachable robots.txt allows the fetch.
func (r *RobotsChecker) CanFetch(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, 0, eris.Wrap(err, "parse URL")
	}

	robotsURL := parsed.Scheme + "://" + parsed.Host + "/robots.txt"

	data, err := r.getRobotsData(ctx, parsed.Host, robotsURL)
	if err != nil {
		zap.L().Warn("robots.txt unavailable, allowing fetch", zap.String("host", parsed.Host), zap.Error(err))
		return true, 0, nil
	}

	agent := NormalizeUserAgent(r.userAgent)
	allowed := data.TestAgent(parsed.EscapedPath(), agent)

	crawlDelay := time.Duration(0)
	if group := data.FindGroup(agent); group != nil {
		crawlDelay = group.CrawlDelay
	}

	return allowed, crawlDelay, nil
}

// getRobotsData fetches and caches robots.txt data
func (r *RobotsChecker) getRobotsData(ctx context.Context, host string, robotsURL string) (*robotstxt.RobotsData, error) {
	r.mu.RLock()
	data, exists := r.cache[host]
	r.mu.RUnlock()

	if exists {
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "fetch robots.txt")
	}
	defer func() { _ = resp.Body.Close() }()

	// FromResponse maps 4xx to allow-all and 5xx to disallow-all
	data, err = robotstxt.FromResponse(resp)
	if err != nil {
		return nil, eris.Wrap(err, "parse robots.txt")
	}

	r.mu.Lock()
	r.cache[host] = data
	r.mu.Unlock()

	return data, nil
}

// Clear clears the robots.txt cache
func (r *RobotsChecker) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]*robotstxt.RobotsData)
}

// NormalizeUserAgent reduces a user agent string to its product token for robots.txt matching
func NormalizeUserAgent(ua string) string {
	parts := strings.Fields(ua)
	if len(parts) > 0 {
		return strings.Split(parts[0], "/")[0]
	}
	return ua
}
