package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/contractlens/internal/model"
	"github.com/ppiankov/contractlens/internal/util"
	"github.com/ppiankov/contractlens/internal/worker"
)

const (
	maxRedirects  = 3
	fetchAttempts = 3
)

// fetchSleep waits between attempts; tests replace it
var fetchSleep = func(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// StatusError is a non-2xx HTTP response
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("document: unexpected status %d %s fetching %s", e.Code, http.StatusText(e.Code), e.URL)
}

// transportError is a failure before any response arrived
type transportError struct {
	err error
}

func (e *transportError) Error() string { return "document: fetch: " + e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

// isRetryable reports whether a failed attempt may succeed when repeated:
// server errors, 429 and transport failures, unless the caller gave up.
func isRetryable(ctx context.Context, err error) bool {
	if err == nil || ctx.Err() != nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	var te *transportError
	return errors.As(err, &te)
}

// Fetcher downloads contract documents over HTTP
type Fetcher struct {
	httpClient *http.Client
	robots     *util.RobotsChecker // nil when robots.txt is ignored
	limiter    *worker.Limiter
	userAgent  string
	maxBytes   int64
}

// FetchResult contains the fetched bytes and response metadata
type FetchResult struct {
	Body        []byte
	ContentType string
	StatusCode  int
	FinalURL    string
}

// NewFetcher creates a Fetcher from document configuration
func NewFetcher(cfg model.DocumentConfig) *Fetcher {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	transport := &http.Transport{Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy)}

	f := &Fetcher{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return eris.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		limiter:   worker.NewLimiter(cfg.RequestsPerSecond, 1),
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBytes,
	}
	for host, rps := range cfg.HostRates {
		f.limiter.SetRate(host, rps, 1)
	}
	if cfg.RespectRobots {
		f.robots = util.NewRobotsChecker(cfg.UserAgent, timeout, transport)
	}
	return f
}

// Fetch retrieves rawURL, honouring robots.txt, per-host rate limits and the byte limit
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	var crawlDelay time.Duration
	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, eris.Wrap(err, "document: robots check")
		}
		if !allowed {
			return nil, eris.Wrap(ErrDisallowed, rawURL)
		}
		crawlDelay = delay
	}

	if err := f.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
		return nil, eris.Wrap(err, "document: rate limit wait")
	}

	var lastErr error
	for attempt := 0; attempt < fetchAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * time.Second
			zap.L().Debug("retrying fetch", zap.String("url", rawURL), zap.Int("attempt", attempt+1), zap.Duration("backoff", backoff))
			if err := fetchSleep(ctx, backoff); err != nil {
				return nil, eris.Wrap(err, "document: fetch cancelled")
			}
		}

		res, err := f.fetchOnce(ctx, rawURL)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if !isRetryable(ctx, err) {
			break
		}
	}

	return nil, lastErr
}

// fetchOnce performs a single GET
func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "document: create request")
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/pdf,text/plain;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &transportError{err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}

	reader := io.Reader(resp.Body)
	if f.maxBytes > 0 {
		reader = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, eris.Wrap(err, "document: read body")
	}
	if f.maxBytes > 0 && int64(len(body)) > f.maxBytes {
		return nil, eris.Wrapf(ErrTooLarge, "%s exceeds %d bytes", rawURL, f.maxBytes)
	}

	zap.L().Debug("fetched document",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)))

	return &FetchResult{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
		FinalURL:    resp.Request.URL.String(),
	}, nil
}
