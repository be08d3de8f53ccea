// Package fetch is the shared page fetcher for the scrape adapters. It
// speaks plain GET with browser headers and is deliberately polite:
// requests are rate limited, retried with backoff on throttling, and
// cut off by a circuit breaker when a site starts refusing us.
package fetch

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"

	"github.com/wardvision/scout/internal/platform/resilience"
)

// ErrBlocked means the site answered 403. Retrying immediately only
// digs the hole deeper, so the breaker counts these as failures.
var ErrBlocked = errors.New("fetch: blocked by site")

// ErrNotFound means the site answered 404 for the requested page.
var ErrNotFound = errors.New("fetch: page not found")

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Config tunes the fetcher. Zero values fall back to defaults.
type Config struct {
	// RequestTimeout bounds a single attempt, not the whole retry loop.
	RequestTimeout time.Duration
	// RequestsPerSecond is the steady-state rate across all callers.
	RequestsPerSecond float64
	Burst             int
	// MaxAttempts counts the first try plus retries.
	MaxAttempts int
	// RetryBaseDelay doubles per retry: base, 2x, 4x.
	RetryBaseDelay time.Duration
	UserAgent      string
	Breaker        resilience.CircuitBreakerConfig
}

func DefaultConfig() Config {
	return Config{
		RequestTimeout:    15 * time.Second,
		RequestsPerSecond: 2,
		Burst:             4,
		MaxAttempts:       3,
		RetryBaseDelay:    time.Second,
		UserAgent:         defaultUserAgent,
		Breaker:           resilience.DefaultCircuitBreakerConfig(),
	}
}

func normalize(cfg Config) Config {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 2
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 4
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	cfg.Breaker = resilience.NormalizeCircuitBreakerConfig(cfg.Breaker)
	return cfg
}

// Fetcher grabs a page body by URL. The scrape adapters depend on this
// interface so tests can feed them canned HTML.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
	Post(ctx context.Context, url string) ([]byte, error)
}

// Client is the production Fetcher. Identical in-flight URLs collapse
// into one request; the winner's body is shared.
type Client struct {
	cfg     Config
	http    *fasthttp.Client
	limiter *rate.Limiter
	// breaker is nil when the config disables it.
	breaker *resilience.CircuitBreaker
	flight  resilience.SingleFlight
	sleep   func(ctx context.Context, d time.Duration) error
}

func NewClient(cfg Config) *Client {
	cfg = normalize(cfg)
	c := &Client{
		cfg: cfg,
		http: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         cfg.RequestTimeout,
			WriteTimeout:        cfg.RequestTimeout,
			MaxIdleConnDuration: time.Minute,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		sleep:   sleepCtx,
	}
	if cfg.Breaker.Enabled {
		c.breaker = resilience.NewCircuitBreaker(cfg.Breaker.FailureThreshold, cfg.Breaker.OpenTimeout, cfg.Breaker.HalfOpenMaxReq)
	}
	return c
}

// Get fetches the URL and returns a copy of the body.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	body, err, _ := c.flight.Do(url, func() (any, error) {
		return c.do(ctx, fasthttp.MethodGet, url)
	})
	if err != nil {
		return nil, err
	}
	return body.([]byte), nil
}

// Post issues an empty-body POST. Used for op.gg profile renewal, which
// is fire-and-forget, so it skips the singleflight cache.
func (c *Client) Post(ctx context.Context, url string) ([]byte, error) {
	return c.do(ctx, fasthttp.MethodPost, url)
}

func (c *Client) do(ctx context.Context, method, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < c.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := c.cfg.RetryBaseDelay << (attempt - 1)
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		if c.breaker != nil {
			if err := c.breaker.Allow(); err != nil {
				return nil, errors.Wrapf(err, "fetch %s", url)
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrapf(err, "fetch %s: rate limit wait", url)
		}

		body, retryable, err := c.attempt(ctx, method, url)
		if err == nil {
			if c.breaker != nil {
				c.breaker.RecordSuccess()
			}
			return body, nil
		}

		lastErr = err
		if c.breaker != nil {
			c.breaker.RecordFailure()
		}
		if !retryable {
			return nil, lastErr
		}
	}

	return nil, errors.Wrapf(lastErr, "fetch %s: giving up after %d attempts", url, c.cfg.MaxAttempts)
}

func (c *Client) attempt(ctx context.Context, method, url string) (body []byte, retryable bool, err error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(method)
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	deadline := time.Now().Add(c.cfg.RequestTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, true, errors.Wrapf(err, "fetch %s", url)
	}

	switch status := resp.StatusCode(); {
	case status >= 200 && status < 300:
	case status == fasthttp.StatusForbidden:
		return nil, false, errors.Wrapf(ErrBlocked, "fetch %s", url)
	case status == fasthttp.StatusNotFound:
		return nil, false, errors.Wrapf(ErrNotFound, "fetch %s", url)
	case status == fasthttp.StatusTooManyRequests:
		return nil, true, errors.Newf("fetch %s: throttled (429)", url)
	case status >= 500:
		return nil, true, errors.Newf("fetch %s: upstream error (%d)", url, status)
	default:
		return nil, false, errors.Newf("fetch %s: unexpected status %d", url, status)
	}

	// resp.Body() is only valid until release, so copy through a pooled
	// buffer.
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.Write(resp.Body()); err != nil {
		return nil, false, errors.Wrapf(err, "fetch %s: buffer body", url)
	}
	out := make([]byte, buf.Len())
	copy(out, buf.B)

	return out, false, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
