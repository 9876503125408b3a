package news

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36 RingStatsBot/1.0"
	defaultMaxBody   = 5 << 20
)

var ErrDisallowed = errors.New("disallowed by robots.txt")

type FetcherOptions struct {
	Timeout time.Duration
	// HostInterval is the minimum gap between requests to one host. Zero
	// disables per-host limiting.
	HostInterval  time.Duration
	UserAgent     string
	RespectRobots bool
	MaxBody       int64
}

// Fetcher is the outbound HTTP client for ingest. It applies per-host rate
// limits and robots.txt checks and makes exactly one attempt per URL; a failed
// source is picked up again on the next poll.
type Fetcher struct {
	http    *http.Client
	ua      string
	maxBody int64
	limits  *hostLimiter
	robots  *robotsCache
}

func NewFetcher(opts FetcherOptions) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.MaxBody <= 0 {
		opts.MaxBody = defaultMaxBody
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConnsPerHost:   4,
	}
	f := &Fetcher{
		http:    &http.Client{Transport: transport, Timeout: opts.Timeout},
		ua:      opts.UserAgent,
		maxBody: opts.MaxBody,
		limits:  newHostLimiter(opts.HostInterval),
	}
	if opts.RespectRobots {
		f.robots = newRobotsCache(f.http, opts.UserAgent)
	}
	return f
}

// Get fetches rawURL and returns the body of a 2xx response.
func (f *Fetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid url %q", rawURL)
	}
	if f.robots != nil && !f.robots.allowed(ctx, u) {
		return nil, fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
	}

	if err := f.limits.wait(ctx, u.Host); err != nil {
		return nil, err
	}
	return f.do(ctx, rawURL)
}

func (f *Fetcher) do(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", f.ua)

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, fmt.Errorf("get %s: http status %s", rawURL, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}
	return body, nil
}

type hostLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	limiters map[string]*rate.Limiter
}

func newHostLimiter(interval time.Duration) *hostLimiter {
	return &hostLimiter{interval: interval, limiters: map[string]*rate.Limiter{}}
}

func (h *hostLimiter) wait(ctx context.Context, host string) error {
	if h.interval <= 0 {
		return ctx.Err()
	}
	h.mu.Lock()
	l, ok := h.limiters[host]
	if !ok {
		l = rate.NewLimiter(rate.Every(h.interval), 1)
		h.limiters[host] = l
	}
	h.mu.Unlock()
	return l.Wait(ctx)
}
