package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxBodySize limits how much of a feed or article page is read
const maxBodySize = 10 * 1024 * 1024

// HostLimiter keeps a polite delay between requests to the same host
type HostLimiter struct {
	interval time.Duration
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
}

// NewHostLimiter makes a limiter allowing one request per interval for each host, zero interval disables it
func NewHostLimiter(interval time.Duration) *HostLimiter {
	return &HostLimiter{interval: interval, limiters: make(map[string]*rate.Limiter)}
}

// Wait blocks until a request to the url's host is allowed or ctx is done
func (h *HostLimiter) Wait(ctx context.Context, rawURL string) error {
	if h == nil || h.interval <= 0 {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url %s: %w", rawURL, err)
	}
	return h.limiter(u.Host).Wait(ctx)
}

func (h *HostLimiter) limiter(host string) *rate.Limiter {
	h.mu.RLock()
	l, ok := h.limiters[host]
	h.mu.RUnlock()
	if ok {
		return l
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if l, ok = h.limiters[host]; ok {
		return l
	}
	l = rate.NewLimiter(rate.Every(h.interval), 1)
	h.limiters[host] = l
	return l
}

// httpGetter does rate limited GET requests with browser-like headers
type httpGetter struct {
	client    *http.Client
	userAgent string
	limiter   *HostLimiter
}

func newHTTPGetter(timeout time.Duration, userAgent string, limiter *HostLimiter) *httpGetter {
	return &httpGetter{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: userAgent,
		limiter:   limiter,
	}
}

// get fetches the url and returns the body and content type, non-200 responses are errors
func (g *httpGetter) get(ctx context.Context, rawURL, accept string) (body []byte, contentType string, err error) {
	if err := g.limiter.Wait(ctx, rawURL); err != nil {
		return nil, "", fmt.Errorf("wait for %s: %w", rawURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, rawURL)
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", rawURL, err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}
