package ratelimit

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter enforces a request rate per hostname so one board's pacing does
// not throttle another. Pacing lives with the source plumbing, not the
// orchestrator.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewHostLimiter creates a limiter allowing reqPerSec sustained requests with
// the given burst per host.
func NewHostLimiter(reqPerSec float64, burst int) *HostLimiter {
	if burst < 1 {
		burst = 1
	}
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(reqPerSec),
		burst:    burst,
	}
}

func (l *HostLimiter) limiterFor(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.limiters[host]; ok {
		return lim
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	l.limiters[host] = lim
	return lim
}

// WaitURL blocks until the host of rawURL may be contacted again. Unparseable
// URLs share a single fallback bucket. Returns an error if the context is
// cancelled while waiting.
func (l *HostLimiter) WaitURL(ctx context.Context, rawURL string) error {
	host := "_"
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = u.Host
	}
	if err := l.limiterFor(host).Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", host, err)
	}
	return nil
}
