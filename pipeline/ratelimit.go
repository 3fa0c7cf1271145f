package pipeline

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/ssmcp"
	"golang.org/x/time/rate"
)

var _ ssmcp.RenderLimiter = (*HostLimiter)(nil)

// HostLimiter paces URL renders with one token bucket per host. Hosts that
// differ only by a leading "www." share a bucket. Raw HTML targets never
// touch the network and pass straight through.
type HostLimiter struct {
	limit  rate.Limit
	logger *slog.Logger

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// NewHostLimiter creates a HostLimiter allowing rps renders per second to
// each host, without bursting. A non-positive rps disables limiting.
func NewHostLimiter(rps float64, logger *slog.Logger) *HostLimiter {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &HostLimiter{
		limit:   limit,
		logger:  loggerOrDiscard(logger),
		buckets: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until target's host may be rendered again. If ctx ends first
// the reserved slot is handed back and ctx.Err() is returned.
func (l *HostLimiter) Wait(ctx context.Context, target ssmcp.Target) error {
	if target.Raw {
		return nil
	}

	host := hostKey(target.Value)
	r := l.bucket(host).Reserve()
	delay := r.Delay()
	if delay == 0 {
		return nil
	}
	l.logger.Debug("render delayed", "host", host, "delay", delay)

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}

func (l *HostLimiter) bucket(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[host]
	if !ok {
		b = rate.NewLimiter(l.limit, 1)
		l.buckets[host] = b
	}
	return b
}

// hostKey returns the bucket key of rawURL: the lower-cased host name
// without port or leading "www.".
func hostKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
