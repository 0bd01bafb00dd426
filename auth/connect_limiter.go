package auth

import (
	"chat-notify/domain"
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultConnectRate  = rate.Limit(1)
	DefaultConnectBurst = 10
	limiterStaleAfter   = 10 * time.Minute
	limiterSweepEvery   = time.Minute
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ConnectLimiter is a per-user token bucket on new push sessions.
// It keeps reconnect storms from churning the subscriber registry.
// Run sweeps idle buckets and is meant to be supervised.
type ConnectLimiter struct {
	log     *slog.Logger
	mu      sync.Mutex
	entries map[domain.UserID]*limiterEntry
	limit   rate.Limit
	burst   int
}

func NewConnectLimiter(log *slog.Logger, limit rate.Limit, burst int) *ConnectLimiter {
	if limit <= 0 {
		limit = DefaultConnectRate
	}
	if burst <= 0 {
		burst = DefaultConnectBurst
	}
	return &ConnectLimiter{
		log:     log,
		entries: make(map[domain.UserID]*limiterEntry),
		limit:   limit,
		burst:   burst,
	}
}

// Allow reports whether userID may open one more session now.
func (l *ConnectLimiter) Allow(userID domain.UserID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[userID]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[userID] = e
	}
	e.lastSeen = time.Now()
	return e.limiter.Allow()
}

func (l *ConnectLimiter) Run(ctx context.Context) error {
	ticker := time.NewTicker(limiterSweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := l.Sweep(time.Now().Add(-limiterStaleAfter)); n > 0 {
				l.log.Debug("Idle connect limiters removed", "count", n)
			}
		}
	}
}

// Sweep drops buckets not used since cutoff and returns how many went.
func (l *ConnectLimiter) Sweep(cutoff time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for userID, e := range l.entries {
		if e.lastSeen.Before(cutoff) {
			delete(l.entries, userID)
			removed++
		}
	}
	return removed
}
