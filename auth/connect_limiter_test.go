package auth

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestConnectLimiter_Burst_Per_User(t *testing.T) {
	req := require.New(t)
	limiter := NewConnectLimiter(slog.Default(), rate.Limit(0.001), 2)

	// Given user 1 used its whole burst
	req.True(limiter.Allow(1))
	req.True(limiter.Allow(1))

	// Then the next attempt is refused
	req.False(limiter.Allow(1))

	// And other users are unaffected
	req.True(limiter.Allow(2))
}

func TestConnectLimiter_Sweep(t *testing.T) {
	req := require.New(t)
	limiter := NewConnectLimiter(slog.Default(), 0, 0)
	limiter.Allow(1)
	limiter.Allow(2)

	req.Zero(limiter.Sweep(time.Now().Add(-time.Minute)))
	req.Equal(2, limiter.Sweep(time.Now().Add(time.Minute)))
	req.Empty(limiter.entries)
}
