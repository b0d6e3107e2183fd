package collector

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RateLimiter paces API calls against a platform's rate limit
type RateLimiter interface {
	Wait(ctx context.Context) error
	UpdateLimit(remaining int, resetTime time.Time)
}

// rateLimiter implements RateLimiter with a remaining-budget model fed
// from API response headers
type rateLimiter struct {
	mu           sync.Mutex
	remaining    int
	defaultLimit int
	resetTime    time.Time
	minDelay     time.Duration
	lastCall     time.Time
	logger       *zap.Logger
}

// NewRateLimiter creates a new rate limiter starting from the
// platform's default hourly budget
func NewRateLimiter(defaultLimit int, logger *zap.Logger) RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &rateLimiter{
		remaining:    defaultLimit,
		defaultLimit: defaultLimit,
		resetTime:    time.Now().Add(time.Hour),
		minDelay:     100 * time.Millisecond, // Minimum delay between requests
		logger:       logger,
	}
}

// Wait waits until it's safe to make another API call
func (r *rateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check if we need to wait for rate limit reset
	if r.remaining <= 10 {
		waitDuration := time.Until(r.resetTime)
		if waitDuration > 0 {
			r.logger.Warn("rate limit low, waiting for reset",
				zap.Int("remaining", r.remaining),
				zap.Duration("wait", waitDuration.Round(time.Second)))
			r.mu.Unlock()
			select {
			case <-ctx.Done():
				r.mu.Lock()
				return ctx.Err()
			case <-time.After(waitDuration):
				r.mu.Lock()
			}
		}
		// Reset after waiting
		r.remaining = r.defaultLimit
		r.resetTime = time.Now().Add(time.Hour)
	}

	// Ensure minimum delay between requests
	elapsed := time.Since(r.lastCall)
	if elapsed < r.minDelay {
		r.mu.Unlock()
		select {
		case <-ctx.Done():
			r.mu.Lock()
			return ctx.Err()
		case <-time.After(r.minDelay - elapsed):
			r.mu.Lock()
		}
	}

	r.lastCall = time.Now()
	return nil
}

// UpdateLimit updates the rate limit from API response headers
func (r *rateLimiter) UpdateLimit(remaining int, resetTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remaining = remaining
	r.resetTime = resetTime
}
