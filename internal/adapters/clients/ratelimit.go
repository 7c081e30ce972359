package clients

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces outbound requests. Wait blocks until a request may be issued
// or ctx is done; it never rejects a request outright.
type Limiter interface {
	Wait(ctx context.Context) error
}

// RateLimiterConfig bounds requests to Requests per Window.
type RateLimiterConfig struct {
	Requests int
	Window   time.Duration

	// Burst is how many requests may go out back to back. With a burst of 1
	// requests are spaced evenly at Window/Requests, which keeps any sliding
	// window of length Window at or below Requests.
	Burst int
}

// RateLimiterStats contains statistics about rate limiter usage.
type RateLimiterStats struct {
	// Granted is the number of requests let through.
	Granted int64

	// Delayed is the number of requests that had to wait for a token.
	Delayed int64

	// Cancelled is the number of waits abandoned because the context ended.
	Cancelled int64

	// TotalWait is the cumulative time spent waiting.
	TotalWait time.Duration
}

// RateLimiter is a token bucket shared by every operation of one gateway.
// It is safe for concurrent use.
type RateLimiter struct {
	limiter *rate.Limiter
	cfg     RateLimiterConfig

	granted   atomic.Int64
	delayed   atomic.Int64
	cancelled atomic.Int64
	totalWait atomic.Int64 // nanoseconds

	// onWait observes each wait; used for metrics.
	onWait func(ctx context.Context, d time.Duration)
}

// NewRateLimiter creates a rate limiter.
func NewRateLimiter(cfg RateLimiterConfig) (*RateLimiter, error) {
	if cfg.Requests <= 0 {
		return nil, fmt.Errorf("rate limit requests must be positive, got %d", cfg.Requests)
	}

	if cfg.Window <= 0 {
		return nil, fmt.Errorf("rate limit window must be positive, got %s", cfg.Window)
	}

	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	if cfg.Burst > cfg.Requests {
		return nil, fmt.Errorf("rate limit burst %d exceeds requests per window %d", cfg.Burst, cfg.Requests)
	}

	interval := cfg.Window / time.Duration(cfg.Requests)

	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Every(interval), cfg.Burst),
		cfg:     cfg,
	}, nil
}

// OnWait registers a callback invoked after every successful wait with the time spent.
// It must be called before the limiter is shared.
func (l *RateLimiter) OnWait(fn func(ctx context.Context, d time.Duration)) {
	l.onWait = fn
}

// Wait blocks until a token is available or ctx is done.
// The returned error wraps ctx.Err() when the wait was abandoned.
func (l *RateLimiter) Wait(ctx context.Context) error {
	start := time.Now()

	if err := l.limiter.Wait(ctx); err != nil {
		l.cancelled.Add(1)

		// rate.Limiter reports a deadline it cannot meet before the deadline
		// passes; surface it as the context error it will become.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("waiting for rate limiter: %w", ctxErr)
		}

		return fmt.Errorf("waiting for rate limiter: %w: %w", context.DeadlineExceeded, err)
	}

	waited := time.Since(start)

	l.granted.Add(1)
	l.totalWait.Add(int64(waited))

	if waited > time.Millisecond {
		l.delayed.Add(1)
	}

	if l.onWait != nil {
		l.onWait(ctx, waited)
	}

	return nil
}

// Stats returns current statistics about the rate limiter.
func (l *RateLimiter) Stats() RateLimiterStats {
	return RateLimiterStats{
		Granted:   l.granted.Load(),
		Delayed:   l.delayed.Load(),
		Cancelled: l.cancelled.Load(),
		TotalWait: time.Duration(l.totalWait.Load()),
	}
}

// Config returns the limiter's effective configuration.
func (l *RateLimiter) Config() RateLimiterConfig {
	return l.cfg
}
