package safety

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter throttles calls to one upstream with a token bucket
type RateLimiter struct {
	name    string
	limiter *rate.Limiter
	now     func() time.Time
}

// NewRateLimiter creates a limiter allowing refillRate operations per second
// with bursts of up to capacity. A full bucket is available immediately.
func NewRateLimiter(name string, capacity int, refillRate float64) *RateLimiter {
	if capacity < 1 {
		capacity = 1
	}
	return &RateLimiter{
		name:    name,
		limiter: rate.NewLimiter(rate.Limit(refillRate), capacity),
		now:     time.Now,
	}
}

// Name returns the upstream this limiter guards
func (rl *RateLimiter) Name() string {
	return rl.name
}

// Allow takes a token if one is available
func (rl *RateLimiter) Allow() bool {
	return rl.limiter.AllowN(rl.now(), 1)
}

// Wait blocks until a token is available or ctx is done. A wait that cannot
// finish before the ctx deadline fails straight away.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if err := rl.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%s rate limit: %w", rl.name, err)
	}
	return nil
}

// Tokens returns the tokens currently available
func (rl *RateLimiter) Tokens() float64 {
	return rl.limiter.TokensAt(rl.now())
}
