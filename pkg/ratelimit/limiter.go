package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter defines the interface for rate limiting API calls
type Limiter interface {
	// Wait blocks until the rate limit allows another request or the
	// context is cancelled
	Wait(ctx context.Context) error
	// Allow reports whether a request may proceed right now
	Allow() bool
}

// TokenBucket wraps golang.org/x/time/rate with per-minute semantics
type TokenBucket struct {
	limiter *rate.Limiter
}

// NewTokenBucket creates a limiter allowing requestsPerMinute requests with
// the given burst size.
func NewTokenBucket(requestsPerMinute, burst int) *TokenBucket {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 30
	}
	if burst <= 0 {
		burst = 1
	}
	interval := time.Minute / time.Duration(requestsPerMinute)
	return &TokenBucket{
		limiter: rate.NewLimiter(rate.Every(interval), burst),
	}
}

// Wait blocks until a token is available
func (tb *TokenBucket) Wait(ctx context.Context) error {
	return tb.limiter.Wait(ctx)
}

// Allow reports whether a request may proceed without waiting
func (tb *TokenBucket) Allow() bool {
	return tb.limiter.Allow()
}

// Unlimited is a no-op limiter for tests and stubbed clients
type Unlimited struct{}

func (Unlimited) Wait(ctx context.Context) error { return ctx.Err() }
func (Unlimited) Allow() bool                    { return true }
