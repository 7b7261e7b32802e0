package middleware

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimit returns middleware that rejects a listener call with
// ErrRateLimited when limiter has no token available. It never blocks.
// Share one limiter across subscriptions to limit them together.
func RateLimit(limiter *rate.Limiter) Middleware {
	return func(ctx context.Context, c *Call, next Handler) error {
		if !limiter.Allow() {
			return fmt.Errorf("%w: listener %s on %s", ErrRateLimited, c.Listener, c.Event)
		}
		return next(ctx)
	}
}
