package middleware

import (
	"context"
	"time"
)

// Timeout returns middleware that enforces a per-listener deadline. A zero
// or negative d disables it. When the deadline is exceeded the context is
// cancelled and the listener should return context.DeadlineExceeded.
func Timeout(d time.Duration) Middleware {
	return func(ctx context.Context, _ *Call, next Handler) error {
		if d <= 0 {
			return next(ctx)
		}
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return next(ctx)
	}
}
