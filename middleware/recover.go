package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
)

// Recover returns middleware that recovers from panics in the listener chain.
// Panics are converted to errors wrapping ErrListenerPanic and logged with a
// stack trace.
func Recover(logger *slog.Logger) Middleware {
	return func(ctx context.Context, c *Call, next Handler) (retErr error) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				logger.Error("listener panicked",
					slog.String("event_name", c.Event),
					slog.String("listener", c.Listener),
					slog.Any("panic", r),
					slog.String("stack", stack),
				)
				retErr = fmt.Errorf("%w: panic in listener %s on %s: %v", ErrListenerPanic, c.Listener, c.Event, r)
			}
		}()
		return next(ctx)
	}
}
