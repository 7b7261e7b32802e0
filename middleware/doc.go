// Package middleware provides composable middleware for listener invocation.
//
// A [Middleware] is a function that wraps a single listener call made by the
// event bus. Middleware are composed into a chain using [Chain]. They are
// applied right-to-left: the first middleware in the slice is the outermost
// wrapper.
//
//	// logging → recover → listener
//	chain := middleware.Chain(middleware.Logging(logger), middleware.Recover(logger))
//
// # Built-in Middleware
//
//   - [Logging]: logs event name, listener, duration, and outcome of each call
//   - [Recover]: catches panics and converts them to errors
//   - [Timeout]: cancels the listener context after a fixed duration
//   - [Tracing]: wraps each call in an OpenTelemetry span
//   - [Metrics]: records per-listener duration and outcome counters
//   - [RateLimit]: rejects calls once a shared token bucket is empty
//
// # Writing Custom Middleware
//
//	func MyMiddleware() middleware.Middleware {
//	    return func(ctx context.Context, c *middleware.Call, next middleware.Handler) error {
//	        // pre-processing
//	        err := next(ctx)
//	        // post-processing
//	        return err
//	    }
//	}
//
// Middleware MUST call next to continue the chain unless intentionally
// short-circuiting (e.g., rate limiting).
package middleware
