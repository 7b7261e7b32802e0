// Package middleware provides composable middleware for listener invocation.
// Middleware wraps each listener call synchronously and can modify execution
// (recover from panics, log, add tracing, enforce deadlines, etc.).
package middleware

import (
	"context"
	"errors"

	"github.com/xraph/controller/event"
)

var (
	// ErrListenerPanic is wrapped by errors produced by Recover.
	ErrListenerPanic = errors.New("middleware: listener panicked")

	// ErrRateLimited is returned by RateLimit when no token is available.
	ErrRateLimited = errors.New("middleware: rate limited")
)

// Call describes one listener invocation.
type Call struct {
	// Event is the name the event was dispatched under.
	Event string

	// Listener is the name the listener was subscribed with.
	Listener string

	// Priority is the listener's subscription priority.
	Priority int

	// Target is the event being delivered.
	Target event.Event
}

// Handler is the terminal function that invokes the listener.
type Handler func(ctx context.Context) error

// Middleware wraps a Handler with cross-cutting logic.
// It receives the current context, the call being made, and the
// next handler to call. Middleware MUST call next to continue the chain
// (unless short-circuiting on error).
type Middleware func(ctx context.Context, c *Call, next Handler) error

// Chain composes multiple middleware into a single Middleware.
// Middleware are applied right-to-left: the first middleware in the
// list is the outermost wrapper.
//
// Example: Chain(logging, recover, tracing) executes as:
//
//	logging → recover → tracing → listener
func Chain(mws ...Middleware) Middleware {
	return func(ctx context.Context, c *Call, next Handler) error {
		// Build the chain from the end backwards.
		h := next
		for i := len(mws) - 1; i >= 0; i-- {
			mw := mws[i]
			prev := h
			h = func(ctx context.Context) error {
				return mw(ctx, c, prev)
			}
		}
		return h(ctx)
	}
}
