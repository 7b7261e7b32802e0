package ext

import (
	"context"
	"net/http"
	"time"

	"github.com/xraph/controller/event"
	"github.com/xraph/controller/id"
)

// Extension is the base interface all extensions must implement.
type Extension interface {
	// Name returns a unique human-readable name for the extension.
	Name() string
}

// ──────────────────────────────────────────────────
// Process phase hooks
// ──────────────────────────────────────────────────

// ProcessStarted is called before the process event is dispatched.
type ProcessStarted interface {
	OnProcessStarted(ctx context.Context, execID id.ExecutionID, eventName string, r *http.Request) error
}

// ProcessFailed is called when a process listener failed and its error was
// absorbed into the result.
type ProcessFailed interface {
	OnProcessFailed(ctx context.Context, execID id.ExecutionID, eventName string, err error) error
}

// ──────────────────────────────────────────────────
// Response phase hooks
// ──────────────────────────────────────────────────

// ResponseStarted is called before the response event is dispatched, with
// the result it was seeded with.
type ResponseStarted interface {
	OnResponseStarted(ctx context.Context, execID id.ExecutionID, eventName string, res event.Result) error
}

// ExecutionCompleted is called after both phases ran, with the final result.
type ExecutionCompleted interface {
	OnExecutionCompleted(ctx context.Context, execID id.ExecutionID, res event.Result, elapsed time.Duration) error
}

// ExecutionFailed is called when a response listener failed. That error is
// returned to the caller of Execute.
type ExecutionFailed interface {
	OnExecutionFailed(ctx context.Context, execID id.ExecutionID, eventName string, err error) error
}

// ──────────────────────────────────────────────────
// Other lifecycle hooks
// ──────────────────────────────────────────────────

// Shutdown is called during graceful shutdown.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
