package ext

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/xraph/controller/event"
	"github.com/xraph/controller/id"
)

// Named entry types pair a hook implementation with the extension name
// captured at registration time. This avoids type-asserting back to
// Extension inside the emit methods.
type processStartedEntry struct {
	name string
	hook ProcessStarted
}

type processFailedEntry struct {
	name string
	hook ProcessFailed
}

type responseStartedEntry struct {
	name string
	hook ResponseStarted
}

type executionCompletedEntry struct {
	name string
	hook ExecutionCompleted
}

type executionFailedEntry struct {
	name string
	hook ExecutionFailed
}

type shutdownEntry struct {
	name string
	hook Shutdown
}

// Registry holds registered extensions and dispatches lifecycle events
// to them. It type-caches extensions at registration time so emit calls
// iterate only over extensions that implement the relevant hook.
//
// Register is not safe to call concurrently with the emit methods; register
// every extension before the registry is handed to an Executor.
type Registry struct {
	extensions []Extension
	logger     *slog.Logger

	// Type-cached slices for each lifecycle hook.
	processStarted     []processStartedEntry
	processFailed      []processFailedEntry
	responseStarted    []responseStartedEntry
	executionCompleted []executionCompletedEntry
	executionFailed    []executionFailedEntry
	shutdown           []shutdownEntry
}

// NewRegistry creates an extension registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{logger: logger}
}

// Register adds an extension and type-asserts it into all applicable
// hook caches. Extensions are notified in registration order.
func (r *Registry) Register(e Extension) {
	r.extensions = append(r.extensions, e)
	name := e.Name()

	if h, ok := e.(ProcessStarted); ok {
		r.processStarted = append(r.processStarted, processStartedEntry{name, h})
	}
	if h, ok := e.(ProcessFailed); ok {
		r.processFailed = append(r.processFailed, processFailedEntry{name, h})
	}
	if h, ok := e.(ResponseStarted); ok {
		r.responseStarted = append(r.responseStarted, responseStartedEntry{name, h})
	}
	if h, ok := e.(ExecutionCompleted); ok {
		r.executionCompleted = append(r.executionCompleted, executionCompletedEntry{name, h})
	}
	if h, ok := e.(ExecutionFailed); ok {
		r.executionFailed = append(r.executionFailed, executionFailedEntry{name, h})
	}
	if h, ok := e.(Shutdown); ok {
		r.shutdown = append(r.shutdown, shutdownEntry{name, h})
	}
}

// Extensions returns all registered extensions.
func (r *Registry) Extensions() []Extension { return r.extensions }

// EmitProcessStarted notifies all extensions that implement ProcessStarted.
func (r *Registry) EmitProcessStarted(ctx context.Context, execID id.ExecutionID, eventName string, req *http.Request) {
	for _, e := range r.processStarted {
		if err := e.hook.OnProcessStarted(ctx, execID, eventName, req); err != nil {
			r.logHookError("OnProcessStarted", e.name, err)
		}
	}
}

// EmitProcessFailed notifies all extensions that implement ProcessFailed.
func (r *Registry) EmitProcessFailed(ctx context.Context, execID id.ExecutionID, eventName string, procErr error) {
	for _, e := range r.processFailed {
		if err := e.hook.OnProcessFailed(ctx, execID, eventName, procErr); err != nil {
			r.logHookError("OnProcessFailed", e.name, err)
		}
	}
}

// EmitResponseStarted notifies all extensions that implement ResponseStarted.
func (r *Registry) EmitResponseStarted(ctx context.Context, execID id.ExecutionID, eventName string, res event.Result) {
	for _, e := range r.responseStarted {
		if err := e.hook.OnResponseStarted(ctx, execID, eventName, res); err != nil {
			r.logHookError("OnResponseStarted", e.name, err)
		}
	}
}

// EmitExecutionCompleted notifies all extensions that implement ExecutionCompleted.
func (r *Registry) EmitExecutionCompleted(ctx context.Context, execID id.ExecutionID, res event.Result, elapsed time.Duration) {
	for _, e := range r.executionCompleted {
		if err := e.hook.OnExecutionCompleted(ctx, execID, res, elapsed); err != nil {
			r.logHookError("OnExecutionCompleted", e.name, err)
		}
	}
}

// EmitExecutionFailed notifies all extensions that implement ExecutionFailed.
func (r *Registry) EmitExecutionFailed(ctx context.Context, execID id.ExecutionID, eventName string, execErr error) {
	for _, e := range r.executionFailed {
		if err := e.hook.OnExecutionFailed(ctx, execID, eventName, execErr); err != nil {
			r.logHookError("OnExecutionFailed", e.name, err)
		}
	}
}

// EmitShutdown notifies all extensions that implement Shutdown.
func (r *Registry) EmitShutdown(ctx context.Context) {
	for _, e := range r.shutdown {
		if err := e.hook.OnShutdown(ctx); err != nil {
			r.logHookError("OnShutdown", e.name, err)
		}
	}
}

// logHookError logs a warning when a lifecycle hook returns an error.
// Errors from hooks are never propagated.
func (r *Registry) logHookError(hook, extName string, err error) {
	r.logger.Warn("extension hook error",
		slog.String("hook", hook),
		slog.String("extension", extName),
		slog.String("error", err.Error()),
	)
}
