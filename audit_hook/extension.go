package audithook

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/xraph/controller/event"
	"github.com/xraph/controller/ext"
	"github.com/xraph/controller/id"
)

// Compile-time interface checks.
var (
	_ ext.Extension          = (*Extension)(nil)
	_ ext.ProcessStarted     = (*Extension)(nil)
	_ ext.ProcessFailed      = (*Extension)(nil)
	_ ext.ExecutionCompleted = (*Extension)(nil)
	_ ext.ExecutionFailed    = (*Extension)(nil)
	_ ext.Shutdown           = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
type Recorder interface {
	// Record persists a fully-formed audit event.
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a single audit record.
type AuditEvent struct {
	Action   string `json:"action"`
	Resource string `json:"resource"`
	Category string `json:"category"`

	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// Flusher is implemented by recorders that buffer events. Flush is called
// once on shutdown.
type Flusher interface {
	Flush(ctx context.Context) error
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record calls f.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// LogRecorder returns a Recorder writing every audit event as an Info
// record on logger.
func LogRecorder(logger *slog.Logger) Recorder {
	return RecorderFunc(func(ctx context.Context, evt *AuditEvent) error {
		attrs := []any{
			slog.String("action", evt.Action),
			slog.String("resource_id", evt.ResourceID),
			slog.String("outcome", evt.Outcome),
			slog.String("severity", evt.Severity),
		}
		if evt.Reason != "" {
			attrs = append(attrs, slog.String("reason", evt.Reason))
		}
		logger.InfoContext(ctx, "audit", attrs...)
		return nil
	})
}

// Severity constants.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Outcome constants.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Extension bridges execution lifecycle events to an audit backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements ext.Extension.
func (e *Extension) Name() string { return "audit-hook" }

// OnProcessStarted implements ext.ProcessStarted.
func (e *Extension) OnProcessStarted(ctx context.Context, execID id.ExecutionID, eventName string, r *http.Request) error {
	return e.record(ctx, ActionProcessStarted, SeverityInfo, OutcomeSuccess, ResourceExecution, execID.String(), nil,
		"event_name", eventName,
		"request_method", r.Method,
		"path", r.URL.Path,
	)
}

// OnProcessFailed implements ext.ProcessFailed. The failure is absorbed by
// the executor, so it is recorded as a warning.
func (e *Extension) OnProcessFailed(ctx context.Context, execID id.ExecutionID, eventName string, procErr error) error {
	return e.record(ctx, ActionProcessFailed, SeverityWarning, OutcomeFailure, ResourceExecution, execID.String(), procErr,
		"event_name", eventName,
	)
}

// OnExecutionCompleted implements ext.ExecutionCompleted.
func (e *Extension) OnExecutionCompleted(ctx context.Context, execID id.ExecutionID, res event.Result, elapsed time.Duration) error {
	outcome := OutcomeSuccess
	if res.IsFailure() {
		outcome = OutcomeFailure
	}
	return e.record(ctx, ActionExecutionCompleted, SeverityInfo, outcome, ResourceExecution, execID.String(), res.Err(),
		"elapsed_ms", elapsed.Milliseconds(),
		"result_set", res.IsSet(),
	)
}

// OnExecutionFailed implements ext.ExecutionFailed.
func (e *Extension) OnExecutionFailed(ctx context.Context, execID id.ExecutionID, eventName string, execErr error) error {
	return e.record(ctx, ActionExecutionFailed, SeverityCritical, OutcomeFailure, ResourceExecution, execID.String(), execErr,
		"event_name", eventName,
	)
}

// OnShutdown implements ext.Shutdown. It records the shutdown and flushes
// the recorder when it implements Flusher.
func (e *Extension) OnShutdown(ctx context.Context) error {
	_ = e.record(ctx, ActionShutdown, SeverityInfo, OutcomeSuccess, ResourceController, "", nil)
	if f, ok := e.recorder.(Flusher); ok {
		if err := f.Flush(ctx); err != nil {
			return fmt.Errorf("audit_hook: flush: %w", err)
		}
	}
	return nil
}

// record builds and sends an audit event if the action is enabled.
// kvPairs is a list of key-value pairs added to Metadata.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = reason
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   CategoryExecution,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", evt.ResourceID,
			"error", recErr,
		)
	}
	return nil
}
