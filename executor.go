package controller

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/xraph/controller/event"
	"github.com/xraph/controller/ext"
	"github.com/xraph/controller/id"
	"github.com/xraph/controller/middleware"
)

// Executor runs the process and response phases of a request. It holds
// only configuration and is safe for concurrent use; every Execute call
// builds its own events.
type Executor struct {
	config     Config
	logger     *slog.Logger
	dispatcher event.Dispatcher
	extensions *ext.Registry
}

// New creates an Executor dispatching through d.
func New(d event.Dispatcher, opts ...Option) (*Executor, error) {
	if d == nil {
		return nil, ErrNoDispatcher
	}

	e := &Executor{
		config:     DefaultConfig(),
		logger:     slog.Default(),
		dispatcher: d,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if e.extensions == nil {
		e.extensions = ext.NewRegistry(e.logger)
	}
	return e, nil
}

// Config returns a copy of the executor's configuration.
func (e *Executor) Config() Config { return e.config }

// Logger returns the executor's logger.
func (e *Executor) Logger() *slog.Logger { return e.logger }

// ProcessEventName returns the name the process event for base is
// dispatched under.
func (e *Executor) ProcessEventName(base string) string {
	return e.config.ProcessPrefix + base
}

// ResponseEventName returns the name the response event for base is
// dispatched under.
func (e *Executor) ResponseEventName(base string) string {
	return e.config.ResponsePrefix + base
}

// dispatchProcess dispatches the process event, turning a listener panic
// into an error wrapping middleware.ErrListenerPanic.
func (e *Executor) dispatchProcess(ctx context.Context, name string, evt *event.ProcessEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic during %s: %v", middleware.ErrListenerPanic, name, r)
		}
	}()
	_, err = e.dispatcher.Dispatch(ctx, name, evt)
	return err
}

// Execute dispatches a process event for r, then a response event seeded
// with the process result, and returns the response event's final result.
//
// A process listener error or panic does not fail Execute: it is logged and
// becomes the result handed to the response phase. A response listener
// error is returned as is and a response listener panic is not recovered.
func (e *Executor) Execute(ctx context.Context, r *http.Request, base string) (event.Result, error) {
	execID := id.NewExecutionID()
	start := time.Now()

	processEventName := e.ProcessEventName(base)
	e.logger.Debug("processing started",
		slog.String("request_method", r.Method),
		slog.String("event_name", processEventName),
		slog.String("controller", e.config.Name),
		slog.Any("execution_id", execID),
	)
	e.extensions.EmitProcessStarted(ctx, execID, processEventName, r)

	processEvent := event.NewProcessEvent(r)
	if err := e.dispatchProcess(ctx, processEventName, processEvent); err != nil {
		e.logger.Error("process error",
			slog.String("request_method", r.Method),
			slog.String("event_name", processEventName),
			slog.String("controller", e.config.Name),
			slog.Any("execution_id", execID),
			slog.String("error", err.Error()),
		)
		e.extensions.EmitProcessFailed(ctx, execID, processEventName, err)
		processEvent.SetResult(event.Failure(err))
	}

	responseEvent := event.NewResponseEvent()
	responseEvent.SetResult(processEvent.Result())

	responseEventName := e.ResponseEventName(base)
	e.logger.Debug("rendering started",
		slog.String("event_name", responseEventName),
		slog.Any("execution_id", execID),
	)
	e.extensions.EmitResponseStarted(ctx, execID, responseEventName, responseEvent.Result())

	if _, err := e.dispatcher.Dispatch(ctx, responseEventName, responseEvent); err != nil {
		e.extensions.EmitExecutionFailed(ctx, execID, responseEventName, err)
		return event.Result{}, err
	}

	res := responseEvent.Result()
	e.extensions.EmitExecutionCompleted(ctx, execID, res, time.Since(start))
	return res, nil
}
