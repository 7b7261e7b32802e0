package controller_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/xraph/controller"
	"github.com/xraph/controller/bus"
	"github.com/xraph/controller/event"
	"github.com/xraph/controller/ext"
	"github.com/xraph/controller/id"
	"github.com/xraph/controller/listener"
	"github.com/xraph/controller/middleware"
)

// ──────────────────────────────────────────────────
// Test helpers
// ──────────────────────────────────────────────────

// recordingDispatcher wraps a bus and records every dispatched name.
type recordingDispatcher struct {
	inner *bus.Bus
	names []string
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, name string, evt event.Event) (event.Event, error) {
	d.names = append(d.names, name)
	return d.inner.Dispatch(ctx, name, evt)
}

// captureHandler keeps every slog record it receives.
type captureHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func (h *captureHandler) find(level slog.Level, msg string) (map[string]slog.Value, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range h.records {
		if r.Level != level || r.Message != msg {
			continue
		}
		attrs := make(map[string]slog.Value)
		r.Attrs(func(a slog.Attr) bool {
			attrs[a.Key] = a.Value.Resolve()
			return true
		})
		return attrs, true
	}
	return nil, false
}

func newRequest() *http.Request {
	return httptest.NewRequest(http.MethodGet, "/items/1", nil)
}

func newExecutor(t *testing.T, d event.Dispatcher, opts ...controller.Option) *controller.Executor {
	t.Helper()
	exec, err := controller.New(d, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return exec
}

// ──────────────────────────────────────────────────
// Construction
// ──────────────────────────────────────────────────

func TestNew_RequiresDispatcher(t *testing.T) {
	_, err := controller.New(nil)
	if !errors.Is(err, controller.ErrNoDispatcher) {
		t.Fatalf("expected ErrNoDispatcher, got %v", err)
	}
}

func TestNew_RejectsNilLogger(t *testing.T) {
	_, err := controller.New(bus.New(), controller.WithLogger(nil))
	if !errors.Is(err, controller.ErrNoLogger) {
		t.Fatalf("expected ErrNoLogger, got %v", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	exec := newExecutor(t, bus.New())
	if got := exec.Config(); got != controller.DefaultConfig() {
		t.Errorf("Config() = %+v, want defaults", got)
	}
}

// ──────────────────────────────────────────────────
// Event names
// ──────────────────────────────────────────────────

func TestExecute_EventNames(t *testing.T) {
	tests := []struct {
		name         string
		opts         []controller.Option
		base         string
		wantProcess  string
		wantResponse string
	}{
		{"defaults", nil, "get", "process_get", "response_get"},
		{"empty base", nil, "", "process_", "response_"},
		{"custom prefixes", []controller.Option{
			controller.WithProcessPrefix("p."),
			controller.WithResponsePrefix("r."),
		}, "list", "p.list", "r.list"},
		{"config", []controller.Option{
			controller.WithConfig(controller.Config{ProcessPrefix: "a_", ResponsePrefix: "b_"}),
		}, "x", "a_x", "b_x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &recordingDispatcher{inner: bus.New()}
			exec := newExecutor(t, d, tt.opts...)

			if _, err := exec.Execute(context.Background(), newRequest(), tt.base); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			want := []string{tt.wantProcess, tt.wantResponse}
			if !reflect.DeepEqual(d.names, want) {
				t.Errorf("dispatched %v, want %v", d.names, want)
			}
			if got := exec.ProcessEventName(tt.base); got != tt.wantProcess {
				t.Errorf("ProcessEventName = %q, want %q", got, tt.wantProcess)
			}
			if got := exec.ResponseEventName(tt.base); got != tt.wantResponse {
				t.Errorf("ResponseEventName = %q, want %q", got, tt.wantResponse)
			}
		})
	}
}

// ──────────────────────────────────────────────────
// Results
// ──────────────────────────────────────────────────

func TestExecute_NoListenersReturnsUnset(t *testing.T) {
	exec := newExecutor(t, bus.New())

	res, err := exec.Execute(context.Background(), newRequest(), "get")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsSet() {
		t.Errorf("expected unset result, got %+v", res)
	}
}

func TestExecute_ResponsePhaseSeesUnsetSeed(t *testing.T) {
	b := bus.New()
	b.Subscribe("response_get", event.Typed(func(_ context.Context, evt *event.ResponseEvent, _ string, _ event.Dispatcher) error {
		if evt.Result().IsSet() {
			return errors.New("seed should be unset")
		}
		evt.SetResult(event.Payload("defaulted"))
		return nil
	}))
	exec := newExecutor(t, b)

	res, err := exec.Execute(context.Background(), newRequest(), "get")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Value() != "defaulted" {
		t.Errorf("result = %v, want defaulted", res.Value())
	}
}

func TestExecute_EndToEnd(t *testing.T) {
	b := bus.New()
	var seenRequest *http.Request
	b.Subscribe("process_get", event.Typed(func(_ context.Context, evt *event.ProcessEvent, _ string, _ event.Dispatcher) error {
		seenRequest = evt.Request()
		evt.SetParameter("response", "ok")
		return nil
	}))
	b.Subscribe("process_get", listener.NewResponseHydrator("").Listener())
	b.Subscribe("response_get", event.Typed(func(_ context.Context, evt *event.ResponseEvent, _ string, _ event.Dispatcher) error {
		evt.SetResult(evt.Result())
		return nil
	}))

	d := &recordingDispatcher{inner: b}
	exec := newExecutor(t, d)
	req := newRequest()

	res, err := exec.Execute(context.Background(), req, "get")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Value() != "ok" {
		t.Errorf("result = %v, want ok", res.Value())
	}
	if seenRequest != req {
		t.Error("process listener did not receive the request")
	}
	if want := []string{"process_get", "response_get"}; !reflect.DeepEqual(d.names, want) {
		t.Errorf("dispatched %v, want %v", d.names, want)
	}
}

func TestExecute_ProcessFailureBecomesResult(t *testing.T) {
	handler := &captureHandler{}
	logger := slog.New(handler)

	ex := errors.New("listener exploded")
	b := bus.New()
	b.Subscribe("process_get", func(_ context.Context, _ event.Event, _ string, _ event.Dispatcher) error {
		return ex
	})
	b.Subscribe("process_get", listener.NewResponseHydrator("").Listener())

	var seed event.Result
	b.Subscribe("response_get", event.Typed(func(_ context.Context, evt *event.ResponseEvent, _ string, _ event.Dispatcher) error {
		seed = evt.Result()
		return nil
	}))

	d := &recordingDispatcher{inner: b}
	exec := newExecutor(t, d, controller.WithLogger(logger), controller.WithName("items"))

	res, err := exec.Execute(context.Background(), newRequest(), "get")
	if err != nil {
		t.Fatalf("process failures must not escape Execute, got %v", err)
	}
	if res.Err() != ex || res.Value() != ex {
		t.Errorf("result = %+v, want the listener error itself", res)
	}
	if seed.Err() != ex {
		t.Errorf("response phase seeded with %+v, want the listener error", seed)
	}
	if want := []string{"process_get", "response_get"}; !reflect.DeepEqual(d.names, want) {
		t.Errorf("dispatched %v, want %v", d.names, want)
	}

	attrs, ok := handler.find(slog.LevelError, "process error")
	if !ok {
		t.Fatal("expected a process error log record")
	}
	want := map[string]string{
		"request_method": http.MethodGet,
		"event_name":     "process_get",
		"controller":     "items",
		"error":          "listener exploded",
	}
	for k, v := range want {
		if got := attrs[k].String(); got != v {
			t.Errorf("log attr %s = %q, want %q", k, got, v)
		}
	}
	if _, err := id.ParseExecutionID(attrs["execution_id"].String()); err != nil {
		t.Errorf("log attr execution_id: %v", err)
	}
}

func TestExecute_HydratorMisconfigurationAbsorbed(t *testing.T) {
	b := bus.New()
	b.Subscribe("process_get", listener.NewResponseHydrator("missing").Listener())
	b.Subscribe("response_get", listener.ErrorRenderer(slog.Default()))
	exec := newExecutor(t, b)

	res, err := exec.Execute(context.Background(), newRequest(), "get")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp, ok := res.Value().(*listener.Response)
	if !ok {
		t.Fatalf("expected rendered *Response, got %T", res.Value())
	}
	if resp.Code != http.StatusInternalServerError {
		t.Errorf("Code = %d, want 500", resp.Code)
	}
}

func TestExecute_ProcessPanicAbsorbedWithRecoverMiddleware(t *testing.T) {
	b := bus.New(bus.WithMiddleware(middleware.Recover(slog.Default())))
	b.Subscribe("process_get", func(_ context.Context, _ event.Event, _ string, _ event.Dispatcher) error {
		panic("boom")
	})
	exec := newExecutor(t, b)

	res, err := exec.Execute(context.Background(), newRequest(), "get")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !errors.Is(res.Err(), middleware.ErrListenerPanic) {
		t.Errorf("expected ErrListenerPanic result, got %+v", res)
	}
}

func TestExecute_ProcessPanicAbsorbedWithoutRecoverMiddleware(t *testing.T) {
	b := bus.New()
	b.Subscribe("process_get", func(_ context.Context, _ event.Event, _ string, _ event.Dispatcher) error {
		panic("boom")
	})
	b.Subscribe("response_get", listener.ErrorRenderer(slog.New(slog.DiscardHandler)))
	exec := newExecutor(t, b)

	res, err := exec.Execute(context.Background(), newRequest(), "get")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp, ok := res.Value().(*listener.Response)
	if !ok {
		t.Fatalf("expected the panic to reach the response phase as a failure, got %T", res.Value())
	}
	if resp.Code != http.StatusInternalServerError {
		t.Errorf("Code = %d, want 500", resp.Code)
	}
}

func TestExecute_ProcessPanicBecomesFailure(t *testing.T) {
	b := bus.New()
	b.Subscribe("process_get", func(_ context.Context, _ event.Event, _ string, _ event.Dispatcher) error {
		panic("boom")
	})
	exec := newExecutor(t, b)

	res, err := exec.Execute(context.Background(), newRequest(), "get")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !errors.Is(res.Err(), middleware.ErrListenerPanic) {
		t.Fatalf("expected ErrListenerPanic result, got %+v", res)
	}
	if !strings.Contains(res.Err().Error(), "boom") || !strings.Contains(res.Err().Error(), "process_get") {
		t.Errorf("error %q should name the panic value and event", res.Err())
	}
}

func TestExecute_ResponsePanicNotAbsorbed(t *testing.T) {
	b := bus.New()
	b.Subscribe("response_get", func(_ context.Context, _ event.Event, _ string, _ event.Dispatcher) error {
		panic("render boom")
	})
	exec := newExecutor(t, b)

	defer func() {
		if recover() == nil {
			t.Error("a response listener panic must propagate out of Execute")
		}
	}()
	_, _ = exec.Execute(context.Background(), newRequest(), "get")
}

func TestExecute_ResponseFailurePropagates(t *testing.T) {
	want := errors.New("render failed")
	b := bus.New()
	b.Subscribe("response_get", func(_ context.Context, _ event.Event, _ string, _ event.Dispatcher) error {
		return want
	})
	exec := newExecutor(t, b)

	res, err := exec.Execute(context.Background(), newRequest(), "get")
	if err != want {
		t.Fatalf("expected response error to propagate, got %v", err)
	}
	if res.IsSet() {
		t.Errorf("expected unset result alongside error, got %+v", res)
	}
}

func TestExecute_EventsAreFreshPerCall(t *testing.T) {
	b := bus.New()
	var seen []*event.ProcessEvent
	b.Subscribe("process_get", event.Typed(func(_ context.Context, evt *event.ProcessEvent, _ string, _ event.Dispatcher) error {
		if evt.HasParameter("count") {
			return errors.New("parameter leaked from a previous execution")
		}
		evt.SetParameter("count", 1)
		seen = append(seen, evt)
		return nil
	}))
	exec := newExecutor(t, b)

	for i := 0; i < 2; i++ {
		res, err := exec.Execute(context.Background(), newRequest(), "get")
		if err != nil || res.IsFailure() {
			t.Fatalf("execution %d: err=%v res=%+v", i, err, res)
		}
	}
	if len(seen) != 2 || seen[0] == seen[1] {
		t.Error("each execution must build its own process event")
	}
}

// ──────────────────────────────────────────────────
// Extensions
// ──────────────────────────────────────────────────

type hookRecorder struct {
	calls []string
}

func (h *hookRecorder) Name() string { return "recorder" }

func (h *hookRecorder) OnProcessStarted(_ context.Context, _ id.ExecutionID, name string, _ *http.Request) error {
	h.calls = append(h.calls, "started:"+name)
	return nil
}

func (h *hookRecorder) OnProcessFailed(_ context.Context, _ id.ExecutionID, name string, _ error) error {
	h.calls = append(h.calls, "failed:"+name)
	return nil
}

func (h *hookRecorder) OnResponseStarted(_ context.Context, _ id.ExecutionID, name string, _ event.Result) error {
	h.calls = append(h.calls, "rendering:"+name)
	return nil
}

func TestExecute_EmitsLifecycleHooks(t *testing.T) {
	b := bus.New()
	b.Subscribe("process_get", func(_ context.Context, _ event.Event, _ string, _ event.Dispatcher) error {
		return errors.New("x")
	})

	rec := &hookRecorder{}
	reg := ext.NewRegistry(slog.Default())
	reg.Register(rec)
	exec := newExecutor(t, b, controller.WithExtensions(reg))

	if _, err := exec.Execute(context.Background(), newRequest(), "get"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"started:process_get", "failed:process_get", "rendering:response_get"}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("hooks = %v, want %v", rec.calls, want)
	}
}

func TestExecute_Concurrent(t *testing.T) {
	b := bus.New()
	b.Subscribe("process_get", event.Typed(func(_ context.Context, evt *event.ProcessEvent, _ string, _ event.Dispatcher) error {
		evt.SetParameter("response", evt.Request().URL.Path)
		return nil
	}))
	b.Subscribe("process_get", listener.NewResponseHydrator("").Listener(), bus.WithPriority(-1))
	exec := newExecutor(t, b)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := "/items/" + string(rune('a'+i%26))
			res, err := exec.Execute(context.Background(), httptest.NewRequest(http.MethodGet, path, nil), "get")
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if res.Value() != path {
				t.Errorf("result = %v, want %s", res.Value(), path)
			}
		}(i)
	}
	wg.Wait()
}
