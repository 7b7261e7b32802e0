package observability_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/xraph/controller/event"
	"github.com/xraph/controller/ext"
	"github.com/xraph/controller/id"
	"github.com/xraph/controller/observability"
)

func newTestExtension() (*observability.MetricsExtension, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	return observability.NewMetricsExtensionWithMeter(mp.Meter("test")), reader
}

func counterValue(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("%s: expected Sum[int64], got %T", name, m.Data)
			}
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

func TestMetricsExtension_Name(t *testing.T) {
	e, _ := newTestExtension()
	if e.Name() != "observability-metrics" {
		t.Errorf("expected name %q, got %q", "observability-metrics", e.Name())
	}
}

func TestMetricsExtension_ProcessStarted(t *testing.T) {
	e, reader := newTestExtension()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if err := e.OnProcessStarted(context.Background(), id.NewExecutionID(), "process_get", req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := counterValue(t, reader, "controller.process.started"); got != 1 {
		t.Errorf("controller.process.started: want 1, got %d", got)
	}
}

func TestMetricsExtension_ProcessFailed(t *testing.T) {
	e, reader := newTestExtension()
	if err := e.OnProcessFailed(context.Background(), id.NewExecutionID(), "process_get", errors.New("x")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := counterValue(t, reader, "controller.process.failed"); got != 1 {
		t.Errorf("controller.process.failed: want 1, got %d", got)
	}
}

func TestMetricsExtension_ExecutionCompleted(t *testing.T) {
	e, reader := newTestExtension()
	ctx := context.Background()
	_ = e.OnExecutionCompleted(ctx, id.NewExecutionID(), event.Payload("ok"), 10*time.Millisecond)
	_ = e.OnExecutionCompleted(ctx, id.NewExecutionID(), event.Failure(errors.New("x")), 10*time.Millisecond)

	if got := counterValue(t, reader, "controller.execution.completed"); got != 2 {
		t.Errorf("controller.execution.completed: want 2, got %d", got)
	}
}

func TestMetricsExtension_ExecutionFailed(t *testing.T) {
	e, reader := newTestExtension()
	if err := e.OnExecutionFailed(context.Background(), id.NewExecutionID(), "response_get", errors.New("x")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := counterValue(t, reader, "controller.execution.failed"); got != 1 {
		t.Errorf("controller.execution.failed: want 1, got %d", got)
	}
}

func TestMetricsExtension_ViaRegistry(t *testing.T) {
	e, reader := newTestExtension()
	r := ext.NewRegistry(slog.Default())
	r.Register(e)

	ctx := context.Background()
	execID := id.NewExecutionID()
	r.EmitProcessStarted(ctx, execID, "process_get", httptest.NewRequest(http.MethodGet, "/", nil))
	r.EmitProcessFailed(ctx, execID, "process_get", errors.New("x"))

	if got := counterValue(t, reader, "controller.process.started"); got != 1 {
		t.Errorf("controller.process.started: want 1, got %d", got)
	}
	if got := counterValue(t, reader, "controller.process.failed"); got != 1 {
		t.Errorf("controller.process.failed: want 1, got %d", got)
	}
}

func TestMetricsExtension_DefaultNoopSafe(t *testing.T) {
	e := observability.NewMetricsExtension()
	if err := e.OnExecutionCompleted(context.Background(), id.NewExecutionID(), event.Result{}, time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
