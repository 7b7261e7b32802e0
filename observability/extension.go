package observability

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/xraph/controller/event"
	"github.com/xraph/controller/ext"
	"github.com/xraph/controller/id"
)

// Compile-time interface checks.
var (
	_ ext.Extension          = (*MetricsExtension)(nil)
	_ ext.ProcessStarted     = (*MetricsExtension)(nil)
	_ ext.ProcessFailed      = (*MetricsExtension)(nil)
	_ ext.ExecutionCompleted = (*MetricsExtension)(nil)
	_ ext.ExecutionFailed    = (*MetricsExtension)(nil)
)

// meterName is the instrumentation scope name for controller metrics.
const meterName = "github.com/xraph/controller/observability"

// MetricsExtension records execution lifecycle metrics through an OTel
// meter. Register it as a controller extension to track request rates,
// absorbed process failures, response failures and execution latency.
type MetricsExtension struct {
	ProcessStarted     metric.Int64Counter
	ProcessFailed      metric.Int64Counter
	ExecutionCompleted metric.Int64Counter
	ExecutionFailed    metric.Int64Counter
	ExecutionDuration  metric.Float64Histogram
}

// NewMetricsExtension creates a MetricsExtension using the global
// MeterProvider. Without one, noop instruments are used.
func NewMetricsExtension() *MetricsExtension {
	return NewMetricsExtensionWithMeter(otel.Meter(meterName))
}

// NewMetricsExtensionWithMeter creates a MetricsExtension with the provided
// meter.
func NewMetricsExtensionWithMeter(meter metric.Meter) *MetricsExtension {
	// On error the API hands back noop instruments.
	started, _ := meter.Int64Counter("controller.process.started",
		metric.WithDescription("Process events dispatched"))
	failed, _ := meter.Int64Counter("controller.process.failed",
		metric.WithDescription("Process failures absorbed into the result"))
	completed, _ := meter.Int64Counter("controller.execution.completed",
		metric.WithDescription("Executions that ran both phases"))
	execFailed, _ := meter.Int64Counter("controller.execution.failed",
		metric.WithDescription("Executions aborted by a response listener"))
	duration, _ := meter.Float64Histogram("controller.execution.duration",
		metric.WithDescription("Duration of completed executions in seconds"),
		metric.WithUnit("s"))

	return &MetricsExtension{
		ProcessStarted:     started,
		ProcessFailed:      failed,
		ExecutionCompleted: completed,
		ExecutionFailed:    execFailed,
		ExecutionDuration:  duration,
	}
}

// Name implements ext.Extension.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnProcessStarted implements ext.ProcessStarted.
func (m *MetricsExtension) OnProcessStarted(ctx context.Context, _ id.ExecutionID, eventName string, r *http.Request) error {
	m.ProcessStarted.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event", eventName),
		attribute.String("method", r.Method),
	))
	return nil
}

// OnProcessFailed implements ext.ProcessFailed.
func (m *MetricsExtension) OnProcessFailed(ctx context.Context, _ id.ExecutionID, eventName string, _ error) error {
	m.ProcessFailed.Add(ctx, 1, metric.WithAttributes(attribute.String("event", eventName)))
	return nil
}

// OnExecutionCompleted implements ext.ExecutionCompleted.
func (m *MetricsExtension) OnExecutionCompleted(ctx context.Context, _ id.ExecutionID, res event.Result, elapsed time.Duration) error {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome(res)))
	m.ExecutionCompleted.Add(ctx, 1, attrs)
	m.ExecutionDuration.Record(ctx, elapsed.Seconds(), attrs)
	return nil
}

// OnExecutionFailed implements ext.ExecutionFailed.
func (m *MetricsExtension) OnExecutionFailed(ctx context.Context, _ id.ExecutionID, eventName string, _ error) error {
	m.ExecutionFailed.Add(ctx, 1, metric.WithAttributes(attribute.String("event", eventName)))
	return nil
}

func outcome(res event.Result) string {
	switch {
	case res.IsFailure():
		return "failure"
	case res.IsSet():
		return "payload"
	default:
		return "unset"
	}
}
