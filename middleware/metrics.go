package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name for controller metrics.
const meterName = "github.com/xraph/controller"

// Metrics returns middleware that records per-listener metrics using the
// global OTel MeterProvider. If no MeterProvider is configured, noop
// instruments are used and this middleware becomes a pass-through.
//
// Instruments:
//   - controller.listener.duration (Float64Histogram): call time in seconds,
//     with attributes: event, listener, status ("ok" or "error")
//   - controller.listener.invocations (Int64Counter): total calls,
//     with attributes: event, listener, status ("ok" or "error")
func Metrics() Middleware {
	meter := otel.Meter(meterName)
	return MetricsWithMeter(meter)
}

// MetricsWithMeter returns metrics middleware using the provided meter.
func MetricsWithMeter(meter metric.Meter) Middleware {
	// On error the API hands back noop instruments.
	duration, _ := meter.Float64Histogram(
		"controller.listener.duration",
		metric.WithDescription("Duration of listener calls in seconds"),
		metric.WithUnit("s"),
	)
	invocations, _ := meter.Int64Counter(
		"controller.listener.invocations",
		metric.WithDescription("Total number of listener calls"),
		metric.WithUnit("{call}"),
	)

	return func(ctx context.Context, c *Call, next Handler) error {
		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start).Seconds()

		status := "ok"
		if err != nil {
			status = "error"
		}

		attrs := metric.WithAttributes(
			attribute.String("event", c.Event),
			attribute.String("listener", c.Listener),
			attribute.String("status", status),
		)

		duration.Record(ctx, elapsed, attrs)
		invocations.Add(ctx, 1, attrs)

		return err
	}
}
