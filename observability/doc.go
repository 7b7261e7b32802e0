// Package observability provides a metrics extension for the controller.
//
// [MetricsExtension] implements the ext lifecycle hooks and records counters
// and a latency histogram through OpenTelemetry. Register it on the
// extension registry handed to the executor:
//
//	reg := ext.NewRegistry(logger)
//	reg.Register(observability.NewMetricsExtension())
//	exec, err := controller.New(b, controller.WithExtensions(reg))
package observability
