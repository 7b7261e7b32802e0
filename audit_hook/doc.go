// Package audithook is a controller extension that turns execution
// lifecycle events into audit records.
//
// Each hook emits a structured AuditEvent through the [Recorder] interface
// with a severity (info for normal runs, warning for absorbed process
// failures, critical for failed executions) and metadata such as the event
// name, request method and elapsed time. On shutdown the extension records
// a final event and flushes recorders that implement [Flusher].
//
// # Logging recorder
//
//	reg.Register(audithook.New(audithook.LogRecorder(logger)))
//
// # Selective filtering
//
//	audithook.New(recorder,
//	    audithook.WithActions(audithook.ActionExecutionFailed),
//	)
package audithook
