// Package controller provides a two-phase, event-driven request executor
// for HTTP APIs.
//
// An [Executor] does not compute anything itself. For every request it
// dispatches a process event named ProcessPrefix+base so that process
// listeners can compute a result, absorbs any process failure into that
// result, then dispatches a response event named ResponsePrefix+base so that
// response listeners can turn the result into a transport-ready response.
//
// # Quick Start
//
//	b := bus.New(bus.WithMiddleware(middleware.Recover(logger)))
//	b.Subscribe("process_get_item", loadItem)
//	b.Subscribe("process_get_item", listener.NewResponseHydrator("").Listener(), bus.WithPriority(-100))
//	b.Subscribe("response_get_item", listener.ErrorRenderer(logger))
//
//	exec, err := controller.New(b, controller.WithLogger(logger))
//	res, err := exec.Execute(ctx, r, "get_item")
//
// # Failure Handling
//
// Process listener errors never escape Execute: the error becomes the result
// handed to the response phase. Response listener errors are returned to the
// caller.
package controller
