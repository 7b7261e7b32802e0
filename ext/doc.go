// Package ext defines the extension system for the controller.
//
// Extensions are notified of execution lifecycle events and can react to
// them, for example by recording metrics or writing audit records. Each
// lifecycle hook is a separate interface so extensions opt in only to the
// events they care about.
//
// # Implementing an Extension
//
//	type MyExtension struct{}
//
//	func (e *MyExtension) Name() string { return "my-extension" }
//
//	// Opt in to specific hooks by implementing their interfaces.
//	func (e *MyExtension) OnProcessFailed(ctx context.Context, execID id.ExecutionID, eventName string, err error) error {
//	    log.Printf("%s: %s failed: %v", execID, eventName, err)
//	    return nil
//	}
//
// # Hooks
//
//   - [ProcessStarted]: the process event is about to be dispatched
//   - [ProcessFailed]: a process listener failed; the error became the result
//   - [ResponseStarted]: the response event is about to be dispatched
//   - [ExecutionCompleted]: both phases ran; carries the final result
//   - [ExecutionFailed]: a response listener failed; Execute returns the error
//   - [Shutdown]: the host is shutting down gracefully
//
// The [Registry] fans out each event to all registered extensions that
// implement the corresponding hook interface.
package ext
