package event

// Result is the value an execution produces: a payload, a failure, or
// nothing yet. The zero value is unset.
//
// The same slot travels from the process phase into the response phase, so
// response listeners see either what the process listeners produced or the
// error that aborted them.
type Result struct {
	value any
	err   error
	set   bool
}

// Payload returns a successful result holding v. v may be nil.
func Payload(v any) Result {
	return Result{value: v, set: true}
}

// Failure returns a failed result holding err. A nil err yields an unset
// result.
func Failure(err error) Result {
	if err == nil {
		return Result{}
	}
	return Result{err: err, set: true}
}

// IsSet reports whether a payload or a failure was stored.
func (r Result) IsSet() bool { return r.set }

// IsFailure reports whether the result holds an error.
func (r Result) IsFailure() bool { return r.err != nil }

// Err returns the failure, or nil for payloads and unset results.
func (r Result) Err() error { return r.err }

// Value returns the payload, or the error itself for a failure.
func (r Result) Value() any {
	if r.err != nil {
		return r.err
	}
	return r.value
}
