package event

import "github.com/xraph/controller/param"

// ResponseEvent is dispatched once per request during the response phase,
// seeded with the process result. Response listeners may overwrite the
// result, typically with a transport-ready response.
type ResponseEvent struct {
	Propagation

	result Result
	params *param.Bag
}

// NewResponseEvent creates a response event with an unset result.
func NewResponseEvent() *ResponseEvent {
	return &ResponseEvent{params: param.New()}
}

// SetResult replaces the event result.
func (e *ResponseEvent) SetResult(r Result) *ResponseEvent {
	e.result = r
	return e
}

// Result returns the event result.
func (e *ResponseEvent) Result() Result { return e.result }

// SetParameter stores value under name.
func (e *ResponseEvent) SetParameter(name string, value any) *ResponseEvent {
	e.params.Set(name, value)
	return e
}

// Parameter returns the value stored under name, or nil.
func (e *ResponseEvent) Parameter(name string) any { return e.params.Get(name) }

// HasParameter reports whether name is stored.
func (e *ResponseEvent) HasParameter(name string) bool { return e.params.Has(name) }

// SetParameters replaces every parameter with params.
func (e *ResponseEvent) SetParameters(params map[string]any) *ResponseEvent {
	e.params.SetAll(params)
	return e
}

// Parameters returns a snapshot of the parameters.
func (e *ResponseEvent) Parameters() map[string]any { return e.params.All() }

// ParameterKeys returns the parameter names in insertion order.
func (e *ResponseEvent) ParameterKeys() []string { return e.params.Keys() }
