package event

import (
	"net/http"

	"github.com/xraph/controller/param"
)

// ProcessEvent is dispatched once per request during the process phase.
// Process listeners read the request, exchange intermediate values through
// the parameter bag and store the outcome with SetResult.
type ProcessEvent struct {
	Propagation

	request *http.Request
	result  Result
	params  *param.Bag
}

// NewProcessEvent creates a process event for r. It panics if r is nil.
func NewProcessEvent(r *http.Request) *ProcessEvent {
	if r == nil {
		panic("event: nil request")
	}
	return &ProcessEvent{request: r, params: param.New()}
}

// Request returns the request the event was created for.
func (e *ProcessEvent) Request() *http.Request { return e.request }

// SetResult replaces the event result.
func (e *ProcessEvent) SetResult(r Result) *ProcessEvent {
	e.result = r
	return e
}

// Result returns the event result.
func (e *ProcessEvent) Result() Result { return e.result }

// SetParameter stores value under name.
func (e *ProcessEvent) SetParameter(name string, value any) *ProcessEvent {
	e.params.Set(name, value)
	return e
}

// Parameter returns the value stored under name, or nil.
func (e *ProcessEvent) Parameter(name string) any { return e.params.Get(name) }

// HasParameter reports whether name is stored.
func (e *ProcessEvent) HasParameter(name string) bool { return e.params.Has(name) }

// SetParameters replaces every parameter with params.
func (e *ProcessEvent) SetParameters(params map[string]any) *ProcessEvent {
	e.params.SetAll(params)
	return e
}

// Parameters returns a snapshot of the parameters.
func (e *ProcessEvent) Parameters() map[string]any { return e.params.All() }

// ParameterKeys returns the parameter names in insertion order.
func (e *ProcessEvent) ParameterKeys() []string { return e.params.Keys() }
