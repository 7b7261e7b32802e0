// Package listener provides reusable listeners for the controller's two
// dispatch phases.
//
// [ResponseHydrator] is a process listener that promotes one parameter to be
// the event result. [ErrorRenderer] and [PayloadRenderer] are response
// listeners turning a result into a [Response] a transport can write.
package listener

import (
	"context"
	"errors"
	"fmt"

	"github.com/xraph/controller/event"
)

// DefaultParameterName is the parameter a ResponseHydrator reads when none
// is configured.
const DefaultParameterName = "response"

// ErrConfiguration is matched by errors reporting a listener wiring
// mistake, such as a hydrated parameter nobody set.
var ErrConfiguration = errors.New("listener: configuration error")

// ConfigError reports that the parameter a ResponseHydrator expects is not
// in the event parameter bag.
type ConfigError struct {
	Parameter string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("listener: parameter %q does not exist in the event parameter bag; "+
		"this can be due to an unplugged listener or a swallowed error upstream", e.Parameter)
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigError) Is(target error) bool { return target == ErrConfiguration }

// ResponseHydrator copies a named parameter of a process event into the
// event result.
type ResponseHydrator struct {
	parameterName string
}

// NewResponseHydrator creates a hydrator reading parameterName, or
// DefaultParameterName when parameterName is empty.
func NewResponseHydrator(parameterName string) *ResponseHydrator {
	if parameterName == "" {
		parameterName = DefaultParameterName
	}
	return &ResponseHydrator{parameterName: parameterName}
}

// ParameterName returns the parameter the hydrator reads.
func (h *ResponseHydrator) ParameterName() string { return h.parameterName }

// Hydrate sets the event result to the configured parameter. It fails with
// a *ConfigError when the parameter is absent; the event is left untouched.
func (h *ResponseHydrator) Hydrate(_ context.Context, evt *event.ProcessEvent, _ string, _ event.Dispatcher) error {
	if !evt.HasParameter(h.parameterName) {
		return &ConfigError{Parameter: h.parameterName}
	}
	evt.SetResult(event.Payload(evt.Parameter(h.parameterName)))
	return nil
}

// Listener returns Hydrate as a listener that can be subscribed to a bus.
func (h *ResponseHydrator) Listener() event.Listener {
	return event.Typed(h.Hydrate)
}
