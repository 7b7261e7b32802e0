// Package event defines the events exchanged between the controller and its
// listeners, the result they carry, and the dispatch contract.
//
// Two events exist per execution. A [ProcessEvent] carries the inbound
// request to the process listeners, which compute a [Result]. A
// [ResponseEvent] is seeded with that result and handed to the response
// listeners, which turn it into something a transport can write.
package event

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedEvent is returned by a typed listener invoked with an
	// event of another type.
	ErrUnexpectedEvent = errors.New("event: unexpected event type")
)

// Event is implemented by every value handed to a [Dispatcher].
type Event interface {
	// StopPropagation prevents further listeners from receiving the event
	// during the current dispatch.
	StopPropagation()

	// PropagationStopped reports whether StopPropagation was called.
	PropagationStopped() bool
}

// Dispatcher delivers an event to every listener registered under name.
// Implementations invoke listeners synchronously and return the first
// listener error as is.
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, evt Event) (Event, error)
}

// Listener reacts to an event dispatched under name. The dispatcher that
// invoked it is passed along so a listener can dispatch follow-up events.
type Listener func(ctx context.Context, evt Event, name string, d Dispatcher) error

// Typed adapts a listener written against a concrete event type.
func Typed[E Event](fn func(ctx context.Context, evt E, name string, d Dispatcher) error) Listener {
	return func(ctx context.Context, evt Event, name string, d Dispatcher) error {
		e, ok := evt.(E)
		if !ok {
			return fmt.Errorf("%w: %T dispatched as %q", ErrUnexpectedEvent, evt, name)
		}
		return fn(ctx, e, name, d)
	}
}

// Propagation implements the propagation half of [Event]. Embed it.
type Propagation struct {
	stopped bool
}

// StopPropagation implements Event.
func (p *Propagation) StopPropagation() { p.stopped = true }

// PropagationStopped implements Event.
func (p *Propagation) PropagationStopped() bool { return p.stopped }
