// Package bus provides the in-process event dispatcher used by the
// controller. Listeners subscribe to an event name with an optional priority;
// Dispatch delivers an event to them synchronously, highest priority first,
// through the configured middleware chain.
package bus

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"

	"github.com/xraph/controller/event"
	"github.com/xraph/controller/middleware"
)

var (
	// ErrNilEvent is returned when Dispatch is called without an event.
	ErrNilEvent = errors.New("bus: nil event")
)

// Compile-time interface check.
var _ event.Dispatcher = (*Bus)(nil)

// subscription pairs a listener with the metadata captured at subscription
// time.
type subscription struct {
	name     string
	priority int
	seq      uint64
	listener event.Listener
}

// Bus is a synchronous, priority-ordered event dispatcher. It is safe for
// concurrent use; each dispatch works on a snapshot of the listeners
// subscribed when it started.
type Bus struct {
	logger *slog.Logger
	chain  middleware.Middleware

	mu        sync.RWMutex
	listeners map[string][]subscription
	seq       uint64
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the structured logger for the bus.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bus) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithMiddleware sets the middleware wrapping every listener call. The first
// middleware is the outermost wrapper.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(b *Bus) { b.chain = middleware.Chain(mws...) }
}

// New creates an empty bus.
func New(opts ...Option) *Bus {
	b := &Bus{
		logger:    slog.Default(),
		chain:     middleware.Chain(),
		listeners: make(map[string][]subscription),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SubscribeOption configures a single subscription.
type SubscribeOption func(*subscription)

// WithPriority sets the listener priority. Higher priorities run first;
// the default is 0.
func WithPriority(p int) SubscribeOption {
	return func(s *subscription) { s.priority = p }
}

// WithName sets the listener name used in logs, spans and Unsubscribe.
func WithName(name string) SubscribeOption {
	return func(s *subscription) { s.name = name }
}

// Subscribe registers l for events dispatched under eventName. Listeners
// with equal priority run in subscription order.
func (b *Bus) Subscribe(eventName string, l event.Listener, opts ...SubscribeOption) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	s := subscription{seq: b.seq, listener: l}
	for _, opt := range opts {
		opt(&s)
	}
	if s.name == "" {
		s.name = fmt.Sprintf("listener-%d", s.seq)
	}

	// Copy on write: in-flight dispatches keep iterating their snapshot.
	subs := append(slices.Clone(b.listeners[eventName]), s)
	slices.SortStableFunc(subs, func(x, y subscription) int {
		if c := cmp.Compare(y.priority, x.priority); c != 0 {
			return c
		}
		return cmp.Compare(x.seq, y.seq)
	})
	b.listeners[eventName] = subs
}

// Unsubscribe removes the listener subscribed under listenerName for
// eventName and reports whether one was found.
func (b *Bus) Unsubscribe(eventName, listenerName string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.listeners[eventName]
	i := slices.IndexFunc(subs, func(s subscription) bool { return s.name == listenerName })
	if i < 0 {
		return false
	}
	subs = slices.Delete(slices.Clone(subs), i, i+1)
	if len(subs) == 0 {
		delete(b.listeners, eventName)
	} else {
		b.listeners[eventName] = subs
	}
	return true
}

// HasListeners reports whether any listener is subscribed to eventName.
func (b *Bus) HasListeners(eventName string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[eventName]) > 0
}

// Listeners returns the names of the listeners subscribed to eventName in
// invocation order.
func (b *Bus) Listeners(eventName string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	subs := b.listeners[eventName]
	names := make([]string, len(subs))
	for i, s := range subs {
		names[i] = s.name
	}
	return names
}

// Dispatch delivers evt to every listener subscribed under name. It stops at
// the first listener error, which is returned unwrapped, or as soon as a
// listener stops the event's propagation. A nil event, including a typed nil
// pointer, is rejected with ErrNilEvent.
func (b *Bus) Dispatch(ctx context.Context, name string, evt event.Event) (event.Event, error) {
	if isNil(evt) {
		return nil, ErrNilEvent
	}

	b.mu.RLock()
	subs := b.listeners[name]
	b.mu.RUnlock()

	if len(subs) == 0 {
		b.logger.Debug("no listeners", slog.String("event_name", name))
		return evt, nil
	}

	for _, s := range subs {
		if evt.PropagationStopped() {
			b.logger.Debug("propagation stopped",
				slog.String("event_name", name),
				slog.String("before_listener", s.name),
			)
			break
		}

		call := &middleware.Call{
			Event:    name,
			Listener: s.name,
			Priority: s.priority,
			Target:   evt,
		}
		l := s.listener
		err := b.chain(ctx, call, func(ctx context.Context) error {
			return l(ctx, evt, name, b)
		})
		if err != nil {
			return evt, err
		}
	}

	return evt, nil
}

func isNil(evt event.Event) bool {
	if evt == nil {
		return true
	}
	v := reflect.ValueOf(evt)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
