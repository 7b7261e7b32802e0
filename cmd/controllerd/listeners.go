package main

import (
	"context"
	"time"

	"github.com/xraph/controller/bus"
	"github.com/xraph/controller/event"
	"github.com/xraph/controller/httpapi"
	"github.com/xraph/controller/listener"
)

// subscribeBuiltins registers the ping and echo handlers.
func subscribeBuiltins(b *bus.Bus) {
	b.Subscribe("process_ping", event.Typed(ping), bus.WithName("ping"))
	b.Subscribe("process_echo", event.Typed(echo), bus.WithName("echo"))
}

func ping(_ context.Context, evt *event.ProcessEvent, _ string, _ event.Dispatcher) error {
	evt.SetParameter(listener.DefaultParameterName, listener.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}

func echo(_ context.Context, evt *event.ProcessEvent, _ string, _ event.Dispatcher) error {
	r := evt.Request()
	evt.SetParameter(listener.DefaultParameterName, listener.H{
		"method": r.Method,
		"path":   r.URL.Path,
		"value":  httpapi.Param(r, "value"),
		"query":  r.URL.Query(),
	})
	return nil
}
