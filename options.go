package controller

import (
	"log/slog"

	"github.com/xraph/controller/ext"
)

// Option configures an Executor.
type Option func(*Executor) error

// WithLogger sets the structured logger for the executor.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) error {
		if l == nil {
			return ErrNoLogger
		}
		e.logger = l
		return nil
	}
}

// WithConfig replaces the whole executor configuration.
func WithConfig(cfg Config) Option {
	return func(e *Executor) error {
		e.config = cfg
		return nil
	}
}

// WithProcessPrefix sets the prefix of process event names.
func WithProcessPrefix(prefix string) Option {
	return func(e *Executor) error {
		e.config.ProcessPrefix = prefix
		return nil
	}
}

// WithResponsePrefix sets the prefix of response event names.
func WithResponsePrefix(prefix string) Option {
	return func(e *Executor) error {
		e.config.ResponsePrefix = prefix
		return nil
	}
}

// WithName sets the name identifying the executor in log records.
func WithName(name string) Option {
	return func(e *Executor) error {
		e.config.Name = name
		return nil
	}
}

// WithExtensions sets the registry notified of execution lifecycle events.
func WithExtensions(r *ext.Registry) Option {
	return func(e *Executor) error {
		e.extensions = r
		return nil
	}
}
