package controller

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds configuration for the Executor.
type Config struct {
	// ProcessPrefix is prepended to the base event name to build the
	// process event name.
	ProcessPrefix string `env:"PROCESS_PREFIX" envDefault:"process_"`

	// ResponsePrefix is prepended to the base event name to build the
	// response event name.
	ResponsePrefix string `env:"RESPONSE_PREFIX" envDefault:"response_"`

	// Name identifies the executor in log records.
	Name string `env:"NAME" envDefault:"controller"`
}

// envPrefix namespaces the environment variables read by ConfigFromEnv.
const envPrefix = "CONTROLLER_"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ProcessPrefix:  "process_",
		ResponsePrefix: "response_",
		Name:           "controller",
	}
}

// ConfigFromEnv loads a Config from CONTROLLER_PROCESS_PREFIX,
// CONTROLLER_RESPONSE_PREFIX and CONTROLLER_NAME, falling back to the
// defaults for unset variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, fmt.Errorf("controller: parse env: %w", err)
	}
	return cfg, nil
}
