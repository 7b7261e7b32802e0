package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/xraph/controller/httpapi"
)

// serverConfig holds the process-level settings of controllerd.
type serverConfig struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	Routes          string        `env:"ROUTES"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	ListenerTimeout time.Duration `env:"LISTENER_TIMEOUT" envDefault:"0s"`
	RateLimit       float64       `env:"RATE_LIMIT" envDefault:"0"`
	RateBurst       int           `env:"RATE_BURST" envDefault:"1"`
	LogLevel        slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	Audit           bool          `env:"AUDIT" envDefault:"false"`
}

func loadServerConfig() (serverConfig, error) {
	var cfg serverConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "CONTROLLER_"}); err != nil {
		return serverConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// defaultRoutes are served when no route table is configured.
var defaultRoutes = []httpapi.Route{
	{Method: "GET", Path: "/ping", Event: "ping"},
	{Method: "GET", Path: "/echo/:value", Event: "echo"},
}

func loadRoutes(path string) ([]httpapi.Route, error) {
	if path == "" {
		return defaultRoutes, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open routes: %w", err)
	}
	defer f.Close()
	return httpapi.LoadRoutes(f)
}
