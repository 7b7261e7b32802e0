package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/xraph/controller"
	audithook "github.com/xraph/controller/audit_hook"
	"github.com/xraph/controller/bus"
	"github.com/xraph/controller/ext"
	"github.com/xraph/controller/httpapi"
	"github.com/xraph/controller/listener"
	"github.com/xraph/controller/middleware"
	"github.com/xraph/controller/observability"
)

// Listener priorities. Application listeners subscribe at the default
// priority 0 and run before the hydrator and renderers.
const (
	priorityHydrate       = -100
	priorityRenderError   = -100
	priorityRenderPayload = -200
)

const readHeaderTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadServerConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

// app is the wired server.
type app struct {
	handler    http.Handler
	bus        *bus.Bus
	extensions *ext.Registry
}

func newApp(cfg serverConfig, logger *slog.Logger) (*app, error) {
	routes, err := loadRoutes(cfg.Routes)
	if err != nil {
		return nil, err
	}
	execCfg, err := controller.ConfigFromEnv()
	if err != nil {
		return nil, err
	}

	mws := []middleware.Middleware{
		middleware.Recover(logger),
		middleware.Tracing(),
		middleware.Metrics(),
		middleware.Logging(logger),
	}
	if cfg.RateLimit > 0 {
		mws = append(mws, middleware.RateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)))
	}
	mws = append(mws, middleware.Timeout(cfg.ListenerTimeout))

	b := bus.New(bus.WithLogger(logger), bus.WithMiddleware(mws...))
	subscribeBuiltins(b)

	registry := ext.NewRegistry(logger)
	registry.Register(observability.NewMetricsExtension())
	if cfg.Audit {
		registry.Register(audithook.New(audithook.LogRecorder(logger), audithook.WithLogger(logger)))
	}

	exec, err := controller.New(b,
		controller.WithLogger(logger),
		controller.WithConfig(execCfg),
		controller.WithExtensions(registry),
	)
	if err != nil {
		return nil, err
	}

	hydrator := listener.NewResponseHydrator("")
	subscribed := make(map[string]bool, len(routes))
	for _, rt := range routes {
		// Several routes may share an event base; its listeners run once.
		if subscribed[rt.Event] {
			continue
		}
		subscribed[rt.Event] = true

		b.Subscribe(exec.ProcessEventName(rt.Event), hydrator.Listener(),
			bus.WithName("hydrator"), bus.WithPriority(priorityHydrate))
		b.Subscribe(exec.ResponseEventName(rt.Event), listener.ErrorRenderer(logger),
			bus.WithName("error-renderer"), bus.WithPriority(priorityRenderError))
		b.Subscribe(exec.ResponseEventName(rt.Event), listener.PayloadRenderer(),
			bus.WithName("payload-renderer"), bus.WithPriority(priorityRenderPayload))
	}

	srv, err := httpapi.New(exec, httpapi.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	srv.Register(engine, routes...)

	return &app{handler: engine, bus: b, extensions: registry}, nil
}

func serve(ctx context.Context, cfg serverConfig) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	gin.SetMode(gin.ReleaseMode)

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           a.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server started", slog.String("addr", cfg.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("server stopping")
		err := httpServer.Shutdown(shutdownCtx)
		a.extensions.EmitShutdown(shutdownCtx)
		return err
	})
	return g.Wait()
}
