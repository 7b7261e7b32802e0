package middleware

import (
	"context"
	"log/slog"
	"time"
)

// Logging returns middleware that logs listener start and completion.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, c *Call, next Handler) error {
		logger.Debug("listener started",
			slog.String("event_name", c.Event),
			slog.String("listener", c.Listener),
			slog.Int("priority", c.Priority),
		)

		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start)

		if err != nil {
			logger.Error("listener failed",
				slog.String("event_name", c.Event),
				slog.String("listener", c.Listener),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
		} else {
			logger.Debug("listener completed",
				slog.String("event_name", c.Event),
				slog.String("listener", c.Listener),
				slog.Duration("elapsed", elapsed),
			)
		}

		return err
	}
}
