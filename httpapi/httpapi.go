package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xraph/controller"
	"github.com/xraph/controller/listener"
)

// ErrNoExecutor is returned by New when no executor is given.
var ErrNoExecutor = errors.New("httpapi: executor is required")

// Route binds an HTTP method and path to an event base name.
type Route struct {
	Method string `yaml:"method"`
	Path   string `yaml:"path"`
	Event  string `yaml:"event"`
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for response-phase failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// Server turns gin requests into executor runs.
type Server struct {
	exec   *controller.Executor
	logger *slog.Logger
}

// New creates a Server backed by exec.
func New(exec *controller.Executor, opts ...Option) (*Server, error) {
	if exec == nil {
		return nil, ErrNoExecutor
	}
	s := &Server{exec: exec, logger: exec.Logger()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Register adds every route to r.
func (s *Server) Register(r gin.IRoutes, routes ...Route) {
	for _, rt := range routes {
		r.Handle(rt.Method, rt.Path, s.Handler(rt.Event))
	}
}

// Handler returns a gin handler executing the given event base name.
func (s *Server) Handler(base string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.WithValue(c.Request.Context(), paramsKey{}, c.Params)
		req := c.Request.WithContext(ctx)

		res, err := s.exec.Execute(ctx, req, base)
		if err != nil {
			s.logger.Error("response error",
				slog.String("request_method", req.Method),
				slog.String("path", c.FullPath()),
				slog.String("event_name", s.exec.ResponseEventName(base)),
				slog.String("error", err.Error()),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		switch {
		case !res.IsSet():
			c.Status(http.StatusNoContent)
		case res.IsFailure():
			c.JSON(http.StatusInternalServerError, gin.H{"error": res.Err().Error()})
		default:
			write(c, res.Value())
		}
	}
}

func write(c *gin.Context, v any) {
	resp, ok := v.(*listener.Response)
	if !ok {
		c.JSON(http.StatusOK, v)
		return
	}
	if resp.Code == http.StatusNoContent || resp.Body == nil {
		c.Status(resp.Code)
		return
	}
	c.JSON(resp.Code, resp.Body)
}

type paramsKey struct{}

// Param returns the value of the named route parameter for r, or "" when
// r was not routed through a Server.
func Param(r *http.Request, name string) string {
	params, ok := r.Context().Value(paramsKey{}).(gin.Params)
	if !ok {
		return ""
	}
	return params.ByName(name)
}
