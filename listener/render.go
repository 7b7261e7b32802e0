package listener

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/xraph/controller/event"
	"github.com/xraph/controller/middleware"
)

// H is a shortcut for JSON object bodies.
type H map[string]any

// Response is a transport-ready response: an HTTP status code and a body
// to be serialized by the transport.
type Response struct {
	Code int
	Body any
}

// StatusCoder is implemented by errors that carry their own HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// HTTPError is an error with an HTTP status code.
type HTTPError struct {
	Code    int
	Message string
}

// NewHTTPError returns an error rendered with the given status code.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{Code: code, Message: message}
}

func (e *HTTPError) Error() string { return e.Message }

// StatusCode implements StatusCoder.
func (e *HTTPError) StatusCode() int { return e.Code }

// StatusFor maps an error to the HTTP status it should be rendered with.
func StatusFor(err error) int {
	var sc StatusCoder
	switch {
	case errors.As(err, &sc):
		return sc.StatusCode()
	case errors.Is(err, ErrConfiguration):
		return http.StatusInternalServerError
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, middleware.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// ErrorRenderer returns a response listener replacing a failure result with
// a *Response carrying StatusFor(err) and an {"error": message} body.
// Server errors are logged; their message is not exposed unless the error
// carries its own status.
func ErrorRenderer(logger *slog.Logger) event.Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return event.Typed(func(_ context.Context, evt *event.ResponseEvent, name string, _ event.Dispatcher) error {
		res := evt.Result()
		if !res.IsFailure() {
			return nil
		}

		err := res.Err()
		code := StatusFor(err)
		msg := err.Error()

		var sc StatusCoder
		if code >= http.StatusInternalServerError && !errors.As(err, &sc) {
			logger.Error("rendering server error",
				slog.String("event_name", name),
				slog.Int("status", code),
				slog.String("error", msg),
			)
			msg = http.StatusText(code)
		}

		evt.SetResult(event.Payload(&Response{Code: code, Body: H{"error": msg}}))
		return nil
	})
}

// PayloadRenderer returns a response listener wrapping a plain payload in a
// 200 *Response and an unset result in a 204 *Response. Failures and
// payloads that already are a *Response are left alone.
func PayloadRenderer() event.Listener {
	return event.Typed(func(_ context.Context, evt *event.ResponseEvent, _ string, _ event.Dispatcher) error {
		res := evt.Result()
		switch {
		case res.IsFailure():
			return nil
		case !res.IsSet():
			evt.SetResult(event.Payload(&Response{Code: http.StatusNoContent}))
		default:
			if _, ok := res.Value().(*Response); ok {
				return nil
			}
			evt.SetResult(event.Payload(&Response{Code: http.StatusOK, Body: res.Value()}))
		}
		return nil
	})
}
