// Package httpapi exposes an Executor over HTTP with gin.
//
// gin does the routing; each Route only names the event base an incoming
// request is executed under. The final result is written as JSON:
//
//   - a *listener.Response is written with its own status code
//   - any other payload is written with 200
//   - an unset result becomes 204 No Content
//   - an unrendered failure becomes 500 with its message
//
// Route parameters are available to listeners through Param.
package httpapi
