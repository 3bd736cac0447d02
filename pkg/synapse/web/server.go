// Package web defines a framework-agnostic HTTP surface whose handlers are
// resolved from a container, with adapters for Echo, Gin, and Fiber under
// web/adapters.
package web

import (
	"context"
	"net/http"
)

// Server is the contract adapters implement over a concrete web framework
type Server interface {
	// Handle registers a route. Path parameters use the ":name" form,
	// which every supported framework accepts natively.
	Handle(method, path string, handler HandlerFunc, middlewares ...MiddlewareFunc)

	// Use adds global middleware, applied to routes registered afterwards
	Use(middleware MiddlewareFunc)

	// Start begins serving on the given address and blocks until shutdown
	Start(addr string) error

	// Shutdown stops the server gracefully
	Shutdown(ctx context.Context) error

	// Name identifies the underlying framework
	Name() string
}

// Context is the request surface handlers are written against
type Context interface {
	Method() string
	Path() string
	Param(name string) string
	QueryParam(name string) string
	Header(name string) string
	SetHeader(name, value string)
	Bind(v interface{}) error
	JSON(code int, v interface{}) error
	String(code int, s string) error
	NoContent(code int) error
}

// HandlerFunc handles one request. Returning an error produces an error
// response; use NewHTTPError to control the status code.
type HandlerFunc func(Context) error

// MiddlewareFunc wraps a handler
type MiddlewareFunc func(HandlerFunc) HandlerFunc

// HTTPError carries a status code for the adapter's error response
type HTTPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`

	// Internal is the wrapped cause, not exposed in the response
	Internal error `json:"-"`
}

func (e *HTTPError) Error() string {
	if e.Internal != nil {
		return e.Message + ": " + e.Internal.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error { return e.Internal }

// NewHTTPError creates an HTTPError with an optional message, defaulting to
// the standard status text
func NewHTTPError(code int, message ...string) *HTTPError {
	e := &HTTPError{Code: code, Message: http.StatusText(code)}
	if len(message) > 0 {
		e.Message = message[0]
	}
	return e
}

// ErrorResponse maps a handler error to the status and body adapters write.
// HTTPError keeps its code; everything else becomes a 500 without leaking
// the internal message.
func ErrorResponse(err error) (int, HTTPError) {
	if he, ok := err.(*HTTPError); ok {
		return he.Code, HTTPError{Code: he.Code, Message: he.Message}
	}
	code := http.StatusInternalServerError
	return code, HTTPError{Code: code, Message: http.StatusText(code)}
}

// Chain applies middleware to a handler, first middleware outermost
func Chain(handler HandlerFunc, middlewares ...MiddlewareFunc) HandlerFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}
