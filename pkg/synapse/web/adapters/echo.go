// Package adapters bridges the web.Server contract onto Echo, Gin, and
// Fiber.
package adapters

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/toyz/synapse/pkg/synapse/web"
)

// EchoAdapter implements web.Server for Echo v4
type EchoAdapter struct {
	engine *echo.Echo
}

// NewEchoAdapter wraps an existing Echo instance
func NewEchoAdapter(e *echo.Echo) *EchoAdapter {
	return &EchoAdapter{engine: e}
}

// NewDefaultEchoAdapter creates an adapter over a fresh Echo instance with
// the startup banner suppressed
func NewDefaultEchoAdapter() *EchoAdapter {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	return &EchoAdapter{engine: e}
}

// Handle registers a route with the Echo router
func (ea *EchoAdapter) Handle(method, path string, handler web.HandlerFunc, middlewares ...web.MiddlewareFunc) {
	chained := web.Chain(handler, middlewares...)
	ea.engine.Add(method, path, func(c echo.Context) error {
		if err := chained(&echoContext{context: c}); err != nil {
			code, body := web.ErrorResponse(err)
			return c.JSON(code, body)
		}
		return nil
	})
}

// Use adds global middleware
func (ea *EchoAdapter) Use(middleware web.MiddlewareFunc) {
	ea.engine.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			wrapped := middleware(func(web.Context) error { return next(c) })
			return wrapped(&echoContext{context: c})
		}
	})
}

// Start begins serving and blocks until shutdown
func (ea *EchoAdapter) Start(addr string) error {
	return ea.engine.Start(addr)
}

// Shutdown stops the server gracefully
func (ea *EchoAdapter) Shutdown(ctx context.Context) error {
	return ea.engine.Shutdown(ctx)
}

// Name identifies the framework
func (ea *EchoAdapter) Name() string {
	return "Echo"
}

// Engine exposes the underlying Echo instance
func (ea *EchoAdapter) Engine() *echo.Echo {
	return ea.engine
}

// echoContext implements web.Context over echo.Context
type echoContext struct {
	context echo.Context
}

func (ec *echoContext) Method() string {
	return ec.context.Request().Method
}

func (ec *echoContext) Path() string {
	return ec.context.Request().URL.Path
}

func (ec *echoContext) Param(name string) string {
	return ec.context.Param(name)
}

func (ec *echoContext) QueryParam(name string) string {
	return ec.context.QueryParam(name)
}

func (ec *echoContext) Header(name string) string {
	return ec.context.Request().Header.Get(name)
}

func (ec *echoContext) SetHeader(name, value string) {
	ec.context.Response().Header().Set(name, value)
}

func (ec *echoContext) Bind(v interface{}) error {
	return ec.context.Bind(v)
}

func (ec *echoContext) JSON(code int, v interface{}) error {
	return ec.context.JSON(code, v)
}

func (ec *echoContext) String(code int, s string) error {
	return ec.context.String(code, s)
}

func (ec *echoContext) NoContent(code int) error {
	return ec.context.NoContent(code)
}
