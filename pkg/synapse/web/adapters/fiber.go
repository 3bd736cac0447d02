package adapters

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/toyz/synapse/pkg/synapse/web"
)

// FiberAdapter implements web.Server for Fiber v2
type FiberAdapter struct {
	app *fiber.App
}

// NewFiberAdapter wraps an existing Fiber app
func NewFiberAdapter(app *fiber.App) *FiberAdapter {
	return &FiberAdapter{app: app}
}

// NewDefaultFiberAdapter creates an adapter over a fresh app with the
// startup message suppressed
func NewDefaultFiberAdapter() *FiberAdapter {
	return &FiberAdapter{app: fiber.New(fiber.Config{DisableStartupMessage: true})}
}

// Handle registers a route with the Fiber router
func (fa *FiberAdapter) Handle(method, path string, handler web.HandlerFunc, middlewares ...web.MiddlewareFunc) {
	chained := web.Chain(handler, middlewares...)
	fa.app.Add(method, path, func(c *fiber.Ctx) error {
		if err := chained(&fiberContext{context: c}); err != nil {
			code, body := web.ErrorResponse(err)
			return c.Status(code).JSON(body)
		}
		return nil
	})
}

// Use adds global middleware
func (fa *FiberAdapter) Use(middleware web.MiddlewareFunc) {
	fa.app.Use(func(c *fiber.Ctx) error {
		wrapped := middleware(func(web.Context) error { return c.Next() })
		if err := wrapped(&fiberContext{context: c}); err != nil {
			code, body := web.ErrorResponse(err)
			return c.Status(code).JSON(body)
		}
		return nil
	})
}

// Start begins serving and blocks until shutdown
func (fa *FiberAdapter) Start(addr string) error {
	return fa.app.Listen(addr)
}

// Shutdown stops the server gracefully
func (fa *FiberAdapter) Shutdown(ctx context.Context) error {
	return fa.app.ShutdownWithContext(ctx)
}

// Name identifies the framework
func (fa *FiberAdapter) Name() string {
	return "Fiber"
}

// App exposes the underlying Fiber app
func (fa *FiberAdapter) App() *fiber.App {
	return fa.app
}

// fiberContext implements web.Context over fiber.Ctx
type fiberContext struct {
	context *fiber.Ctx
}

func (fc *fiberContext) Method() string {
	return fc.context.Method()
}

func (fc *fiberContext) Path() string {
	return fc.context.Path()
}

func (fc *fiberContext) Param(name string) string {
	return fc.context.Params(name)
}

func (fc *fiberContext) QueryParam(name string) string {
	return fc.context.Query(name)
}

func (fc *fiberContext) Header(name string) string {
	return fc.context.Get(name)
}

func (fc *fiberContext) SetHeader(name, value string) {
	fc.context.Set(name, value)
}

func (fc *fiberContext) Bind(v interface{}) error {
	return fc.context.BodyParser(v)
}

func (fc *fiberContext) JSON(code int, v interface{}) error {
	return fc.context.Status(code).JSON(v)
}

func (fc *fiberContext) String(code int, s string) error {
	return fc.context.Status(code).SendString(s)
}

func (fc *fiberContext) NoContent(code int) error {
	return fc.context.Status(code).Send(nil)
}
