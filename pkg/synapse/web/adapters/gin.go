package adapters

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/toyz/synapse/pkg/synapse/web"
)

// GinAdapter implements web.Server for Gin. Gin does not own a listener, so
// the adapter manages an http.Server for lifecycle.
type GinAdapter struct {
	engine *gin.Engine

	mu     sync.Mutex
	server *http.Server
}

// NewGinAdapter wraps an existing Gin engine
func NewGinAdapter(e *gin.Engine) *GinAdapter {
	return &GinAdapter{engine: e}
}

// NewDefaultGinAdapter creates an adapter over a fresh engine in release
// mode with the recovery middleware installed
func NewDefaultGinAdapter() *GinAdapter {
	gin.SetMode(gin.ReleaseMode)
	e := gin.New()
	e.Use(gin.Recovery())
	return &GinAdapter{engine: e}
}

// Handle registers a route with the Gin router
func (ga *GinAdapter) Handle(method, path string, handler web.HandlerFunc, middlewares ...web.MiddlewareFunc) {
	chained := web.Chain(handler, middlewares...)
	ga.engine.Handle(method, path, func(c *gin.Context) {
		if err := chained(&ginContext{context: c}); err != nil {
			code, body := web.ErrorResponse(err)
			c.AbortWithStatusJSON(code, body)
		}
	})
}

// Use adds global middleware
func (ga *GinAdapter) Use(middleware web.MiddlewareFunc) {
	ga.engine.Use(func(c *gin.Context) {
		wrapped := middleware(func(web.Context) error {
			c.Next()
			return nil
		})
		if err := wrapped(&ginContext{context: c}); err != nil {
			code, body := web.ErrorResponse(err)
			c.AbortWithStatusJSON(code, body)
		}
	})
}

// Start begins serving and blocks until shutdown
func (ga *GinAdapter) Start(addr string) error {
	ga.mu.Lock()
	ga.server = &http.Server{Addr: addr, Handler: ga.engine}
	server := ga.server
	ga.mu.Unlock()

	return server.ListenAndServe()
}

// Shutdown stops the server gracefully. A no-op when Start was never called.
func (ga *GinAdapter) Shutdown(ctx context.Context) error {
	ga.mu.Lock()
	server := ga.server
	ga.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

// Name identifies the framework
func (ga *GinAdapter) Name() string {
	return "Gin"
}

// Engine exposes the underlying Gin engine
func (ga *GinAdapter) Engine() *gin.Engine {
	return ga.engine
}

// ginContext implements web.Context over gin.Context
type ginContext struct {
	context *gin.Context
}

func (gc *ginContext) Method() string {
	return gc.context.Request.Method
}

func (gc *ginContext) Path() string {
	return gc.context.Request.URL.Path
}

func (gc *ginContext) Param(name string) string {
	return gc.context.Param(name)
}

func (gc *ginContext) QueryParam(name string) string {
	return gc.context.Query(name)
}

func (gc *ginContext) Header(name string) string {
	return gc.context.GetHeader(name)
}

func (gc *ginContext) SetHeader(name, value string) {
	gc.context.Header(name, value)
}

func (gc *ginContext) Bind(v interface{}) error {
	return gc.context.ShouldBind(v)
}

func (gc *ginContext) JSON(code int, v interface{}) error {
	gc.context.JSON(code, v)
	return nil
}

func (gc *ginContext) String(code int, s string) error {
	gc.context.String(code, "%s", s)
	return nil
}

func (gc *ginContext) NoContent(code int) error {
	gc.context.Status(code)
	return nil
}
