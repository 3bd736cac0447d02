package adapters

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toyz/synapse/pkg/synapse/web"
)

func fiberBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestFiberAdapter_HandlesRoutes(t *testing.T) {
	adapter := NewDefaultFiberAdapter()
	adapter.Handle("GET", "/users/:id", func(c web.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"id": c.Param("id")})
	})

	resp, err := adapter.App().Test(httptest.NewRequest(http.MethodGet, "/users/42", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, fiberBody(t, resp), `"id":"42"`)
}

func TestFiberAdapter_BindsRequestBody(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	adapter := NewDefaultFiberAdapter()
	adapter.Handle("POST", "/users", func(c web.Context) error {
		var p payload
		if err := c.Bind(&p); err != nil {
			return web.NewHTTPError(http.StatusBadRequest)
		}
		return c.String(http.StatusCreated, p.Name)
	})

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"ada"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := adapter.App().Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "ada", fiberBody(t, resp))
}

func TestFiberAdapter_ErrorMapping(t *testing.T) {
	adapter := NewDefaultFiberAdapter()
	adapter.Handle("GET", "/boom", func(c web.Context) error {
		return web.NewHTTPError(http.StatusTeapot, "short and stout")
	})

	resp, err := adapter.App().Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Contains(t, fiberBody(t, resp), "short and stout")
}

func TestFiberAdapter_Middleware(t *testing.T) {
	adapter := NewDefaultFiberAdapter()
	adapter.Use(func(next web.HandlerFunc) web.HandlerFunc {
		return func(c web.Context) error {
			c.SetHeader("X-Trace", "abc")
			return next(c)
		}
	})
	adapter.Handle("GET", "/", func(c web.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	resp, err := adapter.App().Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "abc", resp.Header.Get("X-Trace"))
}

func TestFiberAdapter_Name(t *testing.T) {
	require.Equal(t, "Fiber", NewDefaultFiberAdapter().Name())
}
