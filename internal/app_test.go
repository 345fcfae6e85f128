package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/pkg/container"
)

func doRequest(app *App, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestAppRouting(t *testing.T) {
	t.Parallel()

	app := New(WithRoutes(func(r Router) {
		r.GET("/ping", func(c Context) error {
			return c.String(http.StatusOK, "pong")
		})
		r.GET("/users/{id}", func(c Context) error {
			info := c.RouteInfo()
			return c.JSON(http.StatusOK, map[string]any{
				"id":      c.Param("id"),
				"route":   c.Route(),
				"method":  info.Method,
				"handler": info.Handler != nil,
			})
		})
	}))

	rec := doRequest(app, http.MethodGet, "/ping")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())

	rec = doRequest(app, http.MethodGet, "/users/42")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"42"`)
	assert.Contains(t, rec.Body.String(), `"route":"/users/{id}"`)
	assert.Contains(t, rec.Body.String(), `"method":"GET"`)
	assert.Contains(t, rec.Body.String(), `"handler":true`)
}

func TestAppNotFoundFallback(t *testing.T) {
	t.Parallel()

	app := New()

	rec := doRequest(app, http.MethodGet, "/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, rec.Body.String(), `"status":404`)
}

func TestAppMethodNotAllowed(t *testing.T) {
	t.Parallel()

	app := New(WithRoutes(func(r Router) {
		r.GET("/users", func(c Context) error { return c.NoContent(http.StatusOK) })
		r.POST("/users", func(c Context) error { return c.NoContent(http.StatusCreated) })
	}))

	rec := doRequest(app, http.MethodDelete, "/users")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, POST", rec.Header().Get("Allow"))
	assert.Contains(t, rec.Body.String(), `"allowed":["GET","POST"]`)
}

func TestAppValidationErrorBody(t *testing.T) {
	t.Parallel()

	app := New(WithRoutes(func(r Router) {
		r.POST("/users", func(c Context) error {
			return ValidationErrors{"email": {"required"}}
		})
	}))

	rec := doRequest(app, http.MethodPost, "/users")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"fields":{"email":["required"]}`)
}

func TestAppStatusKeyedErrorHandlers(t *testing.T) {
	t.Parallel()

	app := New(
		WithRoutes(func(r Router) {
			r.GET("/teapot", func(c Context) error {
				return c.Error(http.StatusTeapot, "short and stout")
			})
		}),
		OnError(http.StatusNotFound, func(c Context, err error) error {
			return c.String(http.StatusNotFound, "custom 404")
		}),
		OnError(http.StatusTeapot, func(c Context, err error) error {
			return c.String(http.StatusTeapot, "custom teapot")
		}),
	)

	rec := doRequest(app, http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "custom 404", rec.Body.String())

	rec = doRequest(app, http.MethodGet, "/teapot")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "custom teapot", rec.Body.String())
}

func TestAppDefaultErrorHandler(t *testing.T) {
	t.Parallel()

	app := New(
		WithRoutes(func(r Router) {
			r.GET("/boom", func(c Context) error {
				return errors.New("boom")
			})
		}),
		WithErrorHandler(func(c Context, err error) error {
			return c.JSON(http.StatusInternalServerError, map[string]string{"handled": err.Error()})
		}),
	)

	rec := doRequest(app, http.MethodGet, "/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"handled":"boom"`)
}

func TestAppFailingErrorHandlerFallsBack(t *testing.T) {
	t.Parallel()

	app := New(
		WithRoutes(func(r Router) {
			r.GET("/boom", func(c Context) error {
				return c.Error(http.StatusBadRequest, "bad input")
			})
		}),
		OnError(http.StatusBadRequest, func(c Context, err error) error {
			return errors.New("renderer exploded")
		}),
	)

	rec := doRequest(app, http.MethodGet, "/boom")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"bad input"`)
}

func TestAppMiddlewareShortCircuit(t *testing.T) {
	t.Parallel()

	handlerCalled := false
	auth := func(next HandlerFunc) HandlerFunc {
		return func(c Context) error {
			if c.Header("Authorization") == "" {
				return c.Error(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}

	app := New(
		WithMiddleware(auth),
		WithRoutes(func(r Router) {
			r.GET("/secret", func(c Context) error {
				handlerCalled = true
				return c.String(http.StatusOK, "secret")
			})
		}),
	)

	rec := doRequest(app, http.MethodGet, "/secret")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, handlerCalled)

	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, handlerCalled)
}

func TestAppPanicRecovery(t *testing.T) {
	t.Parallel()

	app := New(WithRoutes(func(r Router) {
		r.GET("/panic", func(c Context) error {
			panic("something broke")
		})
	}))

	rec := doRequest(app, http.MethodGet, "/panic")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func TestAppSecurityHeaders(t *testing.T) {
	t.Parallel()

	app := New(WithRoutes(func(r Router) {
		r.GET("/", func(c Context) error {
			return c.String(http.StatusOK, "home")
		})
	}))

	rec := doRequest(app, http.MethodGet, "/")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "1; mode=block", rec.Header().Get("X-XSS-Protection"))
}

func TestAppHealthEndpoints(t *testing.T) {
	t.Parallel()

	app := New(WithHealthChecks(
		WithReadinessCheck("always-ok", func(ctx context.Context) error { return nil }),
	))

	rec := doRequest(app, http.MethodGet, "/health/live")
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	req.Header.Set("Accept", "application/json")
	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}

func TestAppFailingReadiness(t *testing.T) {
	t.Parallel()

	app := New(WithHealthChecks(
		WithReadinessCheck("db", func(ctx context.Context) error {
			return errors.New("connection refused")
		}),
	))

	req := httptest.NewRequest(http.MethodGet, "/health/ready?format=json", nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestAppMount(t *testing.T) {
	t.Parallel()

	app := New(WithRoutes(func(r Router) {
		r.Mount("/legacy", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			fmt.Fprintf(w, "legacy:%s", req.URL.Path)
		}))
		r.GET("/new", func(c Context) error {
			return c.String(http.StatusOK, "new")
		})
	}))

	rec := doRequest(app, http.MethodGet, "/legacy/old-path")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "legacy:/old-path", rec.Body.String())

	rec = doRequest(app, http.MethodGet, "/new")
	assert.Equal(t, "new", rec.Body.String())

	// The mount prefix binds on segment boundaries only.
	rec = doRequest(app, http.MethodGet, "/legacystuff")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(app, http.MethodGet, "/legacy")
	assert.Equal(t, http.StatusOK, rec.Code)
}

type greetController struct {
	prefix string
}

func (g *greetController) Greet(c Context) any {
	return map[string]string{"greeting": g.prefix + " " + c.Param("name")}
}

func (g *greetController) Plain(c Context) string {
	return strings.ToUpper(c.Param("name"))
}

func TestAppServiceHandler(t *testing.T) {
	t.Parallel()

	reg := container.New()
	require.NoError(t, reg.RegisterSingleton("greeter", &greetController{prefix: "hello"}))

	app := New(
		WithRegistry(reg),
		WithRoutes(func(r Router) {
			r.GET("/greet/{name}", ServiceHandler("greeter", "Greet"))
			r.GET("/plain/{name}", ServiceHandler("greeter", "Plain"))
		}),
	)

	rec := doRequest(app, http.MethodGet, "/greet/world")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"greeting":"hello world"`)

	rec = doRequest(app, http.MethodGet, "/plain/world")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "WORLD", rec.Body.String())

	rec = doRequest(app, http.MethodGet, "/greet/world")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAppContextSetGet(t *testing.T) {
	t.Parallel()

	type ctxKey struct{}

	app := New(
		WithMiddleware(func(next HandlerFunc) HandlerFunc {
			return func(c Context) error {
				c.Set(ctxKey{}, "stored")
				return next(c)
			}
		}),
		WithRoutes(func(r Router) {
			r.GET("/", func(c Context) error {
				v, _ := c.Get(ctxKey{}).(string)
				return c.String(http.StatusOK, v)
			})
		}),
	)

	rec := doRequest(app, http.MethodGet, "/")
	assert.Equal(t, "stored", rec.Body.String())
}
