package middlewares_test

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"mime/multipart"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/dmitrymomot/anvil/internal"
	"github.com/dmitrymomot/anvil/pkg/container"
)

// testContext is a minimal Context implementation for middleware tests.
type testContext struct {
	response http.ResponseWriter
	request  *http.Request
	registry *container.Container
	params   map[string]string
	written  bool
}

func newTestContext(w http.ResponseWriter, r *http.Request) *testContext {
	return &testContext{
		response: w,
		request:  r,
		registry: container.New(),
	}
}

func (c *testContext) Request() *http.Request           { return c.request }
func (c *testContext) Response() http.ResponseWriter    { return c.response }
func (c *testContext) Context() context.Context         { return c.request.Context() }
func (c *testContext) Registry() *container.Container   { return c.registry }
func (c *testContext) Resolve(id string) (any, error)   { return c.registry.Resolve(id) }
func (c *testContext) Param(name string) string         { return c.params[name] }
func (c *testContext) Route() string                    { return "" }
func (c *testContext) RouteInfo() internal.RouteInfo    { return internal.RouteInfo{} }
func (c *testContext) Query(name string) string         { return c.request.URL.Query().Get(name) }
func (c *testContext) Form(name string) string          { return c.request.FormValue(name) }
func (c *testContext) Header(name string) string        { return c.request.Header.Get(name) }
func (c *testContext) SetHeader(name, value string)     { c.response.Header().Set(name, value) }
func (c *testContext) Written() bool                    { return c.written }
func (c *testContext) Logger() *slog.Logger             { return discardLogger }
func (c *testContext) ResponseWriter() *internal.ResponseWriter { return nil }

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func (c *testContext) Params() map[string]string {
	if len(c.params) == 0 {
		return nil
	}
	return maps.Clone(c.params)
}

func (c *testContext) QueryDefault(name, defaultValue string) string {
	if v := c.Query(name); v != "" {
		return v
	}
	return defaultValue
}

func (c *testContext) FormFile(name string) (multipart.File, *multipart.FileHeader, error) {
	return c.request.FormFile(name)
}

func (c *testContext) JSON(code int, v any) error {
	c.response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.response.WriteHeader(code)
	c.written = true
	return jsoniter.NewEncoder(c.response).Encode(v)
}

func (c *testContext) String(code int, s string) error {
	c.response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.response.WriteHeader(code)
	c.written = true
	_, err := c.response.Write([]byte(s))
	return err
}

func (c *testContext) NoContent(code int) error {
	c.response.WriteHeader(code)
	c.written = true
	return nil
}

func (c *testContext) Redirect(code int, url string) error {
	http.Redirect(c.response, c.request, url, code)
	c.written = true
	return nil
}

func (c *testContext) Error(code int, message string, opts ...internal.HTTPErrorOption) *internal.HTTPError {
	err := internal.NewHTTPError(code, message)
	for _, opt := range opts {
		opt(err)
	}
	return err
}

func (c *testContext) LogDebug(msg string, attrs ...any) {}
func (c *testContext) LogInfo(msg string, attrs ...any)  {}
func (c *testContext) LogWarn(msg string, attrs ...any)  {}
func (c *testContext) LogError(msg string, attrs ...any) {}

func (c *testContext) Set(key, value any) {
	ctx := context.WithValue(c.request.Context(), key, value)
	c.request = c.request.WithContext(ctx)
}

func (c *testContext) Get(key any) any {
	return c.request.Context().Value(key)
}

func (c *testContext) Deadline() (time.Time, bool) { return c.request.Context().Deadline() }
func (c *testContext) Done() <-chan struct{}       { return c.request.Context().Done() }
func (c *testContext) Err() error                  { return c.request.Context().Err() }
func (c *testContext) Value(key any) any           { return c.request.Context().Value(key) }

var _ internal.Context = (*testContext)(nil)
