package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/anvil/pkg/container"
	"github.com/dmitrymomot/anvil/pkg/logger"
)

// Default server timeouts (hardcoded, opinionated).
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// App orchestrates the application lifecycle. It owns the service
// registry, the route table, the middleware stack, and error dispatch.
// App is immutable after creation - all configuration is done via New().
// It implements http.Handler.
type App struct {
	registry      *container.Container
	providers     *container.ProviderRegistry
	mux           *mux
	errorHandlers map[int]ErrorHandler
	errorHandler  ErrorHandler
	healthConfig  *healthConfig
	logger        *slog.Logger
	middlewares   []Middleware
	handlers      []Handler
	routeFns      []func(Router)
	mounts        []mountPoint
}

// mountPoint is an http.Handler attached under a path prefix.
type mountPoint struct {
	handler http.Handler
	prefix  string
}

// matches reports whether path falls under the mount prefix. The prefix
// must end on a segment boundary, so "/api" captures "/api" and "/api/v1"
// but not "/apiv2".
func (mp mountPoint) matches(path string) bool {
	if mp.prefix == "/" {
		return true
	}
	if !strings.HasPrefix(path, mp.prefix) {
		return false
	}
	rest := path[len(mp.prefix):]
	return rest == "" || rest[0] == '/'
}

// New creates a new application with the given options.
// The App is immutable after creation. Provider registration and boot run
// during New; a failing provider panics, matching the fail-fast stance of
// the rest of the configuration surface.
//
// Example:
//
//	app := anvil.New(
//	    anvil.WithProviders(&DatabaseProvider{}, &MailProvider{}),
//	    anvil.WithMiddleware(middlewares.RequestID()),
//	    anvil.WithHandlers(
//	        handlers.NewAuth(),
//	        handlers.NewPages(),
//	    ),
//	)
func New(opts ...Option) *App {
	a := &App{
		registry:      container.New(),
		mux:           newMux(),
		errorHandlers: make(map[int]ErrorHandler),
		logger:        logger.NewNope(),
	}
	a.providers = container.NewProviderRegistry(a.registry)

	for _, opt := range opts {
		opt(a)
	}

	if err := a.providers.Boot(); err != nil {
		panic(fmt.Sprintf("anvil: provider boot: %v", err))
	}

	a.setupRoutes()
	return a
}

// Registry returns the application's service registry.
func (a *App) Registry() *container.Container {
	return a.registry
}

// Providers returns the provider registry, for deferred registration
// after New.
func (a *App) Providers() *container.ProviderRegistry {
	return a.providers
}

// Run starts the HTTP server and blocks until shutdown.
//
// Example:
//
//	app := anvil.New(
//	    anvil.WithHandlers(handlers.NewLanding()),
//	)
//	err := app.Run(":8080", anvil.Logger(slog))
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)

	return runServer(runtimeConfig{
		handler:         a,
		address:         addr,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    cfg.startupHooks,
		shutdownHooks:   cfg.shutdownHooks,
		baseCtx:         cfg.baseCtx,
	})
}

// ServeHTTP dispatches a request: mounted handlers first, then the route
// table. Panics become 500s through the same error dispatch as handler
// errors.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	for _, mp := range a.mounts {
		if mp.matches(r.URL.Path) {
			mp.handler.ServeHTTP(w, r)
			return
		}
	}

	c := newContext(w, r, a)
	c.responseWriter.OnBeforeWrite(func() {
		h := c.responseWriter.Header()
		if h.Get("X-Content-Type-Options") == "" {
			h.Set("X-Content-Type-Options", "nosniff")
		}
		if h.Get("X-Frame-Options") == "" {
			h.Set("X-Frame-Options", "DENY")
		}
		if h.Get("X-XSS-Protection") == "" {
			h.Set("X-XSS-Protection", "1; mode=block")
		}
	})

	defer func() {
		if rec := recover(); rec != nil {
			a.logger.ErrorContext(r.Context(), "panic recovered",
				slog.Any("panic", rec),
				slog.String("path", r.URL.Path),
			)
			a.handleError(c, ErrInternal("internal server error", WithError(fmt.Errorf("panic: %v", rec))))
		}
	}()

	rt, params, err := a.mux.match(r.Method, r.URL.Path)
	if err != nil {
		a.handleError(c, err)
		return
	}
	c.params = params
	c.routeInfo = RouteInfo{Method: rt.method, Pattern: rt.path, Handler: rt.handler}

	h := chain(rt.handler, a.middlewares)
	if err := h(c); err != nil {
		a.handleError(c, err)
	}
}

// setupRoutes registers health endpoints, mounted handlers, and the
// declared route handlers.
func (a *App) setupRoutes() {
	if a.healthConfig != nil {
		a.mux.add(http.MethodGet, a.healthConfig.livenessPath, livenessHandler())
		a.mux.add(http.MethodGet, a.healthConfig.readinessPath, readinessHandler(a.healthConfig.checks))
	}

	r := &routerAdapter{app: a}
	for _, h := range a.handlers {
		h.Routes(r)
	}
	for _, fn := range a.routeFns {
		fn(r)
	}
}

// mount attaches an http.Handler under a prefix, longest prefix first.
func (a *App) mount(prefix string, h http.Handler) {
	prefix = normalizePath(prefix)
	if prefix != "/" {
		h = http.StripPrefix(prefix, h)
	}
	mp := mountPoint{handler: h, prefix: prefix}

	for i, existing := range a.mounts {
		if len(prefix) > len(existing.prefix) {
			a.mounts = append(a.mounts[:i], append([]mountPoint{mp}, a.mounts[i:]...)...)
			return
		}
	}
	a.mounts = append(a.mounts, mp)
}

// handleError renders an error through the status-keyed handler table,
// falling back to the default handler and finally to a minimal JSON body.
// A response that has already been written is left alone.
func (a *App) handleError(c Context, err error) {
	if c.Written() {
		return
	}

	code := http.StatusInternalServerError
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) {
		code = sc.StatusCode()
	}

	var mna *MethodNotAllowedError
	if errors.As(err, &mna) {
		c.SetHeader("Allow", strings.Join(mna.Allowed, ", "))
	}

	if h, ok := a.errorHandlers[code]; ok {
		if herr := h(c, err); herr == nil {
			return
		} else {
			a.logger.ErrorContext(c.Context(), "error handler failed",
				slog.Int("status", code),
				slog.Any("error", herr),
			)
		}
	} else if a.errorHandler != nil {
		if herr := a.errorHandler(c, err); herr == nil {
			return
		} else {
			a.logger.ErrorContext(c.Context(), "error handler failed",
				slog.Int("status", code),
				slog.Any("error", herr),
			)
		}
	}

	if c.Written() {
		return
	}
	a.writeErrorFallback(c, code, err)
}

// writeErrorFallback emits the minimal JSON error body used when no
// handler is registered or a handler itself failed.
func (a *App) writeErrorFallback(c Context, code int, err error) {
	body := map[string]any{
		"status": code,
		"error":  http.StatusText(code),
	}
	if he := AsHTTPError(err); he != nil && he.Message != "" {
		body["error"] = he.Message
		if he.ErrorCode != "" {
			body["code"] = he.ErrorCode
		}
	}
	var mna *MethodNotAllowedError
	if errors.As(err, &mna) {
		body["allowed"] = mna.Allowed
	}
	var ve ValidationErrors
	if errors.As(err, &ve) {
		body["fields"] = ve
	}
	if werr := c.JSON(code, body); werr != nil {
		a.logger.ErrorContext(c.Context(), "failed to write error response",
			slog.Any("error", werr),
		)
	}
}
