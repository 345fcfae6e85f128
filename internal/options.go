package internal

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/anvil/pkg/container"
	"github.com/dmitrymomot/anvil/pkg/logger"
)

// Option configures the application.
type Option func(*App)

// WithRegistry replaces the application's service registry.
// Use this to share a pre-populated registry between apps or tests.
// Pass it before WithProviders and WithServices, which target the
// registry in effect when they run.
//
// Example:
//
//	reg := container.New()
//	reg.RegisterSingleton("mailer", mailer)
//	anvil.New(
//	    anvil.WithRegistry(reg),
//	)
func WithRegistry(c *container.Container) Option {
	return func(a *App) {
		if c != nil {
			a.registry = c
			a.providers = container.NewProviderRegistry(c)
		}
	}
}

// WithProviders registers service providers. Each provider's Register
// method runs immediately; Boot runs after all options are applied.
// A registration failure panics, matching the fail-fast stance of the
// configuration surface.
//
// Example:
//
//	anvil.New(
//	    anvil.WithProviders(
//	        &providers.Database{DSN: dsn},
//	        &providers.Mail{},
//	    ),
//	)
func WithProviders(ps ...container.Provider) Option {
	return func(a *App) {
		for _, p := range ps {
			if err := a.providers.Register(p); err != nil {
				panic(fmt.Sprintf("anvil: provider register: %v", err))
			}
		}
	}
}

// WithServices registers services into the registry by identifier.
// Constructor functions are autowired; other values are stored as-is.
//
// Example:
//
//	anvil.New(
//	    anvil.WithServices(map[string]any{
//	        "users.repo":    repository.NewUsers,
//	        "users.service": user.NewService,
//	    }),
//	)
func WithServices(services map[string]any) Option {
	return func(a *App) {
		for id, concrete := range services {
			if err := a.registry.Register(id, concrete, container.AsShared()); err != nil {
				panic(fmt.Sprintf("anvil: register %q: %v", id, err))
			}
		}
	}
}

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called during setup.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithRoutes registers a route declaration function.
// Use this for small apps that don't need the Handler interface.
//
// Example:
//
//	anvil.New(
//	    anvil.WithRoutes(func(r anvil.Router) {
//	        r.GET("/ping", func(c anvil.Context) error {
//	            return c.String(200, "pong")
//	        })
//	    }),
//	)
func WithRoutes(fn func(Router)) Option {
	return func(a *App) {
		if fn != nil {
			a.routeFns = append(a.routeFns, fn)
		}
	}
}

// WithStaticFiles mounts a static file handler at the given prefix.
// Directory listings are disabled. Files are served with default cache headers.
//
// Example:
//
//	//go:embed public
//	var assets embed.FS
//
//	anvil.New(
//	    anvil.WithStaticFiles("/static/", assets, "public"),
//	)
func WithStaticFiles(prefix string, fsys fs.FS, subDir string) Option {
	return func(a *App) {
		subFS, err := fs.Sub(fsys, subDir)
		if err != nil {
			panic(err)
		}

		fileServer := http.FileServerFS(subFS)

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Block directory listings
			if strings.HasSuffix(r.URL.Path, "/") {
				http.NotFound(w, r)
				return
			}

			w.Header().Set("Cache-Control", "public, max-age=3600")
			w.Header().Set("X-Content-Type-Options", "nosniff")

			fileServer.ServeHTTP(w, r)
		})

		a.mount(prefix, handler)
	}
}

// WithErrorHandler sets the default error handler for handler errors.
// Called when a handler returns a non-nil error and no status-specific
// handler is registered for the error's status code.
//
// Example:
//
//	anvil.WithErrorHandler(func(c anvil.Context, err error) error {
//	    return c.JSON(http.StatusInternalServerError, map[string]string{
//	        "error": err.Error(),
//	    })
//	})
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// OnError registers an error handler for a specific HTTP status code.
// Status-specific handlers take precedence over the default handler.
//
// Example:
//
//	anvil.OnError(http.StatusNotFound, func(c anvil.Context, err error) error {
//	    return c.String(http.StatusNotFound, "nothing here")
//	})
func OnError(code int, h ErrorHandler) Option {
	return func(a *App) {
		if h != nil {
			a.errorHandlers[code] = h
		}
	}
}

// WithNotFoundHandler sets a custom 404 handler.
//
// Example:
//
//	anvil.WithNotFoundHandler(func(c anvil.Context) error {
//	    return c.String(http.StatusNotFound, "Page not found")
//	})
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		if h != nil {
			a.errorHandlers[http.StatusNotFound] = func(c Context, _ error) error {
				return h(c)
			}
		}
	}
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
//
// Example:
//
//	anvil.WithMethodNotAllowedHandler(func(c anvil.Context) error {
//	    return c.String(http.StatusMethodNotAllowed, "Method not allowed")
//	})
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return func(a *App) {
		if h != nil {
			a.errorHandlers[http.StatusMethodNotAllowed] = func(c Context, _ error) error {
				return h(c)
			}
		}
	}
}

// WithHealthChecks enables health check endpoints with optional configuration.
// Liveness (/health/live): Always returns OK if process is running.
// Readiness (/health/ready): Runs all configured checks.
//
// Example:
//
//	anvil.WithHealthChecks(
//	    anvil.WithReadinessCheck("db", db.Healthcheck(pool)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
			checks:        make(healthChecks),
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithLogger creates a logger with a component name and optional extractors.
// The component name is added to every log entry for easy filtering.
// Extractors pull values from context (e.g., request_id).
//
// Example:
//
//	anvil.New(
//	    anvil.WithLogger("api", requestIDExtractor),
//	)
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(extractors...).With("component", component)
	}
}

// WithCustomLogger sets a fully custom logger.
// Use this when you need complete control over logging configuration.
//
// Example:
//
//	customLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
//	anvil.New(
//	    anvil.WithCustomLogger(customLogger),
//	)
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// healthConfig holds health check endpoint configuration.
type healthConfig struct {
	checks        healthChecks
	livenessPath  string
	readinessPath string
}

// Default health check paths.
const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures health check endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during readiness probe.
//
// Example:
//
//	anvil.WithReadinessCheck("db", db.Healthcheck(pool))
func WithReadinessCheck(name string, fn CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if c.checks == nil {
			c.checks = make(healthChecks)
		}
		c.checks[name] = fn
	}
}
