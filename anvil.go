package anvil

import (
	"context"
	"io/fs"
	"log/slog"
	"time"

	"github.com/dmitrymomot/anvil/internal"
	"github.com/dmitrymomot/anvil/pkg/container"
	"github.com/dmitrymomot/anvil/pkg/logger"
)

// Type aliases - public API
type (
	// App orchestrates the application lifecycle.
	// It owns the service registry, HTTP routing, error dispatch, and graceful shutdown.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// RouteInfo describes the route matched for the current request.
	RouteInfo = internal.RouteInfo

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// MiddlewareService is a container-registered middleware service.
	MiddlewareService = internal.MiddlewareService

	// Pipeline composes an explicit middleware stack around a terminal handler.
	Pipeline = internal.Pipeline

	// ErrorHandler handles errors returned from handlers.
	ErrorHandler = internal.ErrorHandler

	// HTTPError represents an HTTP error with structured rendering data.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// RouteNotFoundError is returned when no route matches a request path.
	RouteNotFoundError = internal.RouteNotFoundError

	// MethodNotAllowedError is returned when a path matches under a different method.
	MethodNotAllowedError = internal.MethodNotAllowedError

	// ValidationErrors maps field names to validation failure messages.
	ValidationErrors = internal.ValidationErrors

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// CheckFunc is the health check function signature.
	CheckFunc = internal.CheckFunc

	// ContextExtractor extracts a slog attribute from context.
	// Used with WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor

	// ResponseWriter wraps http.ResponseWriter with write tracking and hooks.
	ResponseWriter = internal.ResponseWriter

	// Registry is the service registry backing dependency resolution.
	Registry = container.Container

	// Provider groups related service registrations with a two-phase bootstrap.
	Provider = container.Provider

	// BaseProvider is an embeddable no-op Provider implementation.
	BaseProvider = container.BaseProvider

	// RegisterOption configures a service registration.
	RegisterOption = container.RegisterOption

	// Resolver is the minimal resolution surface, used for delegate fallbacks.
	Resolver = container.Resolver
)

// Sentinel errors re-exported from the container package.
var (
	// ErrServiceNotFound is returned when an identifier cannot be resolved.
	ErrServiceNotFound = container.ErrServiceNotFound

	// ErrPipelineNotConfigured is returned when a pipeline has no terminal handler.
	ErrPipelineNotConfigured = internal.ErrPipelineNotConfigured
)

// Constructors

// New creates a new application with the given options.
// The App is immutable after creation.
//
// Example:
//
//	app := anvil.New(
//	    anvil.WithProviders(&providers.Database{}),
//	    anvil.WithMiddleware(middlewares.RequestID()),
//	    anvil.WithHandlers(
//	        handlers.NewAuth(),
//	        handlers.NewPages(),
//	    ),
//	)
//
//	err := app.Run(":8080", anvil.Logger(slog))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// NewRegistry creates an empty service registry.
// Use with WithRegistry to share services between apps or tests.
func NewRegistry() *Registry {
	return container.New()
}

// NewPipeline creates an empty middleware pipeline.
func NewPipeline() *Pipeline {
	return internal.NewPipeline()
}

// Named returns middleware that resolves a MiddlewareService from the
// registry by identifier at invocation time.
func Named(id string) Middleware {
	return internal.Named(id)
}

// ServiceHandler returns a handler that resolves a controller from the
// registry and invokes the named method with injected dependencies.
//
// Example:
//
//	r.GET("/users/{id}", anvil.ServiceHandler("users.controller", "Show"))
func ServiceHandler(id, method string) HandlerFunc {
	return internal.ServiceHandler(id, method)
}

// App options

// WithRegistry replaces the application's service registry.
// Pass it before WithProviders and WithServices.
func WithRegistry(c *Registry) Option {
	return internal.WithRegistry(c)
}

// WithProviders registers service providers. Register runs immediately;
// Boot runs after all options are applied.
func WithProviders(ps ...Provider) Option {
	return internal.WithProviders(ps...)
}

// WithServices registers services into the registry by identifier.
// Constructor functions are autowired; other values are stored as-is.
func WithServices(services map[string]any) Option {
	return internal.WithServices(services)
}

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called during setup.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithRoutes registers a route declaration function.
func WithRoutes(fn func(Router)) Option {
	return internal.WithRoutes(fn)
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
	return internal.WithStaticFiles(prefix, fsys, subDir)
}

// WithErrorHandler sets the default error handler for handler errors.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// OnError registers an error handler for a specific HTTP status code.
// Status-specific handlers take precedence over the default handler.
func OnError(code int, h ErrorHandler) Option {
	return internal.OnError(code, h)
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return internal.WithMethodNotAllowedHandler(h)
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
	return internal.WithHealthChecks(opts...)
}

// WithLogger creates a logger with a component name and optional extractors.
// The component name is added to every log entry for easy filtering.
//
// Example:
//
//	anvil.New(
//	    anvil.WithLogger("api", middlewares.RequestIDExtractor()),
//	)
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a fully custom logger.
// Use this when you need complete control over logging configuration.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// Health check options

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during readiness probe.
func WithReadinessCheck(name string, fn CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Address sets the HTTP server address. Defaults to ":8080".
func Address(addr string) RunOption {
	return internal.Address(addr)
}

// Logger sets the runtime logger. If nil, logging is disabled.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the timeout for graceful shutdown.
// Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook registers a function to run before the server starts
// accepting connections.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers a cleanup function to run during shutdown.
// Hooks run in registration order with the shutdown timeout context.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets a custom base context for signal handling.
// Defaults to context.Background() if not set.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Error helpers

// NewHTTPError creates a new HTTPError with the given status code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return internal.NewHTTPError(code, message)
}

// IsHTTPError reports whether err is an *HTTPError.
func IsHTTPError(err error) bool {
	return internal.IsHTTPError(err)
}

// AsHTTPError extracts the HTTPError from an error if present.
func AsHTTPError(err error) *HTTPError {
	return internal.AsHTTPError(err)
}

// Typed request helpers

// ContextValue retrieves a typed value stored on the context with Set.
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// Param retrieves a typed URL parameter. Returns the zero value when the
// parameter is missing or unparseable.
func Param[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string) T {
	return internal.Param[T](c, name)
}

// ParamDefault retrieves a typed URL parameter with a default value.
func ParamDefault[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string, defaultValue T) T {
	return internal.ParamDefault(c, name, defaultValue)
}

// Query retrieves a typed query parameter. Returns the zero value when the
// parameter is missing or unparseable.
func Query[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string) T {
	return internal.Query[T](c, name)
}

// QueryDefault retrieves a typed query parameter with a default value.
func QueryDefault[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string, defaultValue T) T {
	return internal.QueryDefault(c, name, defaultValue)
}
