// Package internal provides the core types and implementation for the Anvil framework.
//
// This package is internal and should not be used directly. Import "github.com/dmitrymomot/anvil"
// instead, which re-exports the public API.
//
// # Core Types
//
// The package defines the fundamental types that users interact with:
//
//   - App: Orchestrates the service registry, HTTP routing, error dispatch, and graceful shutdown
//   - Context: Provides request/response access, registry access, and helper methods
//   - Router: Interface handlers use to declare routes with HTTP methods and grouping
//   - Handler: Interface implemented by types that declare routes on a router
//   - HandlerFunc: Signature for individual route handlers that return errors
//   - Middleware: Wraps handlers to add cross-cutting concerns like auth or logging
//   - Pipeline: Composes an explicit middleware stack around a terminal handler
//   - ErrorHandler: Custom error handling function for handler errors
//
// # Context as context.Context
//
// Context embeds context.Context, so it can be passed directly to any function
// that expects a standard library context. The Deadline, Done, Err, and Value
// methods delegate to the underlying request context:
//
//	func (h *Handler) getUser(c anvil.Context) error {
//	    user, err := h.repo.GetUser(c, userID)
//	    if err != nil {
//	        return err
//	    }
//	    return c.JSON(200, user)
//	}
//
// # Application Structure
//
// Create an application with New() and configure it using options:
//
//	app := internal.New(
//	    internal.WithProviders(&DatabaseProvider{}),
//	    internal.WithHandlers(authHandler, pageHandler),
//	    internal.WithMiddleware(requestIDMiddleware),
//	    internal.WithHealthChecks(internal.WithReadinessCheck("db", dbCheck)),
//	)
//
// # Handler Pattern
//
// Handlers implement the Handler interface and declare routes:
//
//	type AuthHandler struct {
//	    users *user.Service
//	}
//
//	func (h *AuthHandler) Routes(r internal.Router) {
//	    r.GET("/login", h.showLogin)
//	    r.POST("/login", h.handleLogin)
//	}
//
// Handlers receive dependencies via constructor injection, or resolve them
// from the registry through ServiceHandler for container-managed controllers.
//
// # Routing
//
// Routes are matched exact-path first, then parameterized routes in
// registration order. Path placeholders use the {name} form:
//
//	r.GET("/users/{id}", h.showUser)
//
// A path registered under another method yields a 405 with an Allow header;
// an unknown path yields a 404. Both flow through the status-keyed error
// handler table before the built-in JSON fallback.
package internal
