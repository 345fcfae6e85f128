package internal

import (
	"fmt"
	"net/http"
	"reflect"
)

// Handler declares routes on a router.
//
// Example:
//
//	type AuthHandler struct {
//	    users *user.Service
//	}
//
//	func (h *AuthHandler) Routes(r anvil.Router) {
//	    r.GET("/login", h.showLogin)
//	    r.POST("/login", h.handleLogin)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers.
// It receives a Context and returns an error.
// Returning a non-nil error triggers the error handling chain.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
// Middleware can inspect/modify the request, short-circuit processing,
// or wrap the response.
//
// Example:
//
//	func Auth(next anvil.HandlerFunc) anvil.HandlerFunc {
//	    return func(c anvil.Context) error {
//	        if !isAuthenticated(c) {
//	            return c.Error(401, "unauthorized")
//	        }
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors returned from handlers.
type ErrorHandler func(Context, error) error

// MiddlewareService is implemented by services registered in the container
// that act as middleware. Named resolves them lazily by identifier.
type MiddlewareService interface {
	Handle(c Context, next HandlerFunc) error
}

// Named returns a Middleware that resolves the service with the given
// identifier from the request's registry at invocation time. The resolved
// service must implement MiddlewareService; anything else fails the request.
//
// Because resolution is deferred, the service may be registered after the
// route that references it, and a shared service is constructed at most
// once across requests.
func Named(id string) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(c Context) error {
			v, err := c.Registry().Resolve(id)
			if err != nil {
				return fmt.Errorf("middleware %q: %w", id, err)
			}
			mw, ok := v.(MiddlewareService)
			if !ok {
				return fmt.Errorf("middleware %q: %T does not implement MiddlewareService", id, v)
			}
			return mw.Handle(c, next)
		}
	}
}

// ServiceHandler returns a HandlerFunc that resolves the service with the
// given identifier from the registry and invokes the named method on it
// through the registry's Call, so extra dependencies of the method are
// injected. The request Context is passed as a candidate argument.
//
// Example:
//
//	r.GET("/users/{id}", anvil.ServiceHandler("users.controller", "Show"))
func ServiceHandler(id, method string) HandlerFunc {
	return func(c Context) error {
		svc, err := c.Registry().Resolve(id)
		if err != nil {
			return fmt.Errorf("handler %q: %w", id, err)
		}
		m := reflect.ValueOf(svc).MethodByName(method)
		if !m.IsValid() {
			return fmt.Errorf("handler %q: no method %s on %T", id, method, svc)
		}
		result, err := c.Registry().Call(m.Interface(), c)
		if err != nil {
			return err
		}
		return renderResult(c, result)
	}
}

// renderResult writes a handler method's return value to the response.
// Errors are handled by the caller; nil renders 204, strings render as
// plain text, byte slices are written raw, everything else as JSON.
func renderResult(c Context, result any) error {
	if c.Written() {
		return nil
	}
	switch v := result.(type) {
	case nil:
		return c.NoContent(http.StatusNoContent)
	case string:
		return c.String(http.StatusOK, v)
	case []byte:
		c.Response().WriteHeader(http.StatusOK)
		_, err := c.Response().Write(v)
		return err
	default:
		return c.JSON(http.StatusOK, v)
	}
}
