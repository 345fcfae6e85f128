// Package anvil provides a small, opinionated web framework built around
// an autowiring service registry.
//
// Anvil is designed around the principle of "no magic": services are
// registered and resolved by explicit string identifiers, routes are plain
// declarations, and middleware is ordinary function composition. The
// framework provides a thin orchestration layer while keeping business
// logic in plain Go handlers and services.
//
// # Quick Start
//
// Create a new application with anvil.New(), configure it with options,
// and call Run() to start the HTTP server:
//
//	app := anvil.New(
//	    anvil.WithLogger("api"),
//	    anvil.WithServices(map[string]any{
//	        "users.repo":    repository.NewUsers,
//	        "users.service": user.NewService,
//	    }),
//	    anvil.WithHandlers(
//	        handlers.NewAuth(),
//	        handlers.NewPages(),
//	    ),
//	)
//
//	if err := app.Run(":8080"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Service Registry
//
// The registry resolves services by identifier. Constructor functions are
// autowired: each parameter is resolved by its type key, recursively, with
// cycle detection. Lifecycles cover transient bindings, shared bindings,
// lazy singletons, and always-fresh factories:
//
//	reg := anvil.NewRegistry()
//	reg.Register("db", openDB, container.AsShared())
//	reg.RegisterSingleton("config", cfg)
//	reg.RegisterFactory("uuid", newUUID)
//
// Contextual bindings give a specific consumer its own implementation of a
// dependency without affecting the global binding:
//
//	reg.When("reports.service").Needs(container.TypeKey[Clock]()).GiveValue(frozenClock)
//
// # Handlers
//
// Handlers implement the [Handler] interface to declare routes:
//
//	type AuthHandler struct {
//	    users *user.Service
//	}
//
//	func (h *AuthHandler) Routes(r anvil.Router) {
//	    r.GET("/login", h.showLogin)
//	    r.POST("/login", h.handleLogin)
//	    r.POST("/logout", h.handleLogout)
//	}
//
// Controllers managed by the registry can be routed without constructing
// them up front:
//
//	r.GET("/users/{id}", anvil.ServiceHandler("users.controller", "Show"))
//
// # Middleware
//
// Middleware wraps handlers to add cross-cutting concerns:
//
//	func Logger(log *slog.Logger) anvil.Middleware {
//	    return func(next anvil.HandlerFunc) anvil.HandlerFunc {
//	        return func(c anvil.Context) error {
//	            start := time.Now()
//	            err := next(c)
//	            log.Info("request",
//	                "method", c.Request().Method,
//	                "path", c.Request().URL.Path,
//	                "duration", time.Since(start),
//	            )
//	            return err
//	        }
//	    }
//	}
//
// Container-registered middleware is referenced by identifier and resolved
// lazily on first use:
//
//	r.GET("/admin", h.dashboard, anvil.Named("auth.middleware"))
//
// # Error Handling
//
// Handlers return errors; the app renders them through a status-keyed
// handler table with a JSON fallback:
//
//	app := anvil.New(
//	    anvil.OnError(404, renderNotFoundPage),
//	    anvil.WithErrorHandler(renderErrorPage),
//	)
//
// # Shutdown
//
// The application handles SIGINT/SIGTERM for graceful shutdown.
// Register cleanup functions with ShutdownHook:
//
//	err := app.Run(":8080",
//	    anvil.ShutdownHook(func(ctx context.Context) error {
//	        return pool.Close()
//	    }),
//	)
package anvil
