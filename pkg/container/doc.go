// Package container provides a string-keyed service registry with lazy
// construction, four lifecycles, contextual bindings, and reflection-based
// autowiring of constructor functions.
//
// # Registration
//
//	c := container.New()
//
//	// Transient binding, constructed on every Resolve
//	c.Register("mailer", func(c *container.Container) (any, error) {
//	    return NewMailer(), nil
//	})
//
//	// Shared binding, constructed once then cached
//	c.Register("cache", newCache, container.AsShared())
//
//	// Singleton value, memoized on first Resolve
//	c.RegisterSingleton("config", cfg)
//
//	// Factory, invoked fresh on every Resolve and never memoized
//	c.RegisterFactory("request-id", func(*container.Container) (any, error) {
//	    return uuid.NewString(), nil
//	})
//
// # Autowiring
//
// A constructor function registered as the concrete is autowired: each
// parameter is resolved from the registry by the key derived from its type
// (see TypeKey). Constructors may return (T) or (T, error). Circular
// constructor dependencies are detected and reported with the full chain.
//
//	c.Register(container.TypeKey[*Repo](), NewRepo)        // func NewRepo(db *DB) *Repo
//	c.Register(container.TypeKey[*Service](), NewService)  // func NewService(r *Repo) (*Service, error)
//
// # Contextual bindings
//
// A contextual binding overrides how one dependency resolves while a
// specific identifier is under construction:
//
//	c.When("photo-controller").Needs("filesystem").Give(func(*container.Container) (any, error) {
//	    return NewS3Filesystem(), nil
//	})
//
// # Resolving
//
//	raw, err := c.Resolve("cache")
//	cache, err := container.Resolve[*Cache](c, "cache")
//
// # Providers
//
// Providers group related registrations and run in two phases: Register
// binds services, Boot runs after all providers are registered and may
// resolve anything. Deferred providers register lazily on first use.
package container
