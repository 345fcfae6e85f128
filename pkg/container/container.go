package container

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// Factory builds a concrete value from the container.
type Factory func(c *Container) (any, error)

// Resolver is the read side of a registry. A Container consults its
// delegate Resolver for identifiers it does not know about.
type Resolver interface {
	Has(id string) bool
	Resolve(id string) (any, error)
}

// provider is the internal construction strategy. It receives the active
// resolution so that autowired constructors share one stack for cycle
// detection.
type provider func(c *Container, res *resolution) (any, error)

// binding holds a construction strategy, its lifecycle, and the cached
// instance for shared bindings.
type binding struct {
	provide  provider
	instance any
	shared   bool
	resolved bool
}

// Container maps string identifiers to construction strategies and resolved
// instances. The zero value is not usable; create one with New.
//
// Registration methods and Resolve are safe for concurrent use, but shared
// bindings are memoized with a read-then-write race: two goroutines racing
// the first resolution may both construct, with one instance winning the
// cache. Register everything before serving requests to avoid the double
// construction.
type Container struct {
	mu         sync.RWMutex
	bindings   map[string]*binding
	singletons map[string]*binding
	factories  map[string]provider
	aliases    map[string]string
	contextual map[string]map[string]Factory
	delegate   Resolver
}

// New creates an empty container.
func New() *Container {
	c := &Container{}
	c.init()
	return c
}

func (c *Container) init() {
	c.bindings = make(map[string]*binding)
	c.singletons = make(map[string]*binding)
	c.factories = make(map[string]provider)
	c.aliases = make(map[string]string)
	c.contextual = make(map[string]map[string]Factory)
}

// RegisterOption configures a Register call.
type RegisterOption func(*binding)

// AsShared memoizes the binding after its first resolution.
func AsShared() RegisterOption {
	return func(b *binding) {
		b.shared = true
	}
}

// Register stores a binding for id. The concrete may be:
//
//   - a Factory (or any func(*Container) (any, error)), used as-is;
//   - any other function, treated as a constructor and autowired by
//     resolving each parameter's type key;
//   - a string, treated as a reference to another identifier;
//   - any other value, returned as-is on every resolution.
//
// Registering an id again replaces the prior binding and drops any cached
// instance.
func (c *Container) Register(id string, concrete any, opts ...RegisterOption) error {
	p, err := c.coerce(id, concrete)
	if err != nil {
		return err
	}

	b := &binding{provide: p}
	for _, opt := range opts {
		opt(b)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.forget(id)
	c.bindings[id] = b
	return nil
}

// RegisterSingleton stores a singleton entry for id: the first Resolve
// constructs and memoizes, every later Resolve returns the cached instance.
// The concrete forms are the same as for Register, except that a
// non-function, non-string concrete is stored as the already-resolved
// instance.
func (c *Container) RegisterSingleton(id string, concrete any) error {
	b := &binding{shared: true}

	switch concrete.(type) {
	case Factory, func(*Container) (any, error), string:
		p, err := c.coerce(id, concrete)
		if err != nil {
			return err
		}
		b.provide = p
	default:
		if rv := reflect.ValueOf(concrete); rv.Kind() == reflect.Func {
			p, err := c.coerce(id, concrete)
			if err != nil {
				return err
			}
			b.provide = p
		} else {
			b.instance = concrete
			b.resolved = true
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.forget(id)
	c.singletons[id] = b
	return nil
}

// RegisterFactory stores a factory for id, invoked fresh on every Resolve.
// The result is never memoized.
func (c *Container) RegisterFactory(id string, f Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.forget(id)
	c.factories[id] = func(c *Container, _ *resolution) (any, error) {
		return f(c)
	}
}

// Alias records an alternative name for an identifier. Aliasing an
// identifier to itself fails with ErrInvalidRegistration.
func (c *Container) Alias(alias, target string) error {
	if alias == target {
		return fmt.Errorf("%w: %q is aliased to itself", ErrInvalidRegistration, alias)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aliases[alias] = target
	return nil
}

// SetDelegate sets a fallback resolver consulted when an identifier is
// otherwise unknown.
func (c *Container) SetDelegate(r Resolver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delegate = r
}

// Has reports whether id, after alias resolution, is bound, registered as a
// singleton or factory, or known to the delegate.
func (c *Container) Has(id string) bool {
	key, err := c.canonical(id)
	if err != nil {
		return false
	}

	c.mu.RLock()
	_, bound := c.bindings[key]
	_, single := c.singletons[key]
	_, factory := c.factories[key]
	delegate := c.delegate
	c.mu.RUnlock()

	if bound || single || factory {
		return true
	}
	return delegate != nil && delegate.Has(key)
}

// Resolve returns the instance for id.
//
// Resolution order: aliases are chased to a terminal identifier; then
// singleton entries, factories, and plain bindings are consulted in that
// order; finally the delegate, if set. A contextual binding registered for
// the identifier currently under construction wins over all of the above
// for that one dependency.
func (c *Container) Resolve(id string) (any, error) {
	return c.resolveWith(id, &resolution{})
}

func (c *Container) resolveWith(id string, res *resolution) (any, error) {
	key, err := c.canonical(id)
	if err != nil {
		return nil, err
	}

	if owner, ok := res.current(); ok {
		if f := c.contextualFactory(owner, key); f != nil {
			return f(c)
		}
	}

	c.mu.RLock()

	if b, ok := c.singletons[key]; ok {
		if b.resolved {
			inst := b.instance
			c.mu.RUnlock()
			return inst, nil
		}
		provide := b.provide
		c.mu.RUnlock()
		inst, err := c.construct(key, provide, res)
		if err != nil {
			return nil, err
		}
		return c.memoize(b, inst), nil
	}

	if p, ok := c.factories[key]; ok {
		c.mu.RUnlock()
		return c.construct(key, p, res)
	}

	if b, ok := c.bindings[key]; ok {
		if b.shared && b.resolved {
			inst := b.instance
			c.mu.RUnlock()
			return inst, nil
		}
		provide, shared := b.provide, b.shared
		c.mu.RUnlock()
		inst, err := c.construct(key, provide, res)
		if err != nil {
			return nil, err
		}
		if shared {
			inst = c.memoize(b, inst)
		}
		return inst, nil
	}

	delegate := c.delegate
	c.mu.RUnlock()

	if delegate != nil && delegate.Has(key) {
		return delegate.Resolve(key)
	}

	return nil, fmt.Errorf("%w: %q", ErrServiceNotFound, id)
}

// memoize caches inst on b. If another goroutine won the race, its instance
// is returned instead so every caller observes the same value.
func (c *Container) memoize(b *binding, inst any) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b.resolved {
		return b.instance
	}
	b.instance = inst
	b.resolved = true
	return inst
}

// construct runs a provider with key on the resolution stack. The stack
// entry is released on every exit path so a failed construction never
// poisons later resolutions.
func (c *Container) construct(key string, provide provider, res *resolution) (any, error) {
	if err := res.enter(key); err != nil {
		return nil, err
	}
	defer res.exit()
	return provide(c, res)
}

// Reset returns the container to its initial empty state: all bindings,
// singletons, factories, aliases, contextual overrides, and the delegate
// are cleared.
func (c *Container) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.init()
	c.delegate = nil
}

// forget removes every registration for id. Callers must hold mu.
func (c *Container) forget(id string) {
	delete(c.bindings, id)
	delete(c.singletons, id)
	delete(c.factories, id)
}

// canonical chases the alias chain for id to its terminal identifier,
// failing with ErrCircularAlias if the chase revisits an identifier.
func (c *Container) canonical(id string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if _, ok := c.aliases[id]; !ok {
		return id, nil
	}

	seen := make(map[string]struct{})
	cur := id
	for {
		target, ok := c.aliases[cur]
		if !ok {
			return cur, nil
		}
		if _, dup := seen[cur]; dup {
			return "", fmt.Errorf("%w: %q", ErrCircularAlias, id)
		}
		seen[cur] = struct{}{}
		cur = target
	}
}

// coerce turns a registered concrete into a provider.
func (c *Container) coerce(id string, concrete any) (provider, error) {
	switch v := concrete.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil concrete for %q", ErrInvalidRegistration, id)
	case Factory:
		return func(c *Container, _ *resolution) (any, error) { return v(c) }, nil
	case func(*Container) (any, error):
		return func(c *Container, _ *resolution) (any, error) { return v(c) }, nil
	case string:
		// A reference to another identifier; resolved through the same
		// resolution so reference cycles are detected.
		return func(c *Container, res *resolution) (any, error) {
			return c.resolveWith(v, res)
		}, nil
	}

	if rv := reflect.ValueOf(concrete); rv.Kind() == reflect.Func {
		return constructorProvider(id, rv)
	}

	return func(*Container, *resolution) (any, error) { return concrete, nil }, nil
}

// resolution tracks the identifiers currently under construction. It is
// threaded through the resolve call chain rather than stored on the
// Container so concurrent resolutions never observe each other's stacks.
type resolution struct {
	stack []string
}

func (r *resolution) current() (string, bool) {
	if len(r.stack) == 0 {
		return "", false
	}
	return r.stack[len(r.stack)-1], true
}

func (r *resolution) enter(key string) error {
	if slices.Contains(r.stack, key) {
		return &CircularDependencyError{Chain: append(slices.Clone(r.stack), key)}
	}
	r.stack = append(r.stack, key)
	return nil
}

func (r *resolution) exit() {
	r.stack = r.stack[:len(r.stack)-1]
}

// Resolve is a generic helper that resolves id and type-asserts the result.
func Resolve[T any](c *Container, id string) (T, error) {
	var zero T
	v, err := c.Resolve(id)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("container: %q resolved to %T, want %T", id, v, zero)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on failure. Use it only during
// bootstrap where a missing binding is a programming error.
func MustResolve[T any](c *Container, id string) T {
	v, err := Resolve[T](c, id)
	if err != nil {
		panic(err)
	}
	return v
}

// TypeKey returns the identifier under which values of type T are autowired.
// Pointer types share the key of their element, so TypeKey[*Service]() and
// TypeKey[Service]() are the same key.
func TypeKey[T any]() string {
	return typeKeyOf(reflect.TypeFor[T]())
}

func typeKeyOf(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}
