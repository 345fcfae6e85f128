package container

import (
	"fmt"
	"sync"
)

// Provider groups related registrations and participates in the two-phase
// bootstrap: Register binds services into the container and must not
// resolve anything; Boot runs after every provider has registered and may
// resolve freely.
type Provider interface {
	Register(c *Container) error
	Boot(c *Container) error

	// Provides returns the identifiers this provider registers. Required
	// for deferred providers; eager providers may return nil.
	Provides() []string

	// Deferred reports whether registration should be postponed until one
	// of the provided identifiers is first resolved.
	Deferred() bool
}

// BaseProvider is an embeddable no-op implementation of everything but
// Register.
type BaseProvider struct{}

func (BaseProvider) Boot(*Container) error { return nil }
func (BaseProvider) Provides() []string    { return nil }
func (BaseProvider) Deferred() bool        { return false }

// ProviderRegistry manages registration and booting of Providers,
// including deferred ones.
type ProviderRegistry struct {
	mu         sync.Mutex
	c          *Container
	eager      []Provider
	registered map[Provider]bool
	booted     bool
}

// NewProviderRegistry creates a registry bound to c.
func NewProviderRegistry(c *Container) *ProviderRegistry {
	return &ProviderRegistry{
		c:          c,
		registered: make(map[Provider]bool),
	}
}

// Register adds a provider. Eager providers register immediately (and boot
// immediately when the registry is already booted). Deferred providers
// install placeholder factories for each provided identifier; the first
// resolution of any of them triggers the real registration.
func (r *ProviderRegistry) Register(p Provider) error {
	r.mu.Lock()
	if r.registered[p] {
		r.mu.Unlock()
		return nil
	}
	r.registered[p] = true

	if p.Deferred() {
		for _, id := range p.Provides() {
			r.c.RegisterFactory(id, func(c *Container) (any, error) {
				// Reaching the placeholder after activation means the
				// provider never registered this identifier.
				if r.activated(p) {
					return nil, fmt.Errorf("%w: deferred provider did not register %q", ErrInvalidRegistration, id)
				}
				if err := r.activate(p); err != nil {
					return nil, err
				}
				return c.Resolve(id)
			})
		}
		r.mu.Unlock()
		return nil
	}

	r.eager = append(r.eager, p)
	booted := r.booted
	r.mu.Unlock()

	if err := p.Register(r.c); err != nil {
		return err
	}
	if booted {
		return p.Boot(r.c)
	}
	return nil
}

// activated reports whether the provider's real registration has run.
func (r *ProviderRegistry) activated(p Provider) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.eager {
		if e == p {
			return true
		}
	}
	return false
}

// activate performs the real registration of a deferred provider. The
// provider's own registrations replace the placeholder factories, so the
// re-resolve inside the placeholder lands on the real binding.
func (r *ProviderRegistry) activate(p Provider) error {
	r.mu.Lock()
	if r.eager != nil {
		for _, e := range r.eager {
			if e == p {
				r.mu.Unlock()
				return nil
			}
		}
	}
	r.eager = append(r.eager, p)
	booted := r.booted
	r.mu.Unlock()

	if err := p.Register(r.c); err != nil {
		return err
	}
	if booted {
		return p.Boot(r.c)
	}
	return nil
}

// Boot runs the Boot phase on all eagerly registered providers, in
// registration order. Calling Boot twice is a no-op.
func (r *ProviderRegistry) Boot() error {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return nil
	}
	r.booted = true
	providers := make([]Provider, len(r.eager))
	copy(providers, r.eager)
	r.mu.Unlock()

	for _, p := range providers {
		if err := p.Boot(r.c); err != nil {
			return err
		}
	}
	return nil
}

// Booted reports whether Boot has run.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}
