package container

// ContextualBuilder implements the fluent contextual binding API:
//
//	c.When("report-service").Needs("clock").Give(func(*container.Container) (any, error) {
//	    return frozenClock, nil
//	})
type ContextualBuilder struct {
	container *Container
	owner     string
	needs     string
}

// When starts a contextual binding for the identifier that is being
// constructed when the override should apply.
func (c *Container) When(owner string) *ContextualBuilder {
	return &ContextualBuilder{container: c, owner: owner}
}

// Needs names the dependency to override.
func (b *ContextualBuilder) Needs(dep string) *ContextualBuilder {
	b.needs = dep
	return b
}

// Give records the factory used when the owner resolves the dependency.
// The override applies only while the owner is under construction; resolving
// the dependency directly still uses the global registration.
func (b *ContextualBuilder) Give(f Factory) {
	c := b.container
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.contextual[b.owner]; !ok {
		c.contextual[b.owner] = make(map[string]Factory)
	}
	c.contextual[b.owner][b.needs] = f
}

// GiveValue is shorthand for Give with a pre-built value.
func (b *ContextualBuilder) GiveValue(v any) {
	b.Give(func(*Container) (any, error) { return v, nil })
}

// contextualFactory returns the override for (owner, dep), or nil.
func (c *Container) contextualFactory(owner, dep string) Factory {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if m, ok := c.contextual[owner]; ok {
		return m[dep]
	}
	return nil
}
