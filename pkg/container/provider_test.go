package container_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/pkg/container"
)

type recordingProvider struct {
	container.BaseProvider
	name string
	log  *[]string
	lazy bool
	ids  []string
}

func (p *recordingProvider) Register(c *container.Container) error {
	*p.log = append(*p.log, p.name+":register")
	for _, id := range p.ids {
		if err := c.RegisterSingleton(id, p.name+":"+id); err != nil {
			return err
		}
	}
	return nil
}

func (p *recordingProvider) Boot(c *container.Container) error {
	*p.log = append(*p.log, p.name+":boot")
	return nil
}

func (p *recordingProvider) Provides() []string { return p.ids }
func (p *recordingProvider) Deferred() bool     { return p.lazy }

func TestProviderRegistry(t *testing.T) {
	t.Parallel()

	t.Run("eager providers register and boot in order", func(t *testing.T) {
		t.Parallel()

		var log []string
		c := container.New()
		reg := container.NewProviderRegistry(c)

		require.NoError(t, reg.Register(&recordingProvider{name: "first", log: &log, ids: []string{"svc.first"}}))
		require.NoError(t, reg.Register(&recordingProvider{name: "second", log: &log, ids: []string{"svc.second"}}))
		require.Equal(t, []string{"first:register", "second:register"}, log)

		require.NoError(t, reg.Boot())
		require.Equal(t, []string{"first:register", "second:register", "first:boot", "second:boot"}, log)
		require.True(t, reg.Booted())

		// Boot is idempotent.
		require.NoError(t, reg.Boot())
		require.Equal(t, 4, len(log))
	})

	t.Run("deferred provider activates on first resolution", func(t *testing.T) {
		t.Parallel()

		var log []string
		c := container.New()
		reg := container.NewProviderRegistry(c)

		p := &recordingProvider{name: "lazy", log: &log, lazy: true, ids: []string{"svc.lazy"}}
		require.NoError(t, reg.Register(p))
		require.NoError(t, reg.Boot())
		require.Empty(t, log)
		require.True(t, c.Has("svc.lazy"))

		v, err := c.Resolve("svc.lazy")
		require.NoError(t, err)
		require.Equal(t, "lazy:svc.lazy", v)
		require.Equal(t, []string{"lazy:register", "lazy:boot"}, log)

		// Activation happens once.
		_, err = c.Resolve("svc.lazy")
		require.NoError(t, err)
		require.Equal(t, 2, len(log))
	})

	t.Run("deferred provider missing a declared id fails", func(t *testing.T) {
		t.Parallel()

		var log []string
		c := container.New()
		reg := container.NewProviderRegistry(c)

		// Claims two ids but only registers the first.
		p := &recordingProvider{name: "partial", log: &log, lazy: true, ids: []string{"svc.bound"}}
		bad := &declaringProvider{inner: p, declared: []string{"svc.bound", "svc.ghost"}}
		require.NoError(t, reg.Register(bad))
		require.NoError(t, reg.Boot())

		v, err := c.Resolve("svc.bound")
		require.NoError(t, err)
		require.Equal(t, "partial:svc.bound", v)

		_, err = c.Resolve("svc.ghost")
		require.ErrorIs(t, err, container.ErrInvalidRegistration)
		require.ErrorContains(t, err, "svc.ghost")
	})
}

// declaringProvider wraps a provider while overstating its Provides list.
type declaringProvider struct {
	inner    *recordingProvider
	declared []string
}

func (p *declaringProvider) Register(c *container.Container) error { return p.inner.Register(c) }
func (p *declaringProvider) Boot(c *container.Container) error     { return p.inner.Boot(c) }
func (p *declaringProvider) Provides() []string                    { return p.declared }
func (p *declaringProvider) Deferred() bool                        { return true }
