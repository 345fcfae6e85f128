package container

import (
	"errors"
	"fmt"
	"reflect"
)

var errType = reflect.TypeFor[error]()

// constructorProvider adapts a constructor function into a provider.
// The function may return (T) or (T, error). Each parameter is resolved
// from the container by its type key. Contextual bindings registered for
// (id, parameter key) win over global registrations because id sits on
// top of the resolution stack while the parameters are resolved.
func constructorProvider(id string, fn reflect.Value) (provider, error) {
	t := fn.Type()
	if t.NumOut() < 1 || t.NumOut() > 2 {
		return nil, fmt.Errorf("%w: constructor for %q must return a value or a value and an error", ErrInvalidRegistration, id)
	}
	if t.NumOut() == 2 && !t.Out(1).AssignableTo(errType) {
		return nil, fmt.Errorf("%w: constructor for %q must return an error as its second value", ErrInvalidRegistration, id)
	}
	if t.IsVariadic() {
		return nil, fmt.Errorf("%w: variadic constructor for %q", ErrInvalidRegistration, id)
	}

	params := make([]reflect.Type, t.NumIn())
	for i := range params {
		params[i] = t.In(i)
	}

	return func(c *Container, res *resolution) (any, error) {
		args := make([]reflect.Value, len(params))
		for i, pt := range params {
			v, err := c.resolveParam(pt, res)
			if err != nil {
				return nil, fmt.Errorf("resolving parameter %d of %q: %w", i, id, err)
			}
			args[i] = v
		}

		out := fn.Call(args)
		if len(out) == 2 {
			if err, _ := out[1].Interface().(error); err != nil {
				return nil, fmt.Errorf("constructing %q: %w", id, err)
			}
		}
		return out[0].Interface(), nil
	}, nil
}

// resolveParam resolves a single dependency by the key derived from its
// type. A missing binding surfaces as ErrUnresolvableParameter; every other
// failure (cycles, failing constructors) passes through unchanged.
func (c *Container) resolveParam(pt reflect.Type, res *resolution) (reflect.Value, error) {
	key := typeKeyOf(pt)

	v, err := c.resolveWith(key, res)
	if err != nil {
		if errors.Is(err, ErrServiceNotFound) {
			return reflect.Value{}, fmt.Errorf("%w: no binding for %s (key %q)", ErrUnresolvableParameter, pt, key)
		}
		return reflect.Value{}, err
	}

	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return reflect.Zero(pt), nil
	}
	if !rv.Type().AssignableTo(pt) {
		return reflect.Value{}, fmt.Errorf("%w: %q resolved to %T, want %s", ErrUnresolvableParameter, key, v, pt)
	}
	return rv, nil
}
