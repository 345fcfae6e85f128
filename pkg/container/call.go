package container

import (
	"fmt"
	"reflect"
)

// Call invokes fn with dependency-injected arguments.
//
// Each parameter is satisfied by the first unused extra argument whose type
// is assignable to it; remaining parameters are resolved from the registry
// by their type key, with contextual overrides consulted during any nested
// construction. A parameter with no extra and no binding fails with
// ErrUnresolvableParameter. Go reflection exposes parameter types but not
// names, which is why extras match by type rather than by name.
//
// fn may return (T), (T, error), (error), or nothing. The first non-error
// return value and the error, if any, are returned. A variadic tail is
// invoked empty.
func (c *Container) Call(fn any, extra ...any) (any, error) {
	fv := reflect.ValueOf(fn)
	if !fv.IsValid() || fv.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: Call target must be a function, got %T", ErrInvalidRegistration, fn)
	}
	t := fv.Type()

	numIn := t.NumIn()
	if t.IsVariadic() {
		numIn--
	}

	used := make([]bool, len(extra))
	args := make([]reflect.Value, numIn)
	res := &resolution{}

params:
	for i := range numIn {
		pt := t.In(i)

		for j, ex := range extra {
			if used[j] {
				continue
			}
			ev := reflect.ValueOf(ex)
			if ev.IsValid() && ev.Type().AssignableTo(pt) {
				args[i] = ev
				used[j] = true
				continue params
			}
		}

		v, err := c.resolveParam(pt, res)
		if err != nil {
			return nil, fmt.Errorf("calling %s: argument %d: %w", t, i, err)
		}
		args[i] = v
	}

	out := fv.Call(args)

	var result any
	var callErr error
	for _, o := range out {
		if o.Type().AssignableTo(errType) {
			if e, ok := o.Interface().(error); ok && e != nil {
				callErr = e
			}
			continue
		}
		if result == nil {
			result = o.Interface()
		}
	}
	return result, callErr
}
