package container

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrServiceNotFound is returned by Resolve when an identifier has no
	// binding, no factory, and no delegate that knows it.
	ErrServiceNotFound = errors.New("container: service not found")

	// ErrCircularAlias is returned when following an alias chain revisits
	// an identifier.
	ErrCircularAlias = errors.New("container: circular alias")

	// ErrUnresolvableParameter is returned when a constructor or Call
	// parameter has no binding, no contextual override, and no matching
	// extra argument.
	ErrUnresolvableParameter = errors.New("container: unresolvable parameter")

	// ErrInvalidRegistration is returned for malformed registrations,
	// such as a self-alias or a constructor with an unusable signature.
	ErrInvalidRegistration = errors.New("container: invalid registration")
)

// CircularDependencyError reports a constructor dependency cycle.
// Chain holds the identifiers in construction order, ending with the
// identifier that closed the cycle.
type CircularDependencyError struct {
	Chain []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("container: circular dependency: %s", strings.Join(e.Chain, " -> "))
}

// IsCircularDependency returns true if the error is a CircularDependencyError.
func IsCircularDependency(err error) bool {
	var ce *CircularDependencyError
	return errors.As(err, &ce)
}
