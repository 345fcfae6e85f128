package internal

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultHealthTimeout = 5 * time.Second

	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// CheckFunc is the standard health check function signature.
type CheckFunc func(ctx context.Context) error

// healthChecks is a map of named health check functions.
type healthChecks map[string]CheckFunc

// healthResponse represents a health check response.
type healthResponse struct {
	Checks map[string]healthCheck `json:"checks,omitempty"`
	Status string                 `json:"status"`
}

// healthCheck represents the status of a single health check.
type healthCheck struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// livenessHandler returns a HandlerFunc that always responds OK.
func livenessHandler() HandlerFunc {
	return func(c Context) error {
		if wantsJSON(c.Request()) {
			return c.JSON(http.StatusOK, &healthResponse{Status: statusHealthy})
		}
		return c.String(http.StatusOK, "OK")
	}
}

// readinessHandler returns a HandlerFunc that runs all provided checks.
func readinessHandler(checks healthChecks) HandlerFunc {
	return func(c Context) error {
		resp := runChecks(c.Context(), checks, defaultHealthTimeout)

		status := http.StatusOK
		if resp.Status == statusUnhealthy {
			status = http.StatusServiceUnavailable
		}

		if wantsJSON(c.Request()) {
			return c.JSON(status, resp)
		}
		if resp.Status == statusHealthy {
			return c.String(status, "OK")
		}
		return c.String(status, "Service Unavailable")
	}
}

// runChecks executes all checks in parallel and returns the aggregated
// result. Individual failures are recorded per check rather than aborting
// the group.
func runChecks(ctx context.Context, checks healthChecks, timeout time.Duration) *healthResponse {
	if len(checks) == 0 {
		return &healthResponse{Status: statusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		results = make(map[string]healthCheck, len(checks))
		failed  bool
	)

	g, ctx := errgroup.WithContext(ctx)
	for name, check := range checks {
		g.Go(func() error {
			result := healthCheck{Status: statusHealthy}
			if err := check(ctx); err != nil {
				result.Status = statusUnhealthy
				result.Error = err.Error()
			}
			mu.Lock()
			if result.Status == statusUnhealthy {
				failed = true
			}
			results[name] = result
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	status := statusHealthy
	if failed {
		status = statusUnhealthy
	}

	return &healthResponse{
		Status: status,
		Checks: results,
	}
}

// wantsJSON checks if the client wants JSON response.
func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json")
}
