package internal

import "errors"

// ErrPipelineNotConfigured is returned when a pipeline is processed
// without a terminal handler.
var ErrPipelineNotConfigured = errors.New("pipeline: no terminal handler configured")

// Pipeline threads a Context through an ordered middleware stack and into
// a terminal handler. Middleware runs in registration order; each layer
// decides whether to call the next one, so any layer can short-circuit
// the request.
//
// Example:
//
//	err := anvil.NewPipeline().
//	    Through(middlewares.RequestID(), middlewares.Recover()).
//	    ThroughNames("auth.middleware").
//	    Then(h.showDashboard).
//	    Process(c)
type Pipeline struct {
	stack    []Middleware
	terminal HandlerFunc
}

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Through appends middleware to the pipeline stack.
func (p *Pipeline) Through(mw ...Middleware) *Pipeline {
	p.stack = append(p.stack, mw...)
	return p
}

// ThroughNames appends container-registered middleware by identifier.
// Each identifier is resolved from the request's registry at invocation
// time and must implement MiddlewareService.
func (p *Pipeline) ThroughNames(ids ...string) *Pipeline {
	for _, id := range ids {
		p.stack = append(p.stack, Named(id))
	}
	return p
}

// Then sets the terminal handler the request reaches after the full stack.
func (p *Pipeline) Then(h HandlerFunc) *Pipeline {
	p.terminal = h
	return p
}

// Handler folds the stack around the terminal handler and returns the
// composed HandlerFunc. Middleware is applied last to first so the first
// registered layer is the outermost one.
func (p *Pipeline) Handler() (HandlerFunc, error) {
	if p.terminal == nil {
		return nil, ErrPipelineNotConfigured
	}
	h := p.terminal
	for i := len(p.stack) - 1; i >= 0; i-- {
		h = p.stack[i](h)
	}
	return h, nil
}

// Process runs the Context through the pipeline.
func (p *Pipeline) Process(c Context) error {
	h, err := p.Handler()
	if err != nil {
		return err
	}
	return h(c)
}

// chain composes middleware around a handler, first registered outermost.
// Shared by the router and the app's global middleware application.
func chain(h HandlerFunc, mw []Middleware) HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}
