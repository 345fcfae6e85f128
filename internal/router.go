package internal

import (
	"net/http"
	"regexp"
	"slices"
	"strings"
	"sync"
)

// Router is the interface handlers use to declare routes.
// It provides HTTP method routing and grouping capabilities.
type Router interface {
	// GET registers a handler for GET requests.
	GET(path string, h HandlerFunc, mw ...Middleware)

	// POST registers a handler for POST requests.
	POST(path string, h HandlerFunc, mw ...Middleware)

	// PUT registers a handler for PUT requests.
	PUT(path string, h HandlerFunc, mw ...Middleware)

	// PATCH registers a handler for PATCH requests.
	PATCH(path string, h HandlerFunc, mw ...Middleware)

	// DELETE registers a handler for DELETE requests.
	DELETE(path string, h HandlerFunc, mw ...Middleware)

	// HEAD registers a handler for HEAD requests.
	HEAD(path string, h HandlerFunc, mw ...Middleware)

	// OPTIONS registers a handler for OPTIONS requests.
	OPTIONS(path string, h HandlerFunc, mw ...Middleware)

	// Group creates an inline route group. Routes declared inside fn share
	// the group's middleware but no pattern prefix.
	Group(fn func(r Router))

	// Route creates a route group with a pattern prefix.
	// All routes defined inside fn share the pattern prefix.
	Route(pattern string, fn func(r Router))

	// Use appends middleware to the router's middleware stack.
	// It applies to routes registered after the call.
	Use(mw ...Middleware)

	// Mount attaches an http.Handler under the given path prefix.
	// Use this for legacy handlers or third-party routers.
	Mount(pattern string, h http.Handler)
}

// route is a single registered route. Parameterized paths carry a compiled
// pattern and the ordered parameter names; static paths leave both nil.
type route struct {
	method  string
	path    string
	handler HandlerFunc
	pattern *regexp.Regexp
	params  []string
}

// paramSegment matches a single {name} placeholder.
var paramSegment = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// mux is the route table. Static routes live in a per-method map for O(1)
// lookup; parameterized routes are scanned in registration order so the
// first registered match wins. Pattern compilation is deferred until the
// first match after a registration. mu guards the tables and the compiled
// flag; requests are served concurrently.
type mux struct {
	mu       sync.RWMutex
	static   map[string]map[string]*route
	dynamic  map[string][]*route
	compiled bool
}

func newMux() *mux {
	return &mux{
		static:  make(map[string]map[string]*route),
		dynamic: make(map[string][]*route),
	}
}

// normalizePath ensures a leading slash, collapses consecutive slashes,
// and strips trailing slashes, keeping "/" intact.
func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = p[:len(p)-1]
	}
	return p
}

// joinPattern concatenates a group prefix and a route path.
func joinPattern(prefix, path string) string {
	prefix = normalizePath(prefix)
	path = normalizePath(path)
	if prefix == "/" {
		return path
	}
	if path == "/" {
		return prefix
	}
	return prefix + path
}

// add registers a route. Static routes replace an earlier registration for
// the same method and path; parameterized routes always append.
func (m *mux) add(method, path string, h HandlerFunc) {
	path = normalizePath(path)
	rt := &route{method: method, path: path, handler: h}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !strings.Contains(path, "{") {
		if m.static[method] == nil {
			m.static[method] = make(map[string]*route)
		}
		m.static[method][path] = rt
		return
	}

	m.dynamic[method] = append(m.dynamic[method], rt)
	m.compiled = false
}

// compile builds regexps for all dynamic routes that lack one.
// Placeholder segments become ([^/]+) capture groups; everything around
// them is quoted literally. Callers must hold mu for writing.
func (m *mux) compile() {
	for _, routes := range m.dynamic {
		for _, rt := range routes {
			if rt.pattern != nil {
				continue
			}
			rt.params = rt.params[:0]
			var b strings.Builder
			b.WriteString("^")
			rest := rt.path
			for {
				loc := paramSegment.FindStringSubmatchIndex(rest)
				if loc == nil {
					b.WriteString(regexp.QuoteMeta(rest))
					break
				}
				b.WriteString(regexp.QuoteMeta(rest[:loc[0]]))
				b.WriteString(`([^/]+)`)
				rt.params = append(rt.params, rest[loc[2]:loc[3]])
				rest = rest[loc[1]:]
			}
			b.WriteString("$")
			rt.pattern = regexp.MustCompile(b.String())
		}
	}
	m.compiled = true
}

// match finds the route for a request. Static routes win over dynamic
// ones; dynamic routes are tried in registration order. A path registered
// under other methods yields MethodNotAllowedError with the allowed list;
// an unknown path yields RouteNotFoundError.
func (m *mux) match(method, path string) (*route, map[string]string, error) {
	path = normalizePath(path)

	m.mu.RLock()
	if !m.compiled {
		m.mu.RUnlock()
		m.mu.Lock()
		if !m.compiled {
			m.compile()
		}
		m.mu.Unlock()
		m.mu.RLock()
	}
	defer m.mu.RUnlock()

	if rt, ok := m.static[method][path]; ok {
		return rt, nil, nil
	}

	for _, rt := range m.dynamic[method] {
		if sub := rt.pattern.FindStringSubmatch(path); sub != nil {
			params := make(map[string]string, len(rt.params))
			for i, name := range rt.params {
				params[name] = sub[i+1]
			}
			return rt, params, nil
		}
	}

	if allowed := m.allowedMethods(method, path); len(allowed) > 0 {
		return nil, nil, &MethodNotAllowedError{Method: method, Path: path, Allowed: allowed}
	}
	return nil, nil, &RouteNotFoundError{Method: method, Path: path}
}

// allowedMethods reports the other methods under which the path would
// match, checking both exact tables and compiled patterns. Callers must
// hold mu and have run compile.
func (m *mux) allowedMethods(method, path string) []string {
	var allowed []string
	for meth, table := range m.static {
		if meth == method {
			continue
		}
		if _, ok := table[path]; ok {
			allowed = append(allowed, meth)
		}
	}
	for meth, routes := range m.dynamic {
		if meth == method || slices.Contains(allowed, meth) {
			continue
		}
		for _, rt := range routes {
			if rt.pattern.MatchString(path) {
				allowed = append(allowed, meth)
				break
			}
		}
	}
	slices.Sort(allowed)
	return allowed
}

// routerAdapter implements Router on top of the app's mux. Groups get a
// child adapter with its own prefix and a copied middleware chain, so
// nothing declared inside a group leaks back out.
type routerAdapter struct {
	app    *App
	prefix string
	mw     []Middleware
}

func (r *routerAdapter) GET(path string, h HandlerFunc, mw ...Middleware) {
	r.handle(http.MethodGet, path, h, mw)
}

func (r *routerAdapter) POST(path string, h HandlerFunc, mw ...Middleware) {
	r.handle(http.MethodPost, path, h, mw)
}

func (r *routerAdapter) PUT(path string, h HandlerFunc, mw ...Middleware) {
	r.handle(http.MethodPut, path, h, mw)
}

func (r *routerAdapter) PATCH(path string, h HandlerFunc, mw ...Middleware) {
	r.handle(http.MethodPatch, path, h, mw)
}

func (r *routerAdapter) DELETE(path string, h HandlerFunc, mw ...Middleware) {
	r.handle(http.MethodDelete, path, h, mw)
}

func (r *routerAdapter) HEAD(path string, h HandlerFunc, mw ...Middleware) {
	r.handle(http.MethodHead, path, h, mw)
}

func (r *routerAdapter) OPTIONS(path string, h HandlerFunc, mw ...Middleware) {
	r.handle(http.MethodOptions, path, h, mw)
}

func (r *routerAdapter) Group(fn func(Router)) {
	fn(r.child(""))
}

func (r *routerAdapter) Route(pattern string, fn func(Router)) {
	fn(r.child(pattern))
}

func (r *routerAdapter) Use(mw ...Middleware) {
	r.mw = append(r.mw, mw...)
}

func (r *routerAdapter) Mount(pattern string, h http.Handler) {
	r.app.mount(joinPattern(r.prefix, pattern), h)
}

// child creates a nested adapter. The middleware slice is copied so the
// child's Use calls never mutate the parent's chain.
func (r *routerAdapter) child(pattern string) *routerAdapter {
	prefix := r.prefix
	if pattern != "" {
		prefix = joinPattern(r.prefix, pattern)
	}
	return &routerAdapter{
		app:    r.app,
		prefix: prefix,
		mw:     slices.Clone(r.mw),
	}
}

// handle registers a route with the group and route middleware baked in.
// Group middleware wraps route middleware, which wraps the handler.
func (r *routerAdapter) handle(method, path string, h HandlerFunc, mw []Middleware) {
	h = chain(h, mw)
	h = chain(h, r.mw)
	r.app.mux.add(method, joinPattern(r.prefix, path), h)
}
