package router

import (
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sort"
	"strings"

	"github.com/certpanel/certpanel/core/handler"
)

// mux is the private implementation of Router.
type mux[C handler.Context] struct {
	routes       *[]route[C] // shared with inline groups
	middlewares  []handler.Middleware[C]
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request, map[string]string) C
	logger       *slog.Logger
	parent       *mux[C] // for inline groups
	inline       bool
	sealed       bool // routes registered; root middlewares frozen
}

type route[C handler.Context] struct {
	method  string // "" matches any method
	pattern pattern
	fn      handler.HandlerFunc[C]
}

func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	routes := make([]route[C], 0, 16)
	m := &mux[C]{
		routes:       &routes,
		errorHandler: defaultErrorHandler[C],
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.newContext == nil {
		m.newContext = func(w http.ResponseWriter, r *http.Request, params map[string]string) C {
			// Only the default *Context type works without a factory.
			var zero C
			if _, ok := any(zero).(*Context); ok {
				return any(newContext(w, r, params)).(C)
			}
			panic(ErrNoContextFactory)
		}
	}

	return m
}

// ServeHTTP implements http.Handler.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ww := newResponseWriter(w)

	path := r.URL.Path
	if path == "" {
		path = "/"
	}

	fn, params, allowed := m.findRoute(r.Method, path)

	ctx := m.newContext(ww, r, params)

	// Recover from handler panics so one request cannot crash the server.
	defer func() {
		if p := recover(); p != nil {
			panicErr := &panicError{value: p, stack: debug.Stack()}
			if ww.Written() {
				m.logger.Error("panic after response written",
					"value", panicErr.value,
					"stack", string(panicErr.stack),
					"path", r.URL.Path,
					"method", r.Method,
					"status", ww.Status(),
				)
				return
			}
			m.errorHandler(ctx, panicErr)
		}
	}()

	if fn == nil {
		if len(allowed) > 0 {
			// Set Allow header per RFC 7231 before responding with 405.
			if !ww.Written() {
				ww.Header().Set("Allow", strings.Join(allowed, ", "))
			}
			m.errorHandler(ctx, ErrMethodNotAllowed)
		} else {
			m.errorHandler(ctx, ErrNotFound)
		}
		return
	}

	if len(m.middlewares) > 0 {
		fn = chain(m.middlewares, fn)
	}

	response := fn(ctx)
	if response == nil {
		m.errorHandler(ctx, ErrNilResponse)
		return
	}

	if err := response(ww, r); err != nil {
		m.errorHandler(ctx, err)
	}
}

// findRoute selects the best matching route for method+path. Among routes
// whose pattern matches the path, the one with the most literal segments
// wins, so "/export/{id}/{name}/bundle.zip" beats "/export/{id}/{name}/{which}".
// When the path matches but no method does, the allowed methods are returned
// for the 405 response.
func (m *mux[C]) findRoute(method, path string) (handler.HandlerFunc[C], map[string]string, []string) {
	var (
		best       *route[C]
		bestParams map[string]string
		allowedSet map[string]bool
	)

	for i := range *m.routes {
		rt := &(*m.routes)[i]
		params, ok := rt.pattern.match(path)
		if !ok {
			continue
		}
		if rt.method != "" && rt.method != method {
			if allowedSet == nil {
				allowedSet = make(map[string]bool)
			}
			allowedSet[rt.method] = true
			continue
		}
		if best == nil || rt.pattern.literals > best.pattern.literals {
			best = rt
			bestParams = params
		}
	}

	if best != nil {
		return best.fn, bestParams, nil
	}

	var allowed []string
	for mt := range allowedSet {
		allowed = append(allowed, mt)
	}
	sort.Strings(allowed)
	return nil, nil, allowed
}

func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C])     { m.handle(http.MethodGet, pattern, h) }
func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C])    { m.handle(http.MethodPost, pattern, h) }
func (m *mux[C]) Put(pattern string, h handler.HandlerFunc[C])     { m.handle(http.MethodPut, pattern, h) }
func (m *mux[C]) Delete(pattern string, h handler.HandlerFunc[C])  { m.handle(http.MethodDelete, pattern, h) }
func (m *mux[C]) Head(pattern string, h handler.HandlerFunc[C])    { m.handle(http.MethodHead, pattern, h) }
func (m *mux[C]) Options(pattern string, h handler.HandlerFunc[C]) { m.handle(http.MethodOptions, pattern, h) }

// Handle registers a handler for all HTTP methods.
func (m *mux[C]) Handle(pattern string, h handler.HandlerFunc[C]) {
	m.handle("", pattern, h)
}

// Use appends middleware to the router. Must be called before any route is
// registered so the chain is identical for every route.
func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	if m.sealed {
		panic("router: all middlewares must be defined before routes")
	}
	m.middlewares = append(m.middlewares, middlewares...)
}

// With creates an inline router with additional middleware applied to the
// routes registered through it.
func (m *mux[C]) With(middlewares ...handler.Middleware[C]) Router[C] {
	return &mux[C]{
		inline:       true,
		parent:       m,
		routes:       m.routes,
		middlewares:  middlewares,
		errorHandler: m.errorHandler,
		newContext:   m.newContext,
		logger:       m.logger,
	}
}

// Group creates an inline router for grouping routes.
func (m *mux[C]) Group(fn func(r Router[C])) Router[C] {
	im := m.With()
	if fn != nil {
		fn(im)
	}
	return im
}

// Routes returns all registered routes.
func (m *mux[C]) Routes() []Route {
	out := make([]Route, 0, len(*m.routes))
	for _, rt := range *m.routes {
		method := rt.method
		if method == "" {
			method = "*"
		}
		out = append(out, Route{Method: method, Pattern: rt.pattern.raw})
	}
	return out
}

func (m *mux[C]) handle(method, raw string, fn handler.HandlerFunc[C]) {
	p, err := compilePattern(raw)
	if err != nil {
		panic(err)
	}

	if !m.inline {
		m.sealed = true
	}

	// Inline groups bake their middleware chain (including parent inline
	// groups) into the handler at registration time. The root router's
	// middlewares are applied at dispatch.
	h := fn
	if m.inline {
		var all []handler.Middleware[C]
		for curr := m; curr != nil && curr.inline; curr = curr.parent {
			if len(curr.middlewares) > 0 {
				all = append(append([]handler.Middleware[C]{}, curr.middlewares...), all...)
			}
		}
		if len(all) > 0 {
			h = chain(all, fn)
		}
	}

	*m.routes = append(*m.routes, route[C]{method: method, pattern: p, fn: h})
}
