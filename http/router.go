package http

import (
	"errors"
	"fmt"
	"log/slog"
)

var ErrDuplicateRoute = errors.New("http: duplicate route")

// RouteContext tells the not-found strategy what kind of request missed.
type RouteContext int

const (
	ContextRegular RouteContext = iota
	ContextAsset
	ContextAPI
)

func (c RouteContext) String() string {
	switch c {
	case ContextAsset:
		return "asset"
	case ContextAPI:
		return "api"
	default:
		return "regular"
	}
}

// Router dispatches requests to routes registered per method. The tables are
// meant to be filled before serving starts and only read afterwards.
type Router struct {
	Logger   *slog.Logger
	NotFound NotFound

	routes     map[string][]*Route
	middleware []Middleware
}

func NewRouter() *Router {
	return &Router{
		routes: make(map[string][]*Route),
	}
}

func (router *Router) GET(path string, handler Handler, middleware ...Middleware) {
	router.MustRegister(MethodGet, path, handler, middleware...)
}

func (router *Router) HEAD(path string, handler Handler, middleware ...Middleware) {
	router.MustRegister(MethodHead, path, handler, middleware...)
}

func (router *Router) POST(path string, handler Handler, middleware ...Middleware) {
	router.MustRegister(MethodPost, path, handler, middleware...)
}

func (router *Router) PUT(path string, handler Handler, middleware ...Middleware) {
	router.MustRegister(MethodPut, path, handler, middleware...)
}

func (router *Router) PATCH(path string, handler Handler, middleware ...Middleware) {
	router.MustRegister(MethodPatch, path, handler, middleware...)
}

func (router *Router) DELETE(path string, handler Handler, middleware ...Middleware) {
	router.MustRegister(MethodDelete, path, handler, middleware...)
}

func (router *Router) OPTIONS(path string, handler Handler, middleware ...Middleware) {
	router.MustRegister(MethodOptions, path, handler, middleware...)
}

// MustRegister is like Register but panics when the route already exists.
func (router *Router) MustRegister(method, path string, handler Handler, middleware ...Middleware) {
	if err := router.Register(method, path, handler, middleware...); err != nil {
		panic(err)
	}
}

// Register adds a route. Paths are split on "/" and segments starting with
// ":" capture a named parameter. Registering the same method and path twice
// returns ErrDuplicateRoute.
func (router *Router) Register(method, path string, handler Handler, middleware ...Middleware) error {
	if router.routes == nil {
		router.routes = make(map[string][]*Route)
	}

	for _, existing := range router.routes[method] {
		if existing.Path == path {
			return fmt.Errorf("%w: %s %s", ErrDuplicateRoute, method, path)
		}
	}

	p := compilePattern(path)

	if p.static {
		for _, existing := range router.routes[method] {
			if existing.pattern.static {
				continue
			}
			if _, ok := existing.pattern.match(path); ok {
				router.logger().Warn("static route shadows dynamic route",
					"method", method,
					"static", path,
					"dynamic", existing.Path,
				)
			}
		}
	}

	router.routes[method] = append(router.routes[method], &Route{
		Method:     method,
		Path:       path,
		Handler:    handler,
		Middleware: middleware,
		pattern:    p,
	})

	return nil
}

// Use appends global middleware, run for every request before matching.
func (router *Router) Use(middleware ...Middleware) {
	router.middleware = append(router.middleware, middleware...)
}

// Group registers the routes added by groupFunc under path, with middleware
// running before each route's own middleware.
func (router *Router) Group(path string, groupFunc func(group *Router), middleware ...Middleware) {
	group := NewRouter()
	group.Logger = slog.New(slog.DiscardHandler)

	groupFunc(group)

	for _, method := range group.methods() {
		for _, route := range group.routes[method] {
			chain := make([]Middleware, 0, len(middleware)+len(route.Middleware))
			chain = append(chain, middleware...)
			chain = append(chain, route.Middleware...)

			router.MustRegister(method, path+route.Path, route.Handler, chain...)
		}
	}
}

// Routes returns the routes registered for method in registration order.
func (router *Router) Routes(method string) []Route {
	routes := make([]Route, 0, len(router.routes[method]))
	for _, route := range router.routes[method] {
		routes = append(routes, *route)
	}
	return routes
}

// Route runs the request through the global middleware, the matching route's
// middleware and its handler. A static route beats a dynamic one for the same
// path regardless of registration order.
func (router *Router) Route(req *Request, ctx RouteContext) *Response {
	if res := runMiddleware(router.middleware, req); res != nil {
		return res
	}

	routes, ok := router.routes[req.Method]
	if !ok || len(routes) == 0 {
		return router.NotFound.Handle(req, ctx)
	}

	var (
		static  *Route
		dynamic *Route
		params  map[string]string
	)
	for _, route := range routes {
		if route.pattern.static {
			if static == nil && route.Path == req.Path {
				static = route
			}
			continue
		}
		if dynamic == nil {
			if captured, ok := route.pattern.match(req.Path); ok {
				dynamic = route
				params = captured
			}
		}
	}

	matched := static
	if matched == nil {
		matched = dynamic
		if matched == nil {
			return router.NotFound.Handle(req, ctx)
		}
		req.PathParams = params
	}
	req.Pattern = matched.Path

	if res := runMiddleware(matched.Middleware, req); res != nil {
		return res
	}

	return matched.Handler(req)
}

func runMiddleware(middleware []Middleware, req *Request) *Response {
	for _, mw := range middleware {
		if res := mw(req); res != nil {
			return res
		}
	}
	return nil
}

func (router *Router) methods() []string {
	methods := make([]string, 0, len(router.routes))
	for _, method := range []string{MethodGet, MethodHead, MethodPost, MethodPut, MethodPatch, MethodDelete, MethodOptions} {
		if _, ok := router.routes[method]; ok {
			methods = append(methods, method)
		}
	}
	for method := range router.routes {
		if !isStandardMethod(method) {
			methods = append(methods, method)
		}
	}
	return methods
}

func isStandardMethod(method string) bool {
	switch method {
	case MethodGet, MethodHead, MethodPost, MethodPut, MethodPatch, MethodDelete, MethodOptions:
		return true
	}
	return false
}

func (router *Router) logger() *slog.Logger {
	if router.Logger != nil {
		return router.Logger
	}
	return slog.Default()
}
