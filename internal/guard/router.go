package guard

import (
	"net/url"
	"strings"
)

const maxRedirects = 4

// Resolution is where a navigation ended up.
type Resolution struct {
	Requested  string
	Path       string // final path, query included
	Route      Route
	Params     map[string]string
	Query      url.Values
	Redirected bool
}

// Param returns a captured path parameter.
func (r Resolution) Param(name string) string {
	return r.Params[name]
}

// Router resolves paths against a route table using the current session facts.
type Router struct {
	routes []Route
	facts  Facts
}

// NewRouter builds a router over routes. A nil table uses Routes.
func NewRouter(facts Facts, routes []Route) *Router {
	if routes == nil {
		routes = Routes
	}
	return &Router{routes: routes, facts: facts}
}

// Lookup finds the route for path, ignoring any query string.
func (r *Router) Lookup(path string) (Route, map[string]string, bool) {
	bare, _, _ := strings.Cut(path, "?")
	for _, rt := range r.routes {
		if params, ok := rt.Match(bare); ok {
			return rt, params, true
		}
	}
	return Route{}, nil, false
}

// Resolve follows empty-path, fallback and guard redirects until a route admits
// the navigation. The result always points at a route in the table.
func (r *Router) Resolve(path string) Resolution {
	res := Resolution{Requested: path}
	current := path
	for i := 0; i <= maxRedirects; i++ {
		if strings.Trim(current, "/") == "" {
			current = HomePath
			res.Redirected = true
		}
		rt, params, ok := r.Lookup(current)
		if !ok {
			current = HomePath
			res.Redirected = true
			continue
		}
		d := rt.Check(r.facts, current)
		if d.Allowed {
			res.Path = current
			res.Route = rt
			res.Params = params
			res.Query = queryOf(current)
			return res
		}
		current = d.Redirect
		res.Redirected = true
	}
	home, _, _ := r.Lookup(HomePath)
	res.Path = HomePath
	res.Route = home
	res.Query = url.Values{}
	return res
}

func queryOf(path string) url.Values {
	_, raw, _ := strings.Cut(path, "?")
	q, err := url.ParseQuery(raw)
	if err != nil {
		return url.Values{}
	}
	return q
}
