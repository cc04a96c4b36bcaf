package route

import (
	"net/http"
	"net/url"
	"slices"
	"strings"
)

// Router is the immutable route and catcher index built at finalization.
// Routes are tried in (rank, sequence) order.
type Router struct {
	routes   []*Route
	catchers []*Catcher
}

// Match is a successful route lookup.
type Match struct {
	Route  *Route
	Params map[string]string
}

// NewRouter indexes routes and catchers and reports every colliding pair.
// The router is usable even when collisions are returned.
func NewRouter(routes []*Route, catchers []*Catcher) (*Router, Collisions) {
	r := &Router{
		routes:   slices.Clone(routes),
		catchers: slices.Clone(catchers),
	}
	slices.SortStableFunc(r.routes, func(a, b *Route) int {
		if a.rank != b.rank {
			return a.rank - b.rank
		}
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})

	var c Collisions
	for i := range r.routes {
		for j := i + 1; j < len(r.routes); j++ {
			if r.routes[i].Collides(r.routes[j]) {
				c.Routes = append(c.Routes, [2]*Route{r.routes[i], r.routes[j]})
			}
		}
	}
	for i := range r.catchers {
		for j := i + 1; j < len(r.catchers); j++ {
			if r.catchers[i].Collides(r.catchers[j]) {
				c.Catchers = append(c.Catchers, [2]*Catcher{r.catchers[i], r.catchers[j]})
			}
		}
	}
	return r, c
}

// Routes returns the routes in matching order.
func (r *Router) Routes() []*Route { return slices.Clone(r.routes) }

// Catchers returns the catchers in registration order.
func (r *Router) Catchers() []*Catcher { return slices.Clone(r.catchers) }

// Route finds the first route matching the request method and URL. HEAD
// requests fall back to GET routes.
func (r *Router) Route(method string, u *url.URL) (Match, bool) {
	parts := splitPath(requestPath(u))
	query := u.Query()

	if m, ok := r.route(method, parts, query); ok {
		return m, true
	}
	if method == http.MethodHead {
		return r.route(http.MethodGet, parts, query)
	}
	return Match{}, false
}

func (r *Router) route(method string, parts []string, query url.Values) (Match, bool) {
	for _, rt := range r.routes {
		if params, ok := rt.Match(method, parts, query); ok {
			return Match{Route: rt, Params: params}, true
		}
	}
	return Match{}, false
}

// Allowed returns the methods of routes whose path matches u, sorted.
// A non-empty result for an unmatched request means 405 rather than 404.
func (r *Router) Allowed(u *url.URL) []string {
	parts := splitPath(requestPath(u))
	query := u.Query()

	var methods []string
	for _, rt := range r.routes {
		if rt.method == Any {
			continue
		}
		if _, ok := rt.matchPath(parts, query); ok && !slices.Contains(methods, rt.method) {
			methods = append(methods, rt.method)
		}
	}
	slices.Sort(methods)
	return methods
}

// Catch returns the catcher for status and request path: the one with the
// longest base that prefixes path, preferring an exact status over a default
// catcher with the same base. It returns nil if none applies.
func (r *Router) Catch(status int, path string) *Catcher {
	parts := splitPath(path)

	var best *Catcher
	bestLen := -1
	for _, c := range r.catchers {
		if c.code != status && c.code != 0 {
			continue
		}
		if !hasPrefix(c.base.segments, parts) {
			continue
		}
		n := baseLen(c.base)
		if n > bestLen || (n == bestLen && best.code == 0 && c.code != 0) {
			best, bestLen = c, n
		}
	}
	return best
}

func baseLen(o Origin) int {
	n := len(o.segments)
	if n > 0 && o.segments[n-1].value == "" {
		n--
	}
	return n
}

func requestPath(u *url.URL) string {
	p := u.EscapedPath()
	if p == "" {
		return "/"
	}
	return p
}

// Collisions lists every colliding pair found by NewRouter.
type Collisions struct {
	Routes   [][2]*Route
	Catchers [][2]*Catcher
}

// Empty reports whether no collisions were found.
func (c Collisions) Empty() bool {
	return len(c.Routes) == 0 && len(c.Catchers) == 0
}

// Len returns the number of colliding pairs.
func (c Collisions) Len() int {
	return len(c.Routes) + len(c.Catchers)
}

func (c Collisions) String() string {
	lines := make([]string, 0, c.Len())
	for _, p := range c.Routes {
		lines = append(lines, p[0].String()+" <> "+p[1].String())
	}
	for _, p := range c.Catchers {
		lines = append(lines, p[0].String()+" <> "+p[1].String())
	}
	return strings.Join(lines, "; ")
}
