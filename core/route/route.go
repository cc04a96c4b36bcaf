package route

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/dmitrymomot/liftoff/core/handler"
)

// Any matches every request method.
const Any = ""

var sequence atomic.Uint64

// Route is a request handler bound to a method and an origin pattern.
//
// Routes are immutable; Rebase returns a mounted copy.
type Route struct {
	name      string
	method    string
	origin    Origin
	base      Origin
	rank      int
	ranked    bool
	seq       uint64
	handler   handler.HandlerFunc
	sentinels []Sentinel
	query     url.Values
}

// Option configures a Route.
type Option func(*Route)

// WithName sets the route name used in logs and collision reports.
func WithName(name string) Option {
	return func(r *Route) { r.name = name }
}

// WithRank overrides the default rank. Lower ranks are tried first.
func WithRank(rank int) Option {
	return func(r *Route) { r.rank, r.ranked = rank, true }
}

// WithSentinels attaches sentinels queried at finalization.
func WithSentinels(s ...Sentinel) Option {
	return func(r *Route) { r.sentinels = append(r.sentinels, s...) }
}

// New creates a route. It panics if path is not a valid origin or h is nil,
// like the rest of the route declaration API.
//
// The default rank is 0 for fully static paths, 1 for paths with {param}
// segments and 2 for paths ending in a {rest...} wildcard.
func New(method, path string, h handler.HandlerFunc, opts ...Option) *Route {
	if h == nil {
		panic(fmt.Errorf("route %s %s: %w", method, path, ErrNilHandler))
	}
	origin, err := ParseOrigin(path)
	if err != nil {
		panic(fmt.Errorf("route %s %s: %w", method, path, err))
	}

	r := &Route{
		method:  strings.ToUpper(method),
		origin:  origin,
		base:    MustParseOrigin("/"),
		handler: h,
	}
	for _, opt := range opts {
		opt(r)
	}
	if !r.ranked {
		r.rank = origin.rank()
	}
	r.query = parseQuery(origin)
	return r
}

func Get(path string, h handler.HandlerFunc, opts ...Option) *Route {
	return New(http.MethodGet, path, h, opts...)
}

func Post(path string, h handler.HandlerFunc, opts ...Option) *Route {
	return New(http.MethodPost, path, h, opts...)
}

func Put(path string, h handler.HandlerFunc, opts ...Option) *Route {
	return New(http.MethodPut, path, h, opts...)
}

func Patch(path string, h handler.HandlerFunc, opts ...Option) *Route {
	return New(http.MethodPatch, path, h, opts...)
}

func Delete(path string, h handler.HandlerFunc, opts ...Option) *Route {
	return New(http.MethodDelete, path, h, opts...)
}

// Handle creates a route matching every method.
func Handle(path string, h handler.HandlerFunc, opts ...Option) *Route {
	return New(Any, path, h, opts...)
}

// Rebase returns a copy of r mounted under base with a fresh sequence number.
// Any query on base must be removed by the caller.
func (r *Route) Rebase(base Origin) *Route {
	out := *r
	out.base = base
	out.origin = Rebase(base, r.origin)
	out.query = parseQuery(out.origin)
	out.sentinels = append([]Sentinel(nil), r.sentinels...)
	out.seq = sequence.Add(1)
	return &out
}

// Name returns the route name, or "" if unnamed.
func (r *Route) Name() string { return r.name }

// Method returns the route method; Any matches every method.
func (r *Route) Method() string { return r.method }

// Origin returns the effective origin.
func (r *Route) Origin() Origin { return r.origin }

// Path returns the effective URI, including the query if any.
func (r *Route) Path() string { return r.origin.String() }

// Base returns the mount base.
func (r *Route) Base() Origin { return r.base }

// Rank returns the matching rank.
func (r *Route) Rank() int { return r.rank }

// Seq returns the mount sequence number; 0 for unmounted routes.
func (r *Route) Seq() uint64 { return r.seq }

// Handler returns the route handler.
func (r *Route) Handler() handler.HandlerFunc { return r.handler }

// Sentinels returns the sentinels attached to the route.
func (r *Route) Sentinels() []Sentinel {
	return append([]Sentinel(nil), r.sentinels...)
}

func (r *Route) String() string {
	method := r.method
	if method == Any {
		method = "*"
	}
	s := fmt.Sprintf("%s %s [%d]", method, r.origin, r.rank)
	if r.name != "" {
		s += " (" + r.name + ")"
	}
	return s
}

// Collides reports whether some request could be matched by both r and o at
// the same rank.
func (r *Route) Collides(o *Route) bool {
	if r.rank != o.rank {
		return false
	}
	if r.method != Any && o.method != Any && r.method != o.method {
		return false
	}
	if !overlaps(r.origin.segments, o.origin.segments) {
		return false
	}
	return queriesOverlap(r.query, o.query)
}

// Match matches a request method, escaped path and query against the route.
func (r *Route) Match(method string, parts []string, query url.Values) (map[string]string, bool) {
	if r.method != Any && r.method != method {
		return nil, false
	}
	return r.matchPath(parts, query)
}

func (r *Route) matchPath(parts []string, query url.Values) (map[string]string, bool) {
	params, ok := match(r.origin.segments, parts)
	if !ok {
		return nil, false
	}
	for key, want := range r.query {
		got, present := query[key]
		if !present {
			return nil, false
		}
		for _, w := range want {
			if w != "" && !contains(got, w) {
				return nil, false
			}
		}
	}
	return params, true
}

func parseQuery(o Origin) url.Values {
	q, ok := o.Query()
	if !ok || q == "" {
		return nil
	}
	vals, err := url.ParseQuery(q)
	if err != nil {
		return nil
	}
	return vals
}

// queriesOverlap reports whether a request query could satisfy both
// constraint sets: no key may be pinned to different values.
func queriesOverlap(a, b url.Values) bool {
	for key, av := range a {
		bv, ok := b[key]
		if !ok {
			continue
		}
		for _, x := range av {
			for _, y := range bv {
				if x != "" && y != "" && x != y {
					return false
				}
			}
		}
	}
	return true
}

func contains(vals []string, v string) bool {
	for _, x := range vals {
		if x == v {
			return true
		}
	}
	return false
}
