package route

import (
	"fmt"
	"net/url"
	"strings"
)

// Origin is a parsed origin-form URI: an absolute path and an optional query.
type Origin struct {
	path     string
	query    string
	hasQuery bool
	segments []segment
}

type segmentKind uint8

const (
	staticSegment segmentKind = iota
	paramSegment
	wildcardSegment
)

type segment struct {
	kind  segmentKind
	value string // literal for static segments, parameter name otherwise
}

// ParseOrigin parses s as an origin URI. The path must start with "/" and the
// URI must not carry a fragment. Dynamic segments are written {name}; a final
// {name...} matches the remainder of the path.
func ParseOrigin(s string) (Origin, error) {
	if !strings.HasPrefix(s, "/") {
		return Origin{}, fmt.Errorf("%w %q: path must start with '/'", ErrInvalidOrigin, s)
	}
	if strings.ContainsAny(s, "# \t\r\n") {
		return Origin{}, fmt.Errorf("%w %q: fragments and whitespace are not allowed", ErrInvalidOrigin, s)
	}

	o := Origin{path: s}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		o.path, o.query, o.hasQuery = s[:i], s[i+1:], true
		if _, err := url.ParseQuery(o.query); err != nil {
			return Origin{}, fmt.Errorf("%w %q: %w", ErrInvalidOrigin, s, err)
		}
	}

	segs, err := parseSegments(o.path)
	if err != nil {
		return Origin{}, fmt.Errorf("%w %q: %w", ErrInvalidOrigin, s, err)
	}
	o.segments = segs
	return o, nil
}

// MustParseOrigin is like ParseOrigin but panics on error.
func MustParseOrigin(s string) Origin {
	o, err := ParseOrigin(s)
	if err != nil {
		panic(err)
	}
	return o
}

// ParseBase parses a mount base: an origin without dynamic segments.
func ParseBase(s string) (Origin, error) {
	o, err := ParseOrigin(s)
	if err != nil {
		return Origin{}, err
	}
	if !o.IsStatic() {
		return Origin{}, fmt.Errorf("%w: %q", ErrDynamicBase, s)
	}
	return o, nil
}

func parseSegments(path string) ([]segment, error) {
	if path == "/" {
		return nil, nil
	}

	parts := strings.Split(path[1:], "/")
	segs := make([]segment, 0, len(parts))
	seen := make(map[string]struct{})

	for i, p := range parts {
		if !strings.HasPrefix(p, "{") {
			if strings.ContainsAny(p, "{}") {
				return nil, fmt.Errorf("unbalanced braces in segment %q", p)
			}
			if _, err := url.PathUnescape(p); err != nil {
				return nil, err
			}
			segs = append(segs, segment{kind: staticSegment, value: p})
			continue
		}

		if !strings.HasSuffix(p, "}") {
			return nil, fmt.Errorf("unbalanced braces in segment %q", p)
		}
		name := p[1 : len(p)-1]
		kind := paramSegment
		if trimmed, ok := strings.CutSuffix(name, "..."); ok {
			if i != len(parts)-1 {
				return nil, ErrWildcardPosition
			}
			name, kind = trimmed, wildcardSegment
		}
		if !validParamName(name) {
			return nil, fmt.Errorf("invalid parameter name %q", name)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateParam, name)
		}
		seen[name] = struct{}{}
		segs = append(segs, segment{kind: kind, value: name})
	}
	return segs, nil
}

func validParamName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// Path returns the path component.
func (o Origin) Path() string { return o.path }

// Query returns the raw query without the leading '?'.
func (o Origin) Query() (string, bool) { return o.query, o.hasQuery }

// IsRoot reports whether the path is exactly "/".
func (o Origin) IsRoot() bool { return o.path == "/" }

// IsStatic reports whether the path has no dynamic segments.
func (o Origin) IsStatic() bool {
	for _, s := range o.segments {
		if s.kind != staticSegment {
			return false
		}
	}
	return true
}

// WithoutQuery returns o with the query removed.
func (o Origin) WithoutQuery() Origin {
	o.query, o.hasQuery = "", false
	return o
}

func (o Origin) String() string {
	if o.hasQuery {
		return o.path + "?" + o.query
	}
	return o.path
}

// Rebase joins base and o into the effective origin of a mounted route.
//
// A root route takes the base verbatim. Otherwise the base is joined with the
// route path with exactly one slash between them, and the route keeps its own
// trailing slash and query. A root base leaves the route unchanged.
func Rebase(base, o Origin) Origin {
	switch {
	case base.IsRoot():
		return o
	case o.IsRoot():
		out := base
		if o.hasQuery {
			out.query, out.hasQuery = o.query, true
		}
		return out
	}

	path := strings.TrimSuffix(base.path, "/") + o.path
	segs, _ := parseSegments(path) // both halves already parsed
	return Origin{path: path, query: o.query, hasQuery: o.hasQuery, segments: segs}
}

func (o Origin) rank() int {
	rank := 0
	for _, s := range o.segments {
		switch s.kind {
		case paramSegment:
			rank = max(rank, 1)
		case wildcardSegment:
			rank = 2
		}
	}
	return rank
}

// overlaps reports whether some request path matches both a and b.
func overlaps(a, b []segment) bool {
	for i := 0; ; i++ {
		if (i < len(a) && a[i].kind == wildcardSegment) || (i < len(b) && b[i].kind == wildcardSegment) {
			return true
		}
		if i == len(a) || i == len(b) {
			return len(a) == len(b)
		}
		sa, sb := a[i], b[i]
		switch {
		case sa.kind == staticSegment && sb.kind == staticSegment:
			if sa.value != sb.value {
				return false
			}
		case sa.kind == staticSegment:
			if sa.value == "" {
				return false
			}
		case sb.kind == staticSegment:
			if sb.value == "" {
				return false
			}
		}
	}
}

// match matches request path segments against the pattern and collects
// parameters.
func match(pattern []segment, parts []string) (map[string]string, bool) {
	var params map[string]string
	set := func(k, v string) {
		if params == nil {
			params = make(map[string]string)
		}
		params[k] = v
	}

	for i, s := range pattern {
		if s.kind == wildcardSegment {
			set(s.value, strings.Join(parts[min(i, len(parts)):], "/"))
			return params, true
		}
		if i >= len(parts) {
			return nil, false
		}
		switch s.kind {
		case staticSegment:
			if s.value != parts[i] {
				return nil, false
			}
		case paramSegment:
			if parts[i] == "" {
				return nil, false
			}
			v, err := url.PathUnescape(parts[i])
			if err != nil {
				v = parts[i]
			}
			set(s.value, v)
		}
	}
	return params, len(parts) == len(pattern)
}

func splitPath(path string) []string {
	if path == "" || path == "/" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(path, "/"), "/")
}

// hasPrefix reports whether the static base is a segment-wise prefix of parts.
func hasPrefix(base []segment, parts []string) bool {
	n := len(base)
	if n > 0 && base[n-1].value == "" {
		n-- // trailing slash in base
	}
	if n > len(parts) {
		return false
	}
	for i := 0; i < n; i++ {
		if base[i].value != parts[i] {
			return false
		}
	}
	return true
}
