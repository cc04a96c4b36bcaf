package route

import (
	"fmt"
	"net/http"

	"github.com/dmitrymomot/liftoff/core/handler"
)

// Catcher renders error responses for a status code under a base path.
// A catcher with code 0 is a default catcher and handles every status.
type Catcher struct {
	name    string
	code    int
	base    Origin
	handler handler.CatcherFunc
}

// NewCatcher creates a catcher for code. It panics if code is neither 0 nor
// an error status, or if h is nil.
func NewCatcher(code int, h handler.CatcherFunc, name ...string) *Catcher {
	if code != 0 && (code < 400 || code > 599) {
		panic(fmt.Errorf("catcher %d: %w", code, ErrInvalidStatus))
	}
	if h == nil {
		panic(fmt.Errorf("catcher %d: %w", code, ErrNilHandler))
	}
	c := &Catcher{code: code, base: MustParseOrigin("/"), handler: h}
	if len(name) > 0 {
		c.name = name[0]
	}
	return c
}

// Default creates a catcher for every status code.
func Default(h handler.CatcherFunc, name ...string) *Catcher {
	return NewCatcher(0, h, name...)
}

// Rebase returns a copy of c scoped to base.
func (c *Catcher) Rebase(base Origin) *Catcher {
	out := *c
	out.base = base.WithoutQuery()
	return &out
}

func (c *Catcher) Name() string                 { return c.name }
func (c *Catcher) Code() int                    { return c.code }
func (c *Catcher) Base() Origin                 { return c.base }
func (c *Catcher) Handler() handler.CatcherFunc { return c.handler }

// IsDefault reports whether c handles every status.
func (c *Catcher) IsDefault() bool { return c.code == 0 }

// Collides reports whether c and o handle the same status under the same base.
func (c *Catcher) Collides(o *Catcher) bool {
	return c.code == o.code && c.base.path == o.base.path
}

func (c *Catcher) String() string {
	code := "default"
	if c.code != 0 {
		code = fmt.Sprintf("%d %s", c.code, http.StatusText(c.code))
	}
	s := fmt.Sprintf("%s %s", code, c.base.path)
	if c.name != "" {
		s += " (" + c.name + ")"
	}
	return s
}
