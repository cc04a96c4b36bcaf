package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrymomot/liftoff/core/state"
)

// Context carries the request, the response writer, path parameters and the
// instance's managed state into a handler.
//
// Context implements context.Context by delegating to the request context,
// which is cancelled when the grace period of a shutdown ends.
type Context struct {
	w      http.ResponseWriter
	r      *http.Request
	params map[string]string
	state  *state.Container
}

var _ context.Context = (*Context)(nil)

// NewContext creates a request context. params and st may be nil.
func NewContext(w http.ResponseWriter, r *http.Request, params map[string]string, st *state.Container) *Context {
	return &Context{w: w, r: r, params: params, state: st}
}

// Request returns the HTTP request.
func (c *Context) Request() *http.Request { return c.r }

// ResponseWriter returns the response writer.
func (c *Context) ResponseWriter() http.ResponseWriter { return c.w }

// Param returns the value of a dynamic path segment, or "" if absent.
func (c *Context) Param(key string) string {
	return c.params[key]
}

// Params returns a copy of all path parameters.
func (c *Context) Params() map[string]string {
	out := make(map[string]string, len(c.params))
	for k, v := range c.params {
		out[k] = v
	}
	return out
}

func (c *Context) Deadline() (time.Time, bool) { return c.r.Context().Deadline() }
func (c *Context) Done() <-chan struct{}       { return c.r.Context().Done() }
func (c *Context) Err() error                  { return c.r.Context().Err() }
func (c *Context) Value(key any) any           { return c.r.Context().Value(key) }

// State returns the managed value of type T.
//
//	db, ok := handler.State[*sql.DB](ctx)
func State[T any](c *Context) (T, bool) {
	if c == nil || c.state == nil {
		var zero T
		return zero, false
	}
	return state.Get[T](c.state)
}

// MustState is like State but panics when T is not managed. Guard routes that
// use it with route.RequireState so the check happens at finalization.
func MustState[T any](c *Context) T {
	v, ok := State[T](c)
	if !ok {
		panic(ErrStateNotManaged)
	}
	return v
}
