package liftoff

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/dmitrymomot/liftoff/core/handler"
	"github.com/dmitrymomot/liftoff/core/logger"
	"github.com/dmitrymomot/liftoff/core/response"
)

// dispatcher routes requests to handlers and failures to catchers.
type dispatcher struct {
	core   *core
	frozen *frozen
}

func newDispatcher(c *core, f *frozen) *dispatcher {
	return &dispatcher{core: c, frozen: f}
}

func (d *dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ww := &responseWriter{ResponseWriter: w}
	if ident := d.frozen.config.Ident; ident != "" {
		ww.Header().Set("Server", ident)
	}

	m, ok := d.frozen.router.Route(r.Method, r.URL)
	ctx := handler.NewContext(ww, r, m.Params, d.core.state)

	if !ok {
		status := http.StatusNotFound
		if allowed := d.frozen.router.Allowed(r.URL); len(allowed) > 0 {
			ww.Header().Set("Allow", strings.Join(allowed, ", "))
			status = http.StatusMethodNotAllowed
		}
		d.catch(ww, ctx, status, nil)
		return
	}

	defer func() {
		if p := recover(); p != nil {
			err := &panicError{value: p, stack: debug.Stack()}
			if ww.Written() {
				d.log().Error("panic after response written",
					logger.Method(r.Method), logger.Path(r.URL.Path), logger.Error(err),
					slog.String("stack", string(err.stack)))
				return
			}
			d.catch(ww, ctx, http.StatusInternalServerError, err)
		}
	}()

	resp := m.Route.Handler()(ctx)
	if resp == nil {
		d.catch(ww, ctx, http.StatusInternalServerError, ErrNilResponse)
		return
	}
	if err := resp(ww, r); err != nil {
		if ww.Written() {
			d.log().Error("response failed after it was written",
				logger.Method(r.Method), logger.Path(r.URL.Path), logger.Error(err))
			return
		}
		d.catch(ww, ctx, response.StatusOf(err), err)
	}
}

// catch renders status with the best matching catcher. A catcher that fails
// or panics is replaced by the default catcher with status 500.
func (d *dispatcher) catch(w *responseWriter, ctx *handler.Context, status int, cause error) {
	r := ctx.Request()
	if cause != nil && status >= http.StatusInternalServerError {
		d.log().Error("request failed",
			logger.Method(r.Method), logger.Path(r.URL.Path), logger.StatusCode(status), logger.Error(cause))
	}

	fn := response.DefaultCatcher
	if c := d.frozen.router.Catch(status, r.URL.Path); c != nil {
		fn = c.Handler()
	}

	if err := d.runCatcher(w, ctx, fn, status); err != nil {
		d.log().Error("catcher failed",
			logger.Path(r.URL.Path), logger.StatusCode(status), logger.Error(err))
		if !w.Written() {
			_ = d.runCatcher(w, ctx, response.DefaultCatcher, http.StatusInternalServerError)
		}
	}
}

func (d *dispatcher) runCatcher(w *responseWriter, ctx *handler.Context, fn handler.CatcherFunc, status int) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &panicError{value: p, stack: debug.Stack()}
		}
	}()

	resp := fn(status, ctx)
	if resp == nil {
		return ErrNilResponse
	}
	return resp(w, ctx.Request())
}

func (d *dispatcher) log() *slog.Logger {
	return d.core.log.logger().With(logger.Component("dispatch"))
}

// responseWriter tracks whether a response has been written.
type responseWriter struct {
	http.ResponseWriter
	written bool
}

func (w *responseWriter) WriteHeader(status int) {
	if !w.written {
		w.written = true
		w.ResponseWriter.WriteHeader(status)
	}
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Written returns true if WriteHeader has been called.
func (w *responseWriter) Written() bool { return w.written }

// Flush implements http.Flusher if the underlying ResponseWriter supports it.
func (w *responseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *responseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// panicError wraps a value recovered from a handler or catcher.
type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.value) }

func (e *panicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}
