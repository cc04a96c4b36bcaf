package response

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/liftoff/core/handler"
)

// DefaultCatcher renders status as JSON when the client prefers JSON and as
// plain text otherwise. It is used when no registered catcher matches.
func DefaultCatcher(status int, ctx *handler.Context) handler.Response {
	httpErr := NewHTTPError(status)
	if wantsJSON(ctx.Request()) {
		return JSONWithStatus(httpErr, httpErr.Status)
	}
	return StringWithStatus(httpErr.Message, httpErr.Status)
}

// JSONCatcher always renders status as a JSON HTTPError.
func JSONCatcher(status int, ctx *handler.Context) handler.Response {
	httpErr := NewHTTPError(status)
	return JSONWithStatus(httpErr, httpErr.Status)
}

func wantsJSON(r *http.Request) bool {
	if r == nil {
		return false
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
