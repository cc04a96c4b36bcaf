package handler

import "net/http"

// Response is a function that renders HTTP responses.
// It sets headers, status code, and writes the response body.
// A returned error is forwarded to the catcher matching its status code.
type Response func(w http.ResponseWriter, r *http.Request) error

// HandlerFunc handles a request routed to a mounted route.
type HandlerFunc func(ctx *Context) Response

// CatcherFunc renders an error response for the given status code.
type CatcherFunc func(status int, ctx *Context) Response

// StatusCoder is implemented by errors that carry an HTTP status code.
// Errors without one are treated as 500 Internal Server Error.
type StatusCoder interface {
	StatusCode() int
}
