// Package handler defines the request-side types of a liftoff instance.
//
// A route handler receives a *Context and returns a Response; the Response is
// rendered by the dispatcher. An error returned from a Response is routed to
// the catcher registered for its status code (see StatusCoder):
//
//	func hello(ctx *handler.Context) handler.Response {
//		name := ctx.Param("name")
//		return response.String("hello, " + name)
//	}
//
// Managed values registered with (*liftoff.Building).Manage are available
// through State:
//
//	counter, ok := handler.State[*Counter](ctx)
package handler
