// Package response provides handler.Response constructors for plain text,
// HTML, JSON, redirects and errors, plus the default catchers.
//
//	func getUser(ctx *handler.Context) handler.Response {
//		user, err := load(ctx.Param("id"))
//		if err != nil {
//			return response.Error(response.ErrNotFound)
//		}
//		return response.JSON(user)
//	}
//
// Errors returned by a Response are dispatched to the catcher registered for
// their status code (StatusOf). HTTPError carries its own status; any other
// error is a 500.
package response
