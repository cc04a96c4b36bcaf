// Package route declares routes and catchers, joins them onto mount bases,
// and builds the immutable index used for dispatch.
//
// Paths are origin URIs. Dynamic segments use {name}; a final {name...}
// matches the rest of the path:
//
//	route.Get("/users/{id}", showUser)
//	route.Get("/static/{path...}", serveStatic)
//	route.Get("/search?q", search, route.WithRank(3))
//
// Mounting rewrites a route's path with Rebase. A route at "/" takes the base
// as-is, so mounting it at "/api/" yields "/api/". Any other route is joined
// with a single slash and keeps its own trailing slash and query: "/api" and
// "/api/" both mount "/users" at "/api/users".
//
// NewRouter reports routes that share a method and rank and can match the same
// request, and catchers that share a status code and base. Sentinels attached
// to routes inspect the finalized instance and may abort launch.
package route
