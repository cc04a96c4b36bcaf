package health

import (
	"github.com/dmitrymomot/liftoff/core/handler"
	"github.com/dmitrymomot/liftoff/core/response"
)

// Liveness indicates if the service process is running.
// Always returns "ALIVE" with 200 OK. No dependency checks.
//
//	b.Mount("/health", route.Get("/live", health.Liveness))
func Liveness(*handler.Context) handler.Response {
	return response.String("ALIVE")
}

// NoContent returns HTTP 204 without body. Ideal for high-frequency checks.
func NoContent(*handler.Context) handler.Response {
	return response.NoContent()
}
