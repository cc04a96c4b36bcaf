// Package health provides liveness and readiness probes.
//
// Handlers:
//   - Liveness: process is running, no dependency checks
//   - Readiness: all dependency checks pass
//   - NoContent: 204 for minimal overhead
//
// The Fairing mounts the probes and makes readiness report 503 as soon as
// shutdown starts, so load balancers stop routing before connections drain:
//
//	b.Attach(health.New(
//		health.WithBase("/health"),
//		health.WithCheck(db.Ping),
//	))
//
// Dependency checks must follow the func(context.Context) error signature:
//
//	func checkDB(ctx context.Context) error {
//		return db.PingContext(ctx)
//	}
package health
