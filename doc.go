// Package liftoff is a staged lifecycle core for HTTP services.
//
// An instance moves through three stages. Each stage is a distinct type and
// each transition consumes the previous value:
//
//	Building --Finalize--> Finalized --Launch--> Orbiting --shutdown--> Finalized
//
// A *Building collects routes, catchers, managed state and fairings:
//
//	b := liftoff.Build().
//		Manage(db).
//		Mount("/api", route.Get("/users/{id}", showUser)).
//		Register("/", route.NewCatcher(404, notFound)).
//		Attach(liftoff.OnLiftoff("warmup", warmup))
//
// Finalize runs the finalize fairings, extracts the configuration, checks
// the route table for collisions, freezes managed state and asks route
// sentinels whether the launch should go ahead. Problems are reported as an
// *Error whose Kind says what went wrong.
//
// Launch binds the configured endpoints, runs the liftoff fairings and
// serves until shutdown is requested through (*Finalized).Shutdown, an OS
// signal or cancellation of the launch context. Shutdown proceeds in stages:
// listeners stop accepting, in-flight work gets the grace period, I/O is
// interrupted and connections get the mercy period, then everything is
// closed. Launch returns once every reference taken with (*Orbiting).Retain
// has been released, handing back a *Finalized that can be launched again.
//
// # Configuration
//
// Build reads .env files and LIFTOFF_ prefixed environment variables. Use
// Custom with any config.Provider to change that:
//
//	b := liftoff.Custom(config.DefaultSource().Merge(config.File("liftoff.yaml")))
//
// # Fairings
//
// A fairing declares its checkpoints with Info and implements FinalizeHook,
// LiftoffHook or ShutdownHook. OnFinalize, OnLiftoff and OnShutdown build
// fairings from functions.
package liftoff
