// Package metrics exposes lifecycle metrics of a liftoff instance in the
// Prometheus format.
//
// Attach the fairing while building:
//
//	b.Attach(metrics.New())
//
// It mounts GET /metrics (see WithPath) and records launches, shutdowns,
// uptime and the number of outstanding references of the running instance.
// Metrics are kept in a private registry unless WithRegistry is used.
package metrics
