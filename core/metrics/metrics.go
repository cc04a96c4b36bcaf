package metrics

import (
	"context"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/liftoff"
	"github.com/dmitrymomot/liftoff/core/handler"
	"github.com/dmitrymomot/liftoff/core/response"
	"github.com/dmitrymomot/liftoff/core/route"
)

const (
	// DefaultPath is where metrics are served.
	DefaultPath = "/metrics"

	namespace = "liftoff"
)

// Fairing records lifecycle metrics and serves them. It is a singleton:
// attaching another *Fairing replaces the earlier one.
type Fairing struct {
	path     string
	registry *prometheus.Registry
	current  atomic.Pointer[liftoff.Orbiting]

	launches  prometheus.Counter
	shutdowns prometheus.Counter
	orbiting  prometheus.Gauge
	routes    prometheus.Gauge
	fairings  prometheus.Gauge
}

// Option configures a Fairing.
type Option func(*Fairing)

// WithPath sets the metrics route path.
func WithPath(path string) Option {
	return func(f *Fairing) { f.path = path }
}

// WithRegistry registers the metrics with r instead of a private registry.
func WithRegistry(r *prometheus.Registry) Option {
	return func(f *Fairing) { f.registry = r }
}

// New creates the fairing and registers its collectors.
func New(opts ...Option) *Fairing {
	f := &Fairing{path: DefaultPath}
	for _, opt := range opts {
		opt(f)
	}
	if f.registry == nil {
		f.registry = prometheus.NewRegistry()
	}

	f.launches = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "launches_total",
		Help:      "Total number of completed liftoffs",
	})
	f.shutdowns = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shutdowns_total",
		Help:      "Total number of started shutdowns",
	})
	f.orbiting = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "orbiting",
		Help:      "1 while the instance is serving, 0 otherwise",
	})
	f.routes = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "routes",
		Help:      "Number of mounted routes",
	})
	f.fairings = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "fairings",
		Help:      "Number of active fairings",
	})
	refs := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "references",
		Help:      "Outstanding references held on the running instance",
	}, func() float64 {
		if o := f.current.Load(); o != nil {
			return float64(o.Refs() - 1)
		}
		return 0
	})
	uptime := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "uptime_seconds",
		Help:      "Seconds since the last liftoff",
	}, func() float64 {
		if o := f.current.Load(); o != nil {
			return o.Uptime().Seconds()
		}
		return 0
	})

	f.registry.MustRegister(f.launches, f.shutdowns, f.orbiting, f.routes, f.fairings, refs, uptime)
	return f
}

// Info implements liftoff.Fairing.
func (f *Fairing) Info() liftoff.Info {
	return liftoff.Info{
		Name: "prometheus",
		Kind: liftoff.Finalize | liftoff.Liftoff | liftoff.Shutdown | liftoff.Singleton,
	}
}

// Registry returns the registry the metrics are registered with.
func (f *Fairing) Registry() *prometheus.Registry { return f.registry }

// OnFinalize mounts the metrics route.
func (f *Fairing) OnFinalize(_ context.Context, b *liftoff.Building) error {
	h := promhttp.HandlerFor(f.registry, promhttp.HandlerOpts{})
	b.Mount("/", route.Get(f.path, func(*handler.Context) handler.Response {
		return response.Handler(h)
	}, route.WithName("metrics")))
	return nil
}

// OnLiftoff starts tracking o.
func (f *Fairing) OnLiftoff(_ context.Context, o *liftoff.Orbiting) {
	f.current.Store(o)
	f.launches.Inc()
	f.orbiting.Set(1)
	f.routes.Set(float64(len(o.Routes())))
	f.fairings.Set(float64(len(o.Fairings())))
}

// OnShutdown marks the instance as no longer serving.
func (f *Fairing) OnShutdown(context.Context, *liftoff.Orbiting) {
	f.shutdowns.Inc()
	f.orbiting.Set(0)
}
