package monitor

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Benchmark exposes per-step timing and population counters as Prometheus
// metrics. It wraps its own registry rather than the global default one, so
// multiple simulation runs in the same process never collide on metric
// names.
type Benchmark[U any] struct {
	registry *prometheus.Registry

	stepDuration prometheus.Histogram
	stepsTotal   prometheus.Counter
	particles    prometheus.Gauge
	simTime      prometheus.Gauge

	lastStep time.Time
}

// NewBenchmark registers the engine's step-level metrics under the given
// run label (surfaced as a constant "run" label on every metric).
func NewBenchmark[U any](run string) *Benchmark[U] {
	reg := prometheus.NewRegistry()
	labels := prometheus.Labels{"run": run}

	b := &Benchmark[U]{
		registry: reg,
		stepDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace:   "april",
			Subsystem:   "sim",
			Name:        "step_duration_seconds",
			Help:        "Wall-clock duration of one integrator step",
			Buckets:     prometheus.ExponentialBuckets(1e-5, 2, 16),
			ConstLabels: labels,
		}),
		stepsTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace:   "april",
			Subsystem:   "sim",
			Name:        "steps_total",
			Help:        "Total number of integrator steps completed",
			ConstLabels: labels,
		}),
		particles: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace:   "april",
			Subsystem:   "sim",
			Name:        "particles",
			Help:        "Current particle count, including dead tombstones",
			ConstLabels: labels,
		}),
		simTime: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace:   "april",
			Subsystem:   "sim",
			Name:        "time_seconds",
			Help:        "Accumulated simulation time",
			ConstLabels: labels,
		}),
	}
	return b
}

// Handler exposes the registry on a /metrics-style endpoint for scraping.
func (b *Benchmark[U]) Handler() http.Handler {
	return promhttp.HandlerFor(b.registry, promhttp.HandlerOpts{})
}

func (b *Benchmark[U]) OnStep(sys SystemView[U]) error {
	now := time.Now()
	if !b.lastStep.IsZero() {
		b.stepDuration.Observe(now.Sub(b.lastStep).Seconds())
	}
	b.lastStep = now

	b.stepsTotal.Inc()
	b.particles.Set(float64(sys.ParticleCount()))
	b.simTime.Set(sys.Time())
	return nil
}
