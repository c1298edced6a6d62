// Package metrics records compilations and program invocations with
// Prometheus collectors on a dedicated registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "visualgrid"

// Recorder implements compiler.Recorder.
type Recorder struct {
	registry *prometheus.Registry

	compileDuration *prometheus.HistogramVec
	invokeDuration  *prometheus.HistogramVec
	instances       prometheus.Counter
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		compileDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "compiler",
				Name:      "compile_duration_seconds",
				Help:      "Program compilation time in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 14), // 10µs to ~80ms
			},
			[]string{"result"},
		),
		invokeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "program",
				Name:      "invoke_duration_seconds",
				Help:      "Entry invocation time in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 12),
			},
			[]string{"entry", "result"},
		),
		instances: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "program",
			Name:      "instances_created_total",
			Help:      "Program instances created by factories.",
		}),
	}
	r.registry.MustRegister(r.compileDuration, r.invokeDuration, r.instances)
	return r
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (r *Recorder) ObserveCompile(d time.Duration, err error) {
	r.compileDuration.WithLabelValues(result(err)).Observe(d.Seconds())
}

func (r *Recorder) ObserveInvoke(entry string, d time.Duration, err error) {
	r.invokeDuration.WithLabelValues(entry, result(err)).Observe(d.Seconds())
}

func (r *Recorder) InstanceCreated() {
	r.instances.Inc()
}

// Gatherer exposes the registry, e.g. for tests.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
