// Package metrics exposes Prometheus collectors for the transition pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Transition counts teleports and how long they wait for content.
type Transition struct {
	Started       *prometheus.CounterVec
	Completed     *prometheus.CounterVec
	Canceled      prometheus.Counter
	ReadyTimeouts prometheus.Counter
	ReadyWait     prometheus.Histogram
	Preloads      prometheus.Counter
}

// NewTransition creates the collectors and registers them on reg. A nil reg
// leaves them unregistered.
func NewTransition(reg prometheus.Registerer) *Transition {
	m := &Transition{
		Started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vour",
			Subsystem: "teleport",
			Name:      "started_total",
			Help:      "Teleports started, by kind.",
		}, []string{"kind"}),
		Completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vour",
			Subsystem: "teleport",
			Name:      "completed_total",
			Help:      "Teleports that faded back in, by kind.",
		}, []string{"kind"}),
		Canceled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vour",
			Subsystem: "teleport",
			Name:      "canceled_total",
			Help:      "Teleports superseded by a newer one before finishing.",
		}),
		ReadyTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vour",
			Subsystem: "teleport",
			Name:      "ready_timeouts_total",
			Help:      "Teleports that gave up waiting for the target view.",
		}),
		ReadyWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vour",
			Subsystem: "teleport",
			Name:      "ready_wait_seconds",
			Help:      "Time spent between swap and fade-in.",
			Buckets:   []float64{0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10},
		}),
		Preloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vour",
			Subsystem: "video",
			Name:      "preload_requests_total",
			Help:      "Prepare requests issued for linked videos.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Started, m.Completed, m.Canceled, m.ReadyTimeouts, m.ReadyWait, m.Preloads)
	}
	return m
}

// Serve exposes gatherer on addr under /metrics. It blocks until the server
// stops.
func Serve(addr string, gatherer prometheus.Gatherer, log *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	log.Info("metrics listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, mux)
}
