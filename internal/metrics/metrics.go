// Package metrics exposes Prometheus instrumentation for the solver.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	simulationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cannonaim_simulations_total",
		Help: "Forward trajectory integrations reported to callers.",
	})
	solvesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cannonaim_solves_total",
			Help: "Optimizer runs by solver kind and outcome.",
		},
		[]string{"solver", "outcome"},
	)
	solveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cannonaim_solve_duration_seconds",
			Help:    "Wall time of one optimizer run.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		},
		[]string{"solver"},
	)
	lastMissGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cannonaim_last_miss_meters",
			Help: "Predicted miss distance of the most recent solve.",
		},
		[]string{"solver"},
	)
)

func init() {
	prometheus.MustRegister(simulationsTotal, solvesTotal, solveDuration, lastMissGauge)
}

// ObserveSimulation counts one caller-visible forward integration.
func ObserveSimulation() {
	simulationsTotal.Inc()
}

// ObserveSolve records one optimizer run. missM is ignored unless the
// outcome is "ok".
func ObserveSolve(solver, outcome string, missM float64, elapsed time.Duration) {
	solvesTotal.WithLabelValues(solver, outcome).Inc()
	solveDuration.WithLabelValues(solver).Observe(elapsed.Seconds())
	if outcome == "ok" {
		lastMissGauge.WithLabelValues(solver).Set(missM)
	}
}
