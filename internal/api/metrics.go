package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors of one server. They are registered on the
// registry handed to NewMetrics so several servers can live in one process.
type Metrics struct {
	sortRuns       *prometheus.CounterVec
	sortSteps      *prometheus.HistogramVec
	requests       *prometheus.CounterVec
	replaySessions prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		// Labels: algorithm
		sortRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "musicsort_sort_runs_total",
			Help: "Sort runs by algorithm",
		}, []string{"algorithm"}),

		sortSteps: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "musicsort_sort_steps",
			Help:    "Steps recorded per sort run, including the initial step",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 500, 5000},
		}, []string{"algorithm"}),

		// Labels: route pattern, status code
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "musicsort_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"route", "code"}),

		replaySessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "musicsort_replay_sessions",
			Help: "Replay WebSocket sessions in progress",
		}),
	}
}

func (m *Metrics) observeSort(algorithm string, steps int) {
	m.sortRuns.WithLabelValues(algorithm).Inc()
	m.sortSteps.WithLabelValues(algorithm).Observe(float64(steps))
}
