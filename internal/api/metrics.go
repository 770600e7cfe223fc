package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the scheduling instruments for one registry.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	tasks    prometheus.Histogram
}

// NewMetrics registers planloom instruments with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planloom",
			Name:      "schedule_requests_total",
			Help:      "Scheduling requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "planloom",
			Name:      "schedule_duration_seconds",
			Help:      "Time spent validating and ordering a task set.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"endpoint"}),
		tasks: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "planloom",
			Name:      "schedule_tasks",
			Help:      "Number of tasks per scheduling request.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 7),
		}),
	}
}

func (m *Metrics) observe(endpoint, outcome string, elapsed time.Duration, taskCount int) {
	m.requests.WithLabelValues(endpoint, outcome).Inc()
	m.duration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
	m.tasks.Observe(float64(taskCount))
}

func (m *Metrics) reject(endpoint, outcome string) {
	m.requests.WithLabelValues(endpoint, outcome).Inc()
}
