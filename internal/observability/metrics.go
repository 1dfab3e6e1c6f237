package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the service. A nil *Metrics is a no-op.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errors          *prometheus.CounterVec
	transitions     *prometheus.CounterVec
	sweeps          prometheus.Counter
	expired         prometheus.Counter
}

// NewMetrics creates and registers collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blood_donation_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"path", "method", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "blood_donation_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blood_donation_http_errors_total",
			Help: "Errors returned to clients by error code.",
		}, []string{"path", "method", "code"}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blood_donation_lifecycle_transitions_total",
			Help: "Lifecycle transitions applied to requests and responses.",
		}, []string{"entity", "status"}),
		sweeps: factory.NewCounter(prometheus.CounterOpts{
			Name: "blood_donation_expiry_sweeps_total",
			Help: "Completed expiry sweeps.",
		}),
		expired: factory.NewCounter(prometheus.CounterOpts{
			Name: "blood_donation_requests_expired_total",
			Help: "Blood requests moved to EXPIRED by the sweep.",
		}),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(path, method, code).Inc()
}

// RecordTransition counts a lifecycle status change for "blood_request" or "response".
func (m *Metrics) RecordTransition(entity, status string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(entity, status).Inc()
}

// RecordSweep counts one expiry pass and the requests it expired.
func (m *Metrics) RecordSweep(expired int) {
	if m == nil {
		return
	}
	m.sweeps.Inc()
	m.expired.Add(float64(expired))
}
