package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordRequest("/blood-requests", "GET", 200, 5*time.Millisecond)
	m.RecordRequest("/blood-requests", "GET", 200, 7*time.Millisecond)
	m.RecordError("/blood-requests/:id/cancel", "POST", "INVALID_STATE")
	m.RecordTransition("blood_request", "CANCELLED")
	m.RecordSweep(3)
	m.RecordSweep(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/blood-requests", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("/blood-requests/:id/cancel", "POST", "INVALID_STATE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("blood_request", "CANCELLED")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.sweeps))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.expired))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.RecordTransition("request", "ACTIVE")
		m.RecordSweep(1)
	})
}
