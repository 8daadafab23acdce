package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_BookingOutcome(t *testing.T) {
	m := NewWithRegistry("lab-scheduler", prometheus.NewRegistry())

	m.BookingOutcome("committed")
	m.BookingOutcome("committed")
	m.BookingOutcome("quota_exceeded")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingOutcomes.WithLabelValues("committed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingOutcomes.WithLabelValues("quota_exceeded")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.BookingOutcome("committed")
		m.SlotBooked("general")
	})
}
