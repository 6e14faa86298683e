package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeCaptured        = "captured"
	OutcomeAlreadyCaptured = "already_captured"
	OutcomeFailed          = "failed"
)

type CaptureMetrics struct {
	captures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewCaptureMetrics registers the capture collectors on reg.
func NewCaptureMetrics(reg prometheus.Registerer) *CaptureMetrics {
	captures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_payment_captures_total",
		Help: "Payment capture attempts by processor and outcome.",
	}, []string{"processor", "outcome"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_payment_capture_duration_seconds",
		Help:    "Time spent in the processor capture call.",
		Buckets: prometheus.DefBuckets,
	}, []string{"processor"})

	reg.MustRegister(captures, duration)

	return &CaptureMetrics{
		captures: captures,
		duration: duration,
	}
}

func (m *CaptureMetrics) Observe(processor, outcome string, elapsed time.Duration) {
	m.captures.WithLabelValues(processor, outcome).Inc()
	m.duration.WithLabelValues(processor).Observe(elapsed.Seconds())
}
