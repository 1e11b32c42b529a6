// ABOUTME: Prometheus collectors for backend calls made by operations
// ABOUTME: A nil *Metrics is valid and records nothing

package operation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"google.golang.org/grpc/codes"
)

// Metrics holds the operation level collectors.
type Metrics struct {
	calls       *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	validations *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		calls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "board_gateway_backend_calls_total",
				Help: "Total number of backend calls by operation and result code",
			},
			[]string{"operation", "code"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "board_gateway_backend_call_duration_seconds",
				Help:    "Backend call latency in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"operation"},
		),
		validations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "board_gateway_validation_failures_total",
				Help: "Total number of rejected operation inputs",
			},
			[]string{"operation"},
		),
	}
}

func (m *Metrics) observeCall(op string, code codes.Code, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(op, code.String()).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (m *Metrics) observeValidation(op string) {
	if m == nil {
		return
	}
	m.validations.WithLabelValues(op).Inc()
}
