package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hrdesk/backend/internal/models"
)

// Metrics provides observability for the chat pipeline. A nil *Metrics is a
// valid no-op recorder.
type Metrics struct {
	// Chat outcomes by intent, escalation flag and backend
	ChatOutcomes *prometheus.CounterVec

	// Latency of the chat backend by backend name and result
	BackendLatency *prometheus.HistogramVec

	// Audit writes that failed, by action
	AuditFailures *prometheus.CounterVec
}

// New registers the chat metrics on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ChatOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hrdesk_chat_outcomes_total",
			Help: "Total chat outcomes by intent, escalation and backend",
		}, []string{"intent", "escalated", "backend"}),

		BackendLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hrdesk_backend_duration_seconds",
			Help:    "Duration of intent classification and response generation",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}, []string{"backend", "result"}),

		AuditFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hrdesk_audit_failures_total",
			Help: "Audit entries that could not be written",
		}, []string{"action"}),
	}
}

func (m *Metrics) IncrementOutcome(backend string, intent models.Intent, escalated bool) {
	if m != nil {
		m.ChatOutcomes.WithLabelValues(string(intent), strconv.FormatBool(escalated), backend).Inc()
	}
}

func (m *Metrics) ObserveBackendLatency(backend, result string, d time.Duration) {
	if m != nil {
		m.BackendLatency.WithLabelValues(backend, result).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementAuditFailure(action string) {
	if m != nil {
		m.AuditFailures.WithLabelValues(action).Inc()
	}
}
