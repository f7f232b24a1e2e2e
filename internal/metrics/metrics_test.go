package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/hrdesk/backend/internal/models"
)

func TestMetricsRecord(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementOutcome("rules", models.IntentEscalation, true)
	m.IncrementOutcome("rules", models.IntentEscalation, true)
	m.IncrementAuditFailure("HTTP_REQUEST")
	m.ObserveBackendLatency("rules", "ok", 3*time.Millisecond)

	if got := testutil.ToFloat64(m.ChatOutcomes.WithLabelValues("escalation", "true", "rules")); got != 2 {
		t.Fatalf("expected 2 escalation outcomes, got %v", got)
	}
	if got := testutil.ToFloat64(m.AuditFailures.WithLabelValues("HTTP_REQUEST")); got != 1 {
		t.Fatalf("expected 1 audit failure, got %v", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.IncrementOutcome("rules", models.IntentUnknown, false)
	m.ObserveBackendLatency("rules", "ok", time.Millisecond)
	m.IncrementAuditFailure("x")
}
