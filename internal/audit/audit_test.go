package audit

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrdesk/backend/internal/metrics"
	"github.com/hrdesk/backend/internal/models"
)

type memorySink struct {
	mu      sync.Mutex
	entries []models.AuditEntry
	ctxErrs []error
}

func (s *memorySink) Append(ctx context.Context, e models.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	return nil
}

type failingSink struct{}

func (failingSink) Append(context.Context, models.AuditEntry) error {
	return errors.New("disk full")
}

func TestAuditorLogAppendsEntry(t *testing.T) {
	sink := &memorySink{}
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	a := NewAuditor(sink, time.Second, zerolog.Nop(), nil)
	a.Now = func() time.Time { return ts }

	a.Log(context.Background(), ActionChatRequest, "E1", "c-1", map[string]any{"message": "hi"})

	require.Len(t, sink.entries, 1)
	assert.Equal(t, models.AuditEntry{
		Timestamp: ts, Action: ActionChatRequest, ActorID: "E1", CorrelationID: "c-1",
		Payload: map[string]any{"message": "hi"},
	}, sink.entries[0])
}

func TestAuditorSurvivesCanceledRequest(t *testing.T) {
	sink := &memorySink{}
	a := NewAuditor(sink, time.Second, zerolog.Nop(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a.Log(ctx, ActionHTTPResponse, "Anonymous", "c-2", map[string]any{"status": 499})

	require.Len(t, sink.entries, 1)
	assert.NoError(t, sink.ctxErrs[0])
}

func TestAuditorSwallowsSinkFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	a := NewAuditor(failingSink{}, time.Second, zerolog.Nop(), m)

	assert.NotPanics(t, func() {
		a.Log(context.Background(), ActionHTTPRequest, "E1", "c-3", nil)
	})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuditFailures.WithLabelValues(ActionHTTPRequest)))
}

func TestNilAuditorIsNoop(t *testing.T) {
	var a *Auditor
	assert.NotPanics(t, func() {
		a.Log(context.Background(), ActionHTTPRequest, "E1", "c", nil)
	})
	_, ok := a.Reader()
	assert.False(t, ok)
}

func TestMultiSinkFansOut(t *testing.T) {
	first, second := &memorySink{}, &memorySink{}
	multi := MultiSink{first, second}

	err := multi.Append(context.Background(), models.AuditEntry{Action: ActionHTTPRequest})
	require.NoError(t, err)
	assert.Len(t, first.entries, 1)
	assert.Len(t, second.entries, 1)

	err = MultiSink{first, failingSink{}}.Append(context.Background(), models.AuditEntry{Action: ActionHTTPResponse})
	assert.Error(t, err)
	assert.Len(t, first.entries, 2)
}

func TestAsReaderFindsQueryableSink(t *testing.T) {
	sqlite, err := NewSQLiteSink(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	defer sqlite.Close()

	multi := MultiSink{LogSink{Logger: zerolog.Nop()}, sqlite}
	r, ok := AsReader(multi)
	require.True(t, ok)
	assert.Same(t, sqlite, r.(*SQLiteSink))

	_, ok = AsReader(LogSink{Logger: zerolog.Nop()})
	assert.False(t, ok)

	a := NewAuditor(multi, 0, zerolog.Nop(), nil)
	assert.Len(t, a.Pingers(), 1)
}

func TestSQLiteSinkRoundTrip(t *testing.T) {
	sink, err := NewSQLiteSink(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	defer sink.Close()

	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	a := NewAuditor(sink, time.Second, zerolog.Nop(), nil)
	a.Now = func() time.Time { return base }

	a.Log(ctx, ActionHTTPRequest, "E1", "c-9", map[string]any{"method": "POST", "path": "/api/chat"})
	a.Log(ctx, ActionHTTPRequest, "E2", "other", nil)
	a.Log(ctx, ActionHTTPResponse, "E1", "c-9", map[string]any{"status": 200})

	entries, err := sink.ListByCorrelation(ctx, "c-9")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ActionHTTPRequest, entries[0].Action)
	assert.Equal(t, ActionHTTPResponse, entries[1].Action)
	assert.True(t, base.Equal(entries[0].Timestamp))
	assert.JSONEq(t, `{"status":200}`, string(entries[1].Payload.(json.RawMessage)))

	other, err := sink.ListByCorrelation(ctx, "other")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Nil(t, other[0].Payload)

	require.NoError(t, sink.Ping(ctx))
}
