// Package audit records the request/response envelope of every inbound call.
// Writes are best-effort: a failing sink is logged and counted, never surfaced
// to the caller.
package audit

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/hrdesk/backend/internal/metrics"
	"github.com/hrdesk/backend/internal/models"
)

const (
	ActionHTTPRequest  = "HTTP_REQUEST"
	ActionHTTPResponse = "HTTP_RESPONSE"
	ActionChatRequest  = "CHAT_REQUEST"
	ActionChatResponse = "CHAT_RESPONSE"
)

var ErrNotQueryable = errors.New("audit sink cannot be queried")

// Sink is an append-only destination for audit entries.
type Sink interface {
	Append(ctx context.Context, entry models.AuditEntry) error
}

// Reader is implemented by sinks that can return the trail of one request.
type Reader interface {
	ListByCorrelation(ctx context.Context, correlationID string) ([]models.AuditEntry, error)
}

// Pinger is implemented by sinks backed by a remote store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Auditor struct {
	Sink    Sink
	Timeout time.Duration
	Logger  zerolog.Logger
	Metrics *metrics.Metrics
	Now     func() time.Time
}

func NewAuditor(sink Sink, timeout time.Duration, logger zerolog.Logger, m *metrics.Metrics) *Auditor {
	return &Auditor{Sink: sink, Timeout: timeout, Logger: logger, Metrics: m}
}

// Log appends one entry and waits for the sink. The write survives
// cancellation of ctx so a response entry is still recorded for a request
// whose client went away.
func (a *Auditor) Log(ctx context.Context, action, actorID, correlationID string, payload any) {
	if a == nil || a.Sink == nil {
		return
	}
	entry := models.AuditEntry{
		Timestamp:     a.now(),
		Action:        action,
		ActorID:       actorID,
		CorrelationID: correlationID,
		Payload:       payload,
	}

	writeCtx := context.WithoutCancel(ctx)
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		writeCtx, cancel = context.WithTimeout(writeCtx, a.Timeout)
		defer cancel()
	}

	if err := a.Sink.Append(writeCtx, entry); err != nil {
		a.Metrics.IncrementAuditFailure(action)
		a.Logger.Warn().
			Err(err).
			Str("action", action).
			Str("correlation_id", correlationID).
			Msg("audit write failed")
	}
}

// Reader returns the queryable store behind the auditor, if any.
func (a *Auditor) Reader() (Reader, bool) {
	if a == nil || a.Sink == nil {
		return nil, false
	}
	return AsReader(a.Sink)
}

// Pingers lists the sinks behind the auditor that can be health-checked.
func (a *Auditor) Pingers() []Pinger {
	if a == nil || a.Sink == nil {
		return nil
	}
	return pingers(a.Sink)
}

// AsReader finds the first sink that can be queried.
func AsReader(s Sink) (Reader, bool) {
	if m, ok := s.(MultiSink); ok {
		for _, inner := range m {
			if r, ok := AsReader(inner); ok {
				return r, true
			}
		}
		return nil, false
	}
	r, ok := s.(Reader)
	return r, ok
}

func pingers(s Sink) []Pinger {
	if m, ok := s.(MultiSink); ok {
		var out []Pinger
		for _, inner := range m {
			out = append(out, pingers(inner)...)
		}
		return out
	}
	if p, ok := s.(Pinger); ok {
		return []Pinger{p}
	}
	return nil
}

func (a *Auditor) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}
