package audit

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hrdesk/backend/internal/models"
)

// LogSink writes entries as structured log lines.
type LogSink struct {
	Logger zerolog.Logger
}

func (s LogSink) Append(_ context.Context, entry models.AuditEntry) error {
	s.Logger.Info().
		Str("audit_action", entry.Action).
		Str("actor_id", entry.ActorID).
		Str("correlation_id", entry.CorrelationID).
		Time("audit_ts", entry.Timestamp).
		Interface("payload", entry.Payload).
		Msg("AUDIT")
	return nil
}
