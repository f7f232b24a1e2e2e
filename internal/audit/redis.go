package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hrdesk/backend/internal/models"
)

// RedisStreamSink appends entries to a Redis stream so downstream consumers
// can follow the audit trail.
type RedisStreamSink struct {
	Client *redis.Client
	Stream string
	// MaxLen caps the stream approximately; zero keeps everything.
	MaxLen int64
}

func NewRedisStreamSink(ctx context.Context, url, stream string) (*RedisStreamSink, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisStreamSink{Client: client, Stream: stream}, nil
}

func (s *RedisStreamSink) Append(ctx context.Context, entry models.AuditEntry) error {
	payload, err := json.Marshal(entry.Payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}
	args := &redis.XAddArgs{
		Stream: s.Stream,
		Values: map[string]any{
			"timestamp":      entry.Timestamp.Format(time.RFC3339Nano),
			"action":         entry.Action,
			"actor_id":       entry.ActorID,
			"correlation_id": entry.CorrelationID,
			"payload":        string(payload),
		},
	}
	if s.MaxLen > 0 {
		args.MaxLen = s.MaxLen
		args.Approx = true
	}
	if err := s.Client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", s.Stream, err)
	}
	return nil
}

func (s *RedisStreamSink) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}

func (s *RedisStreamSink) Close() error {
	return s.Client.Close()
}
