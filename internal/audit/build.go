package audit

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hrdesk/backend/internal/config"
	"github.com/hrdesk/backend/internal/db"
)

// Open builds the sink list named by AUDIT_SINKS. The returned close
// function releases every store that was opened.
func Open(ctx context.Context, cfg config.Config, logger zerolog.Logger) (Sink, func(), error) {
	var (
		sinks   MultiSink
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	for _, name := range cfg.Sinks() {
		switch name {
		case config.SinkLog:
			sinks = append(sinks, LogSink{Logger: logger.With().Str("component", "audit").Logger()})
		case config.SinkPostgres:
			if cfg.DatabaseURL == "" {
				closeAll()
				return nil, nil, fmt.Errorf("audit sink %q requires DATABASE_URL", name)
			}
			store, err := db.New(ctx, cfg.DatabaseURL)
			if err != nil {
				closeAll()
				return nil, nil, fmt.Errorf("connect postgres: %w", err)
			}
			closers = append(closers, store.Close)
			if err := store.EnsureSchema(ctx); err != nil {
				closeAll()
				return nil, nil, err
			}
			sinks = append(sinks, store)
		case config.SinkRedis:
			if cfg.RedisURL == "" {
				closeAll()
				return nil, nil, fmt.Errorf("audit sink %q requires REDIS_URL", name)
			}
			s, err := NewRedisStreamSink(ctx, cfg.RedisURL, cfg.RedisAuditStream)
			if err != nil {
				closeAll()
				return nil, nil, err
			}
			closers = append(closers, func() { _ = s.Close() })
			sinks = append(sinks, s)
		case config.SinkSQLite:
			s, err := NewSQLiteSink(cfg.SQLitePath)
			if err != nil {
				closeAll()
				return nil, nil, err
			}
			closers = append(closers, func() { _ = s.Close() })
			sinks = append(sinks, s)
		default:
			closeAll()
			return nil, nil, fmt.Errorf("unknown audit sink %q", name)
		}
	}

	if len(sinks) == 1 {
		return sinks[0], closeAll, nil
	}
	return sinks, closeAll, nil
}
