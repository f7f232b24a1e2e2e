package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hrdesk/backend/internal/models"
)

// Store is the Postgres audit store. It satisfies audit.Sink and audit.Reader.
type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS audit_entries (
		id BIGSERIAL PRIMARY KEY,
		ts TIMESTAMPTZ NOT NULL,
		action TEXT NOT NULL,
		actor_id TEXT NOT NULL,
		correlation_id TEXT NOT NULL,
		payload JSONB
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_entries_correlation ON audit_entries (correlation_id, id)`,
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("apply schema: %w", err)
			}
		}
		return nil
	})
}

func (s *Store) Append(ctx context.Context, entry models.AuditEntry) error {
	var payload []byte
	if entry.Payload != nil {
		b, err := json.Marshal(entry.Payload)
		if err != nil {
			return fmt.Errorf("marshal audit payload: %w", err)
		}
		payload = b
	}
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO audit_entries (ts, action, actor_id, correlation_id, payload)
		VALUES ($1, $2, $3, $4, $5)
	`, entry.Timestamp, entry.Action, entry.ActorID, entry.CorrelationID, payload)
	return err
}

func (s *Store) ListByCorrelation(ctx context.Context, correlationID string) ([]models.AuditEntry, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT ts, action, actor_id, correlation_id, payload
		FROM audit_entries
		WHERE correlation_id = $1
		ORDER BY id
	`, correlationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AuditEntry
	for rows.Next() {
		var (
			e       models.AuditEntry
			payload []byte
		)
		if err := rows.Scan(&e.Timestamp, &e.Action, &e.ActorID, &e.CorrelationID, &payload); err != nil {
			return nil, err
		}
		if len(payload) > 0 {
			e.Payload = json.RawMessage(payload)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
