package audit

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hrdesk/backend/internal/models"
)

// MultiSink writes every entry to all of its sinks concurrently and returns
// once each has finished.
type MultiSink []Sink

func (m MultiSink) Append(ctx context.Context, entry models.AuditEntry) error {
	var g errgroup.Group
	for _, s := range m {
		g.Go(func() error {
			return s.Append(ctx, entry)
		})
	}
	return g.Wait()
}
