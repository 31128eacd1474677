// Package activity projects the audit trail into the user-facing feed.
// The feed table is a cache: Rebuild replays the audit trail and must
// produce the same events a live projection would have written.
package activity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brewmetric/brewmetric-backend/internal/adapter/postgres/audit"
	"github.com/brewmetric/brewmetric-backend/internal/config"
	"github.com/brewmetric/brewmetric-backend/internal/domain"
	"github.com/brewmetric/brewmetric-backend/pkg/ctxutil"
)

// feedRepo defines the feed repository interface needed by the service.
type feedRepo interface {
	Create(ctx context.Context, ev domain.FeedEvent) error
	ListRecent(ctx context.Context, limit int) ([]domain.FeedEvent, error)
	Truncate(ctx context.Context) error
}

// auditReader reads the audit trail the feed is projected from.
type auditReader interface {
	List(ctx context.Context, filter audit.Filter) ([]domain.AuditRecord, error)
}

// txManager defines the transaction manager interface needed by the service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements the activity feed projector.
type Service struct {
	log   *slog.Logger
	feed  feedRepo
	audit auditReader
	tx    txManager
	cfg   config.InventoryConfig
}

// NewService creates a new activity service instance.
func NewService(
	logger *slog.Logger,
	feed feedRepo,
	audit auditReader,
	tx txManager,
	cfg config.InventoryConfig,
) *Service {
	return &Service{
		log:   logger.With("service", "activity"),
		feed:  feed,
		audit: audit,
		tx:    tx,
		cfg:   cfg,
	}
}

// Recent returns the newest feed events, most recent first. Security
// events never appear here; they live only in the audit trail.
func (s *Service) Recent(ctx context.Context) ([]domain.FeedEvent, error) {
	sess, ok := ctxutil.SessionFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := domain.Authorize(sess.Role, domain.ActionViewActivity); err != nil {
		return nil, err
	}

	events, err := s.feed.ListRecent(ctx, s.cfg.FeedLimit)
	if err != nil {
		return nil, fmt.Errorf("activity.Recent: %w", err)
	}
	return events, nil
}

// rebuildBatchSize bounds how many audit rows one replay pass loads.
const rebuildBatchSize = 1000

// Rebuild drops the feed cache and replays it from the audit trail.
// Admin only. Original event timestamps are preserved so the rebuilt
// feed is indistinguishable from the live-projected one.
func (s *Service) Rebuild(ctx context.Context) (int, error) {
	sess, ok := ctxutil.SessionFromCtx(ctx)
	if !ok {
		return 0, domain.ErrUnauthorized
	}
	if err := domain.Authorize(sess.Role, domain.ActionViewAuditTrail); err != nil {
		return 0, err
	}

	var rebuilt int
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.feed.Truncate(ctx); err != nil {
			return fmt.Errorf("truncate feed: %w", err)
		}

		offset := 0
		for {
			records, err := s.audit.List(ctx, audit.Filter{
				Limit:  rebuildBatchSize,
				Offset: offset,
			})
			if err != nil {
				return fmt.Errorf("list audit records: %w", err)
			}

			for _, rec := range records {
				if !rec.Action.AppearsInFeed() || rec.AccountID == nil {
					continue
				}
				if err := s.feed.Create(ctx, domain.FeedEvent{
					AccountID: *rec.AccountID,
					ItemID:    rec.ItemID,
					Action:    rec.Action.String(),
					CreatedAt: rec.CreatedAt,
				}); err != nil {
					return fmt.Errorf("replay feed event: %w", err)
				}
				rebuilt++
			}

			if len(records) < rebuildBatchSize {
				return nil
			}
			offset += rebuildBatchSize
		}
	})
	if err != nil {
		return 0, fmt.Errorf("activity.Rebuild: %w", err)
	}

	s.log.InfoContext(ctx, "activity feed rebuilt", slog.Int("events", rebuilt))
	return rebuilt, nil
}
