package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/brewmetric/brewmetric-backend/internal/domain"
	"github.com/brewmetric/brewmetric-backend/pkg/ctxutil"
)

// CreateItem adds a new stock line. Writes the item, the audit record,
// and the feed event in one transaction.
func (s *Service) CreateItem(ctx context.Context, input CreateItemInput) (*domain.InventoryItem, error) {
	sess, ok := ctxutil.SessionFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := domain.Authorize(sess.Role, domain.ActionAddItem); err != nil {
		return nil, err
	}
	if err := input.Validate(s.cfg.Categories); err != nil {
		return nil, err
	}

	var created domain.InventoryItem
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.items.Create(ctx, domain.InventoryItem{
			Name:           input.Name,
			Category:       input.Category,
			Description:    input.Description,
			Quantity:       input.Quantity,
			Unit:           input.Unit,
			MinThreshold:   input.MinThreshold,
			UnitCost:       input.UnitCost,
			ExpirationDate: input.ExpirationDate,
			Location:       input.Location,
		})
		if err != nil {
			return fmt.Errorf("create item: %w", err)
		}

		snap, err := itemSnapshot(&created)
		if err != nil {
			return err
		}
		if err := s.recordMutation(ctx, sess, domain.AuditActionCreateItem, created.ID, nil, snap, ""); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("inventory.CreateItem: %w", err)
	}

	s.log.InfoContext(ctx, "item created",
		slog.Int64("item_id", created.ID),
		slog.String("name", created.Name))

	return &created, nil
}

// GetItem returns a single item by id. Soft-deleted items read as not
// found here; historical joins go through the reporting facade.
func (s *Service) GetItem(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	sess, ok := ctxutil.SessionFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := domain.Authorize(sess.Role, domain.ActionViewInventory); err != nil {
		return nil, err
	}

	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("inventory.GetItem: %w", err)
	}
	return &it, nil
}

// ListItems returns items matching the filter. Soft-deleted rows are
// excluded unless an admin explicitly asks for them.
func (s *Service) ListItems(ctx context.Context, input ListItemsInput) ([]domain.InventoryItem, error) {
	sess, ok := ctxutil.SessionFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := domain.Authorize(sess.Role, domain.ActionViewInventory); err != nil {
		return nil, err
	}
	if input.IncludeDeleted {
		// Historical listings expose deleted rows, admin only.
		if err := domain.Authorize(sess.Role, domain.ActionViewAuditTrail); err != nil {
			return nil, err
		}
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	items, err := s.items.List(ctx, input.filter())
	if err != nil {
		return nil, fmt.Errorf("inventory.ListItems: %w", err)
	}
	return items, nil
}

// UpdateItem applies the supplied field changes all-or-nothing. A
// concurrent writer that changed the row first surfaces as ErrConflict.
func (s *Service) UpdateItem(ctx context.Context, input UpdateItemInput) (*domain.InventoryItem, error) {
	sess, ok := ctxutil.SessionFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := domain.Authorize(sess.Role, domain.ActionUpdateItem); err != nil {
		return nil, err
	}
	if err := input.Validate(s.cfg.Categories); err != nil {
		return nil, err
	}

	var updated domain.InventoryItem
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		current, err := s.items.GetByID(ctx, input.ID)
		if err != nil {
			return fmt.Errorf("get item: %w", err)
		}

		oldSnap, err := itemSnapshot(&current)
		if err != nil {
			return err
		}

		updated, err = s.items.Update(ctx, input.apply(current), current.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update item: %w", err)
		}

		newSnap, err := itemSnapshot(&updated)
		if err != nil {
			return err
		}
		return s.recordMutation(ctx, sess, domain.AuditActionUpdateItem, updated.ID, oldSnap, newSnap, "")
	})
	if err != nil {
		return nil, fmt.Errorf("inventory.UpdateItem: %w", err)
	}

	s.log.InfoContext(ctx, "item updated", slog.Int64("item_id", updated.ID))
	return &updated, nil
}

// DeleteItem soft-deletes an item. Admin only. The row stays behind
// soft-delete so waste and audit joins keep resolving.
func (s *Service) DeleteItem(ctx context.Context, id int64) error {
	sess, ok := ctxutil.SessionFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if err := domain.Authorize(sess.Role, domain.ActionDeleteItem); err != nil {
		return err
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		current, err := s.items.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get item: %w", err)
		}
		oldSnap, err := itemSnapshot(&current)
		if err != nil {
			return err
		}
		if err := s.items.SoftDelete(ctx, id); err != nil {
			return fmt.Errorf("soft delete: %w", err)
		}
		return s.recordMutation(ctx, sess, domain.AuditActionDeleteItem, id, oldSnap, nil, "")
	})
	if err != nil {
		return fmt.Errorf("inventory.DeleteItem: %w", err)
	}

	s.log.InfoContext(ctx, "item deleted", slog.Int64("item_id", id))
	return nil
}

// recordMutation writes the audit record and the matching feed event.
// Must run inside the mutation's transaction: audit failure rolls the
// mutation back.
func (s *Service) recordMutation(ctx context.Context, sess domain.Session, action domain.AuditAction, itemID int64, oldValues, newValues []byte, description string) error {
	if _, err := s.audit.Create(ctx, domain.AuditRecord{
		AccountID:   &sess.AccountID,
		ItemID:      &itemID,
		Action:      action,
		EntityType:  domain.EntityTypeItem,
		EntityID:    &itemID,
		OldValues:   oldValues,
		NewValues:   newValues,
		Description: description,
		IPAddress:   clientIP(ctx),
		SessionID:   &sess.ID,
	}); err != nil {
		return fmt.Errorf("audit %s: %w", action, err)
	}
	if err := s.feed.Create(ctx, domain.FeedEvent{
		AccountID: sess.AccountID,
		ItemID:    &itemID,
		Action:    action.String(),
	}); err != nil {
		return fmt.Errorf("feed %s: %w", action, err)
	}
	return nil
}

// itemSnapshot serializes the audited fields of an item.
func itemSnapshot(it *domain.InventoryItem) ([]byte, error) {
	snap, err := json.Marshal(map[string]any{
		"name":            it.Name,
		"category":        it.Category,
		"description":     it.Description,
		"quantity":        it.Quantity,
		"unit":            it.Unit,
		"min_threshold":   it.MinThreshold,
		"unit_cost":       it.UnitCost,
		"expiration_date": it.ExpirationDate,
		"location":        it.Location,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal item snapshot: %w", err)
	}
	return snap, nil
}

func clientIP(ctx context.Context) *string {
	if ip := ctxutil.ClientIPFromCtx(ctx); ip != "" {
		return &ip
	}
	return nil
}
