package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/brewmetric/brewmetric-backend/internal/domain"
	"github.com/brewmetric/brewmetric-backend/pkg/ctxutil"
)

// AdjustStock applies a signed quantity delta to an item. The store
// enforces the non-negative invariant: a decrement that would go below
// zero fails with ErrInsufficientStock and nothing is applied.
func (s *Service) AdjustStock(ctx context.Context, input AdjustStockInput) (*domain.InventoryItem, error) {
	sess, ok := ctxutil.SessionFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := domain.Authorize(sess.Role, domain.ActionAdjustStock); err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var adjusted domain.InventoryItem
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		adjusted, err = s.items.ApplyDelta(ctx, input.ItemID, input.Delta)
		if err != nil {
			return fmt.Errorf("apply delta: %w", err)
		}

		oldQty := adjusted.Quantity.Sub(input.Delta)
		oldSnap, err := json.Marshal(map[string]any{"quantity": oldQty})
		if err != nil {
			return fmt.Errorf("marshal old quantity: %w", err)
		}
		newSnap, err := json.Marshal(map[string]any{"quantity": adjusted.Quantity})
		if err != nil {
			return fmt.Errorf("marshal new quantity: %w", err)
		}
		return s.recordMutation(ctx, sess, domain.AuditActionAdjustStock, adjusted.ID, oldSnap, newSnap, input.Note)
	})
	if err != nil {
		return nil, fmt.Errorf("inventory.AdjustStock: %w", err)
	}

	s.log.InfoContext(ctx, "stock adjusted",
		slog.Int64("item_id", adjusted.ID),
		slog.String("delta", input.Delta.String()),
		slog.String("quantity", adjusted.Quantity.String()))

	return &adjusted, nil
}
