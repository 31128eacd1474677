package credential

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/brewmetric/brewmetric-backend/internal/domain"
	"github.com/brewmetric/brewmetric-backend/pkg/ctxutil"
)

// ChangePassword replaces the caller's password after verifying the
// current one. A successful change clears the must-change flag.
func (s *Service) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	sess, ok := ctxutil.SessionFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	// Step 1: Validate input and password policy
	if err := input.Validate(); err != nil {
		return err
	}
	if err := domain.CheckPasswordPolicy(input.NewPassword); err != nil {
		return err
	}

	// Step 2: Verify the current password
	acc, err := s.accounts.GetByID(ctx, sess.AccountID)
	if err != nil {
		return fmt.Errorf("credential.ChangePassword get account: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(input.CurrentPassword)); err != nil {
		return domain.ErrUnauthorized
	}

	// Step 3: Hash the new password
	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("credential.ChangePassword hash password: %w", err)
	}

	// Step 4: Store the new hash and audit in a transaction
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.accounts.UpdatePassword(ctx, acc.ID, string(hash), false); err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		if _, err := s.audit.Create(ctx, domain.AuditRecord{
			AccountID:  &acc.ID,
			Action:     domain.AuditActionChangePassword,
			EntityType: domain.EntityTypeAccount,
			EntityID:   &acc.ID,
			IPAddress:  clientIP(ctx),
			SessionID:  &sess.ID,
		}); err != nil {
			return fmt.Errorf("audit password change: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("credential.ChangePassword: %w", err)
	}

	s.log.InfoContext(ctx, "password changed", slog.Int64("account_id", acc.ID))
	return nil
}
