package credential

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/brewmetric/brewmetric-backend/internal/domain"
)

// EnsureBootstrapAdmin creates the initial administrator account when
// the accounts table is empty. The account is flagged to force a
// password change on first login. Called once at startup, before the
// HTTP listener comes up.
func (s *Service) EnsureBootstrapAdmin(ctx context.Context) error {
	count, err := s.accounts.Count(ctx)
	if err != nil {
		return fmt.Errorf("credential.EnsureBootstrapAdmin count accounts: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.BootstrapPassword), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("credential.EnsureBootstrapAdmin hash password: %w", err)
	}

	var created domain.Account
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		created, err = s.accounts.Create(ctx, domain.Account{
			Username:           s.cfg.BootstrapUsername,
			Email:              s.cfg.BootstrapEmail,
			FullName:           "Administrator",
			PasswordHash:       string(hash),
			Role:               domain.RoleAdmin,
			IsActive:           true,
			MustChangePassword: true,
		})
		if err != nil {
			return fmt.Errorf("create bootstrap admin: %w", err)
		}
		if _, err := s.audit.Create(ctx, domain.AuditRecord{
			Action:      domain.AuditActionCreateAccount,
			EntityType:  domain.EntityTypeAccount,
			EntityID:    &created.ID,
			Description: "bootstrap administrator",
		}); err != nil {
			return fmt.Errorf("audit bootstrap admin: %w", err)
		}
		return nil
	})
	if err != nil {
		// Another instance won the race, nothing to do.
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil
		}
		return fmt.Errorf("credential.EnsureBootstrapAdmin: %w", err)
	}

	s.log.WarnContext(ctx, "bootstrap administrator created with the default password, change it immediately",
		slog.Int64("account_id", created.ID),
		slog.String("username", created.Username))

	return nil
}
