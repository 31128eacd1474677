package credential

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/brewmetric/brewmetric-backend/internal/domain"
	"github.com/brewmetric/brewmetric-backend/pkg/ctxutil"
)

// CreateAccount registers a new staff or admin account. Admin only.
func (s *Service) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	sess, ok := ctxutil.SessionFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := domain.Authorize(sess.Role, domain.ActionManageAccounts); err != nil {
		return nil, err
	}

	// Step 1: Validate input and password policy
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := domain.CheckPasswordPolicy(input.Password); err != nil {
		return nil, err
	}

	// Step 2: Hash the password
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("credential.CreateAccount hash password: %w", err)
	}

	// Step 3: Create account and audit record in a transaction
	var created domain.Account
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		created, err = s.accounts.Create(ctx, domain.Account{
			Username:     input.Username,
			Email:        input.Email,
			FullName:     input.FullName,
			PasswordHash: string(hash),
			Role:         input.Role,
			IsActive:     true,
		})
		if err != nil {
			return fmt.Errorf("create account: %w", err)
		}

		newValues, err := json.Marshal(map[string]any{
			"username": created.Username,
			"email":    created.Email,
			"role":     created.Role,
		})
		if err != nil {
			return fmt.Errorf("marshal audit values: %w", err)
		}

		if _, err := s.audit.Create(ctx, domain.AuditRecord{
			AccountID:  &sess.AccountID,
			Action:     domain.AuditActionCreateAccount,
			EntityType: domain.EntityTypeAccount,
			EntityID:   &created.ID,
			NewValues:  newValues,
			IPAddress:  clientIP(ctx),
			SessionID:  &sess.ID,
		}); err != nil {
			return fmt.Errorf("audit create account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("credential.CreateAccount: %w", err)
	}

	s.log.InfoContext(ctx, "account created",
		slog.Int64("account_id", created.ID),
		slog.String("username", created.Username),
		slog.String("role", created.Role.String()))

	return &created, nil
}

// ListAccounts returns all accounts. Admin only.
func (s *Service) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	sess, ok := ctxutil.SessionFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := domain.Authorize(sess.Role, domain.ActionManageAccounts); err != nil {
		return nil, err
	}

	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("credential.ListAccounts: %w", err)
	}
	return accounts, nil
}

// SetAccountActive enables or disables an account. Admin only; admins
// cannot disable themselves.
func (s *Service) SetAccountActive(ctx context.Context, accountID int64, active bool) error {
	sess, ok := ctxutil.SessionFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if err := domain.Authorize(sess.Role, domain.ActionManageAccounts); err != nil {
		return err
	}
	if accountID == sess.AccountID && !active {
		return domain.NewValidationError("account_id", "cannot disable own account")
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.accounts.SetActive(ctx, accountID, active); err != nil {
			return fmt.Errorf("set active: %w", err)
		}

		newValues, err := json.Marshal(map[string]any{"is_active": active})
		if err != nil {
			return fmt.Errorf("marshal audit values: %w", err)
		}

		if _, err := s.audit.Create(ctx, domain.AuditRecord{
			AccountID:  &sess.AccountID,
			Action:     domain.AuditActionUpdateAccount,
			EntityType: domain.EntityTypeAccount,
			EntityID:   &accountID,
			NewValues:  newValues,
			IPAddress:  clientIP(ctx),
			SessionID:  &sess.ID,
		}); err != nil {
			return fmt.Errorf("audit account update: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("credential.SetAccountActive: %w", err)
	}

	s.log.InfoContext(ctx, "account active flag changed",
		slog.Int64("account_id", accountID),
		slog.Bool("active", active))

	return nil
}
