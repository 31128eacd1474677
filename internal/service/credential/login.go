package credential

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/brewmetric/brewmetric-backend/internal/domain"
	"github.com/brewmetric/brewmetric-backend/pkg/ctxutil"
)

// dummyHash is compared against when the username does not exist, so
// the unknown-username path costs the same as a failed password check
// and response timing does not reveal which usernames are taken.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// Authenticate verifies a username/password pair, opens a session, and
// issues an access token. Unknown username, wrong password, and a
// disabled account all return the same domain.ErrUnauthorized; the
// audit trail records which one actually happened. Both outcomes are
// audited inside the transaction, so the failure record survives the
// rejected attempt.
func (s *Service) Authenticate(ctx context.Context, input LoginInput) (*AuthResult, error) {
	// Step 1: Validate input
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var (
		result  *AuthResult
		authErr error
	)

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		// Step 2: Look up the account
		acc, err := s.accounts.GetByUsername(ctx, input.Username)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Burn a hash comparison so an unknown username takes
				// as long as a wrong password.
				_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(input.Password))
				authErr = domain.ErrUnauthorized
				return s.auditLoginFailed(ctx, nil, "unknown username")
			}
			return fmt.Errorf("get account: %w", err)
		}

		// Step 3: Verify password and account state
		if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(input.Password)); err != nil {
			authErr = domain.ErrUnauthorized
			return s.auditLoginFailed(ctx, &acc.ID, "wrong password")
		}
		if !acc.IsActive {
			authErr = domain.ErrUnauthorized
			return s.auditLoginFailed(ctx, &acc.ID, "account disabled")
		}

		// Step 4: Open the session
		now := time.Now()
		session := domain.Session{
			ID:        uuid.New(),
			AccountID: acc.ID,
			Role:      acc.Role,
			ExpiresAt: now.Add(s.tokens.AccessTTL()),
		}
		if err := s.sessions.Create(ctx, session); err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		if err := s.accounts.SetLastLogin(ctx, acc.ID, now); err != nil {
			return fmt.Errorf("set last login: %w", err)
		}

		// Step 5: Record the successful login
		ip := clientIP(ctx)
		if _, err := s.audit.Create(ctx, domain.AuditRecord{
			AccountID:  &acc.ID,
			Action:     domain.AuditActionLogin,
			EntityType: domain.EntityTypeAccount,
			EntityID:   &acc.ID,
			IPAddress:  ip,
			SessionID:  &session.ID,
		}); err != nil {
			return fmt.Errorf("audit login: %w", err)
		}

		// Step 6: Issue the token
		token, err := s.tokens.GenerateAccessToken(acc.ID, acc.Role, session.ID)
		if err != nil {
			return fmt.Errorf("generate token: %w", err)
		}

		result = &AuthResult{
			AccessToken:        token,
			Account:            acc,
			Session:            session,
			MustChangePassword: acc.RequiresPasswordChange(),
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("credential.Authenticate: %w", err)
	}
	if authErr != nil {
		return nil, authErr
	}

	s.log.InfoContext(ctx, "account logged in",
		slog.Int64("account_id", result.Account.ID),
		slog.String("role", result.Account.Role.String()))

	return result, nil
}

// Logout revokes the current session. Safe to call twice.
func (s *Service) Logout(ctx context.Context) error {
	sess, ok := ctxutil.SessionFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.sessions.Revoke(ctx, sess.ID); err != nil {
			return fmt.Errorf("revoke session: %w", err)
		}
		if _, err := s.audit.Create(ctx, domain.AuditRecord{
			AccountID:  &sess.AccountID,
			Action:     domain.AuditActionLogout,
			EntityType: domain.EntityTypeAccount,
			EntityID:   &sess.AccountID,
			IPAddress:  clientIP(ctx),
			SessionID:  &sess.ID,
		}); err != nil {
			return fmt.Errorf("audit logout: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("credential.Logout: %w", err)
	}

	s.log.InfoContext(ctx, "account logged out", slog.Int64("account_id", sess.AccountID))
	return nil
}

// ValidateSession checks that a session is live: present, not revoked,
// not expired. Used by the transport auth middleware after the token
// signature has been verified.
func (s *Service) ValidateSession(ctx context.Context, sessionID uuid.UUID) (domain.Session, error) {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Session{}, domain.ErrUnauthorized
		}
		return domain.Session{}, fmt.Errorf("credential.ValidateSession: %w", err)
	}
	if sess.IsRevoked() || sess.IsExpired(time.Now()) {
		return domain.Session{}, domain.ErrUnauthorized
	}
	return sess, nil
}

func (s *Service) auditLoginFailed(ctx context.Context, accountID *int64, reason string) error {
	if _, err := s.audit.Create(ctx, domain.AuditRecord{
		AccountID:   accountID,
		Action:      domain.AuditActionLoginFailed,
		EntityType:  domain.EntityTypeAccount,
		EntityID:    accountID,
		Description: reason,
		IPAddress:   clientIP(ctx),
	}); err != nil {
		return fmt.Errorf("audit failed login: %w", err)
	}
	return nil
}

func clientIP(ctx context.Context) *string {
	if ip := ctxutil.ClientIPFromCtx(ctx); ip != "" {
		return &ip
	}
	return nil
}
