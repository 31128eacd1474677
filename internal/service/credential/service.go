// Package credential implements account and session management:
// account creation, authentication, password changes, and the
// bootstrap administrator for an empty database.
package credential

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/brewmetric/brewmetric-backend/internal/config"
	"github.com/brewmetric/brewmetric-backend/internal/domain"
)

// accountRepo defines the account repository interface needed by the service.
type accountRepo interface {
	Create(ctx context.Context, acc domain.Account) (domain.Account, error)
	GetByID(ctx context.Context, id int64) (domain.Account, error)
	GetByUsername(ctx context.Context, username string) (domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	Count(ctx context.Context) (int64, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string, mustChange bool) error
	SetLastLogin(ctx context.Context, id int64, at time.Time) error
	SetActive(ctx context.Context, id int64, active bool) error
}

// sessionRepo defines the session repository interface needed by the service.
type sessionRepo interface {
	Create(ctx context.Context, s domain.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Session, error)
	Revoke(ctx context.Context, id uuid.UUID) error
}

// auditRecorder appends records to the audit trail.
type auditRecorder interface {
	Create(ctx context.Context, rec domain.AuditRecord) (domain.AuditRecord, error)
}

// txManager defines the transaction manager interface needed by the service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// tokenManager defines the access token interface needed by the service.
type tokenManager interface {
	GenerateAccessToken(accountID int64, role domain.Role, sessionID uuid.UUID) (string, error)
	AccessTTL() time.Duration
}

// Service implements credential operations.
type Service struct {
	log      *slog.Logger
	accounts accountRepo
	sessions sessionRepo
	audit    auditRecorder
	tx       txManager
	tokens   tokenManager
	cfg      config.AuthConfig
}

// NewService creates a new credential service instance.
func NewService(
	logger *slog.Logger,
	accounts accountRepo,
	sessions sessionRepo,
	audit auditRecorder,
	tx txManager,
	tokens tokenManager,
	cfg config.AuthConfig,
) *Service {
	return &Service{
		log:      logger.With("service", "credential"),
		accounts: accounts,
		sessions: sessions,
		audit:    audit,
		tx:       tx,
		tokens:   tokens,
		cfg:      cfg,
	}
}
