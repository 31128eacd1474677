package credential

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/brewmetric/brewmetric-backend/internal/domain"
)

// Hand-written mocks in the moq shape: one Func field per method,
// panic on an unexpected call.

type accountRepoMock struct {
	CreateFunc         func(ctx context.Context, acc domain.Account) (domain.Account, error)
	GetByIDFunc        func(ctx context.Context, id int64) (domain.Account, error)
	GetByUsernameFunc  func(ctx context.Context, username string) (domain.Account, error)
	ListFunc           func(ctx context.Context) ([]domain.Account, error)
	CountFunc          func(ctx context.Context) (int64, error)
	UpdatePasswordFunc func(ctx context.Context, id int64, passwordHash string, mustChange bool) error
	SetLastLoginFunc   func(ctx context.Context, id int64, at time.Time) error
	SetActiveFunc      func(ctx context.Context, id int64, active bool) error
}

var _ accountRepo = (*accountRepoMock)(nil)

func (m *accountRepoMock) Create(ctx context.Context, acc domain.Account) (domain.Account, error) {
	if m.CreateFunc == nil {
		panic("accountRepoMock.Create: unexpected call")
	}
	return m.CreateFunc(ctx, acc)
}

func (m *accountRepoMock) GetByID(ctx context.Context, id int64) (domain.Account, error) {
	if m.GetByIDFunc == nil {
		panic("accountRepoMock.GetByID: unexpected call")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *accountRepoMock) GetByUsername(ctx context.Context, username string) (domain.Account, error) {
	if m.GetByUsernameFunc == nil {
		panic("accountRepoMock.GetByUsername: unexpected call")
	}
	return m.GetByUsernameFunc(ctx, username)
}

func (m *accountRepoMock) List(ctx context.Context) ([]domain.Account, error) {
	if m.ListFunc == nil {
		panic("accountRepoMock.List: unexpected call")
	}
	return m.ListFunc(ctx)
}

func (m *accountRepoMock) Count(ctx context.Context) (int64, error) {
	if m.CountFunc == nil {
		panic("accountRepoMock.Count: unexpected call")
	}
	return m.CountFunc(ctx)
}

func (m *accountRepoMock) UpdatePassword(ctx context.Context, id int64, passwordHash string, mustChange bool) error {
	if m.UpdatePasswordFunc == nil {
		panic("accountRepoMock.UpdatePassword: unexpected call")
	}
	return m.UpdatePasswordFunc(ctx, id, passwordHash, mustChange)
}

func (m *accountRepoMock) SetLastLogin(ctx context.Context, id int64, at time.Time) error {
	if m.SetLastLoginFunc == nil {
		panic("accountRepoMock.SetLastLogin: unexpected call")
	}
	return m.SetLastLoginFunc(ctx, id, at)
}

func (m *accountRepoMock) SetActive(ctx context.Context, id int64, active bool) error {
	if m.SetActiveFunc == nil {
		panic("accountRepoMock.SetActive: unexpected call")
	}
	return m.SetActiveFunc(ctx, id, active)
}

type sessionRepoMock struct {
	CreateFunc  func(ctx context.Context, s domain.Session) error
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (domain.Session, error)
	RevokeFunc  func(ctx context.Context, id uuid.UUID) error
}

var _ sessionRepo = (*sessionRepoMock)(nil)

func (m *sessionRepoMock) Create(ctx context.Context, s domain.Session) error {
	if m.CreateFunc == nil {
		panic("sessionRepoMock.Create: unexpected call")
	}
	return m.CreateFunc(ctx, s)
}

func (m *sessionRepoMock) GetByID(ctx context.Context, id uuid.UUID) (domain.Session, error) {
	if m.GetByIDFunc == nil {
		panic("sessionRepoMock.GetByID: unexpected call")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *sessionRepoMock) Revoke(ctx context.Context, id uuid.UUID) error {
	if m.RevokeFunc == nil {
		panic("sessionRepoMock.Revoke: unexpected call")
	}
	return m.RevokeFunc(ctx, id)
}

type auditRecorderMock struct {
	CreateFunc func(ctx context.Context, rec domain.AuditRecord) (domain.AuditRecord, error)

	records []domain.AuditRecord
}

var _ auditRecorder = (*auditRecorderMock)(nil)

func (m *auditRecorderMock) Create(ctx context.Context, rec domain.AuditRecord) (domain.AuditRecord, error) {
	m.records = append(m.records, rec)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, rec)
	}
	rec.ID = int64(len(m.records))
	return rec, nil
}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

var _ txManager = (*txManagerMock)(nil)

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc == nil {
		panic("txManagerMock.RunInTx: unexpected call")
	}
	return m.RunInTxFunc(ctx, fn)
}

// passthroughTx runs the transactional function on the ambient
// context, committing unconditionally like a real manager would when
// fn returns nil.
func passthroughTx() *txManagerMock {
	return &txManagerMock{
		RunInTxFunc: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
	}
}

type tokenManagerMock struct {
	GenerateAccessTokenFunc func(accountID int64, role domain.Role, sessionID uuid.UUID) (string, error)
	AccessTTLFunc           func() time.Duration
}

var _ tokenManager = (*tokenManagerMock)(nil)

func (m *tokenManagerMock) GenerateAccessToken(accountID int64, role domain.Role, sessionID uuid.UUID) (string, error) {
	if m.GenerateAccessTokenFunc == nil {
		panic("tokenManagerMock.GenerateAccessToken: unexpected call")
	}
	return m.GenerateAccessTokenFunc(accountID, role, sessionID)
}

func (m *tokenManagerMock) AccessTTL() time.Duration {
	if m.AccessTTLFunc == nil {
		return 12 * time.Hour
	}
	return m.AccessTTLFunc()
}
