package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("create pgxmock pool: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		mock.Close()
	})
	return mock
}

func TestTxManager_RunInTx_Commit(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	m := NewTxManager(mock, time.Second)
	called := false
	err := m.RunInTx(context.Background(), func(ctx context.Context) error {
		called = true
		if _, ok := ctx.Value(txCtxKey{}).(interface{ Rollback(context.Context) error }); !ok {
			t.Error("transaction not stored in context")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunInTx() = %v, want nil", err)
	}
	if !called {
		t.Fatal("callback was not invoked")
	}
}

func TestTxManager_RunInTx_RollbackOnError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := NewTxManager(mock, time.Second)
	cause := errors.New("boom")
	err := m.RunInTx(context.Background(), func(ctx context.Context) error {
		return cause
	})
	if !errors.Is(err, cause) {
		t.Fatalf("RunInTx() = %v, want %v", err, cause)
	}
}

func TestTxManager_RunInTx_RollbackOnPanic(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := NewTxManager(mock, time.Second)
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic to propagate")
		}
	}()
	_ = m.RunInTx(context.Background(), func(ctx context.Context) error {
		panic("boom")
	})
}

func TestTxManager_RunInReadTx(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadOnly})
	mock.ExpectCommit()

	m := NewTxManager(mock, time.Second)
	err := m.RunInReadTx(context.Background(), func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("RunInReadTx() = %v, want nil", err)
	}
}
