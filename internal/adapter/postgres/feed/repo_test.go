package feed

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/brewmetric/brewmetric-backend/internal/adapter/postgres/testutil"
	"github.com/brewmetric/brewmetric-backend/internal/domain"
)

func TestRepo_Create(t *testing.T) {
	mock := testutil.NewMockPool(t)
	repo := New(mock)

	itemID := int64(3)
	mock.ExpectExec(`INSERT INTO activity_feed`).
		WithArgs(int64(1), &itemID, "recorded waste for Oat Milk").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), domain.FeedEvent{
		AccountID: 1,
		ItemID:    &itemID,
		Action:    "recorded waste for Oat Milk",
	})
	if err != nil {
		t.Fatalf("Create() = %v, want nil", err)
	}
}

func TestRepo_ListRecent(t *testing.T) {
	mock := testutil.NewMockPool(t)
	repo := New(mock)

	itemName := "Oat Milk"
	itemID := int64(3)
	rows := pgxmock.NewRows([]string{"id", "account_id", "item_id", "action", "created_at", "username", "item_name"}).
		AddRow(int64(9), int64(1), &itemID, "recorded waste for Oat Milk", time.Now(), "anna", &itemName)

	mock.ExpectQuery(`SELECT .+ FROM activity_feed f`).
		WillReturnRows(rows)

	got, err := repo.ListRecent(context.Background(), 20)
	if err != nil {
		t.Fatalf("ListRecent() = %v, want nil", err)
	}
	if len(got) != 1 || got[0].Username != "anna" {
		t.Fatalf("ListRecent() returned %+v", got)
	}
}

func TestRepo_Truncate(t *testing.T) {
	mock := testutil.NewMockPool(t)
	repo := New(mock)

	mock.ExpectExec(`DELETE FROM activity_feed`).
		WillReturnResult(pgxmock.NewResult("DELETE", 42))

	if err := repo.Truncate(context.Background()); err != nil {
		t.Fatalf("Truncate() = %v, want nil", err)
	}
}

func TestRepo_DeleteOlderThan(t *testing.T) {
	mock := testutil.NewMockPool(t)
	repo := New(mock)

	threshold := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(`DELETE FROM activity_feed WHERE created_at <`).
		WithArgs(threshold).
		WillReturnResult(pgxmock.NewResult("DELETE", 17))

	deleted, err := repo.DeleteOlderThan(context.Background(), threshold)
	if err != nil {
		t.Fatalf("DeleteOlderThan() = %v, want nil", err)
	}
	if deleted != 17 {
		t.Errorf("DeleteOlderThan() deleted = %d, want 17", deleted)
	}
}
