package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"finbot/internal/core"
)

func TestAppendAssignsPerKindIDs(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now()

	e1, err := s.AppendExpense(ctx, 1, 500, "coffee", now)
	if err != nil {
		t.Fatalf("append expense: %v", err)
	}
	i1, err := s.AppendIncome(ctx, 1, 10000, "salary", now)
	if err != nil {
		t.Fatalf("append income: %v", err)
	}
	e2, _ := s.AppendExpense(ctx, 1, 300, "coffee", now)

	if e1 != 1 || e2 != 2 {
		t.Fatalf("expense ids = %d, %d, want 1, 2", e1, e2)
	}
	if i1 != 1 {
		t.Fatalf("income id = %d, want 1 (independent of expense ids)", i1)
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.AppendExpense(ctx, 1, 0, "coffee", time.Now()); err == nil {
		t.Fatalf("expected error for zero amount")
	}
	if _, err := s.AppendIncome(ctx, 1, 100, "  ", time.Now()); err == nil {
		t.Fatalf("expected error for blank category")
	}
}

func TestRecentMergesAndOrders(t *testing.T) {
	s := New()
	ctx := context.Background()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	s.AppendExpense(ctx, 1, 100, "early", day.Add(1*time.Hour))
	s.AppendIncome(ctx, 1, 200, "mid", day) // orders as midnight
	s.AppendExpense(ctx, 1, 300, "late", day.Add(9*time.Hour))

	got, err := s.Recent(ctx, 1, 20)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	wantOrder := []string{"late", "early", "mid"}
	for i, w := range wantOrder {
		if got[i].Category != w {
			t.Fatalf("entry %d = %q, want %q", i, got[i].Category, w)
		}
	}
}

func TestDeleteIsOwnerScoped(t *testing.T) {
	s := New()
	ctx := context.Background()
	id, _ := s.AppendExpense(ctx, 1, 500, "coffee", time.Now())
	code := core.RefCode{Kind: core.Expense, ID: id}

	if _, err := s.Delete(ctx, 2, code); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("foreign delete: got %v, want ErrNotFound", err)
	}
	if got, err := s.SumAll(ctx, 1, core.Expense); err != nil || got != 500 {
		t.Fatalf("record must survive a foreign delete, sum = %d (%v)", got, err)
	}

	tx, err := s.Delete(ctx, 1, code)
	if err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if tx.Amount != 500 || tx.Category != "coffee" {
		t.Fatalf("deleted record = %+v", tx)
	}
	if _, err := s.Delete(ctx, 1, code); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("second delete: got %v, want ErrNotFound", err)
	}
}
