package ledger

import (
	"context"
	"time"

	"finbot/internal/core"
)

// Store is the persistence port for the ledger. All operations are scoped
// to the owning user; a record owned by someone else behaves as absent.
type Store interface {
	// AppendExpense records an expense with a precise timestamp and
	// returns the new per-kind id.
	AppendExpense(ctx context.Context, userID, amount int64, category string, at time.Time) (int64, error)

	// AppendIncome records an income at day granularity and returns the
	// new per-kind id.
	AppendIncome(ctx context.Context, userID, amount int64, category string, day time.Time) (int64, error)

	// SumByCategorySince returns per-category totals for records of the
	// given kind strictly after since, ordered by total descending. An
	// empty result is not an error.
	SumByCategorySince(ctx context.Context, userID int64, kind core.Kind, since time.Time) ([]core.CategoryTotal, error)

	// SumAll returns the lifetime total for one kind, zero when empty.
	SumAll(ctx context.Context, userID int64, kind core.Kind) (int64, error)

	// Recent returns up to limit records of both kinds merged by
	// timestamp descending, income ordered as midnight of its day.
	Recent(ctx context.Context, userID int64, limit int) ([]core.Transaction, error)

	// Delete removes the record addressed by code and returns it.
	// Returns core.ErrNotFound when the record is absent or owned by a
	// different user.
	Delete(ctx context.Context, userID int64, code core.RefCode) (core.Transaction, error)
}
