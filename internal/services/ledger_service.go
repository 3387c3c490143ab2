package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finbot/internal/amqp"
	"finbot/internal/core"
	"finbot/internal/ledger"
)

// DefaultHistoryLimit bounds history when the caller gives no limit.
const DefaultHistoryLimit = 20

// EventPublisher receives transaction events after successful writes.
type EventPublisher interface {
	PublishTransaction(ctx context.Context, msg *amqp.TransactionMessage) error
}

// LedgerService orchestrates ledger writes and computes the derived
// views: balance, categorized period totals, merged history. Views are
// always recomputed from the store, never cached.
type LedgerService struct {
	store  ledger.Store
	events EventPublisher
	now    func() time.Time
}

func NewLedgerService(store ledger.Store, events EventPublisher) *LedgerService {
	return &LedgerService{
		store:  store,
		events: events,
		now:    time.Now,
	}
}

// RecordExpense persists one expense at the current instant. A store
// failure leaves nothing recorded; the caller keeps the session awaiting
// so the user can resubmit.
func (s *LedgerService) RecordExpense(ctx context.Context, userID, amount int64, category string) (core.Transaction, error) {
	tx := core.Transaction{
		UserID:   userID,
		Amount:   amount,
		Category: category,
		At:       s.now(),
		Kind:     core.Expense,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	id, err := s.store.AppendExpense(ctx, tx.UserID, tx.Amount, tx.Category, tx.At)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save expense: %w", err)
	}
	tx.ID = id

	s.publish(ctx, amqp.EventRecorded, tx)
	return tx, nil
}

// RecordIncome persists one income at day granularity.
func (s *LedgerService) RecordIncome(ctx context.Context, userID, amount int64, category string) (core.Transaction, error) {
	tx := core.Transaction{
		UserID:   userID,
		Amount:   amount,
		Category: category,
		At:       s.now(),
		Kind:     core.Income,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	id, err := s.store.AppendIncome(ctx, tx.UserID, tx.Amount, tx.Category, tx.At)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save income: %w", err)
	}
	tx.ID = id

	s.publish(ctx, amqp.EventRecorded, tx)
	return tx, nil
}

// Balance returns lifetime totals: income, expense and their difference.
func (s *LedgerService) Balance(ctx context.Context, userID int64) (core.BalanceSummary, error) {
	income, err := s.store.SumAll(ctx, userID, core.Income)
	if err != nil {
		return core.BalanceSummary{}, fmt.Errorf("sum income: %w", err)
	}
	expense, err := s.store.SumAll(ctx, userID, core.Expense)
	if err != nil {
		return core.BalanceSummary{}, fmt.Errorf("sum expenses: %w", err)
	}
	return core.BalanceSummary{
		Income:  income,
		Expense: expense,
		Net:     income - expense,
	}, nil
}

// CategoryTotals sums expenses per category for records strictly after
// now minus the period, ordered by total descending.
func (s *LedgerService) CategoryTotals(ctx context.Context, userID int64, period core.Period) ([]core.CategoryTotal, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	since := s.now().Add(-period.Duration())
	totals, err := s.store.SumByCategorySince(ctx, userID, core.Expense, since)
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	return totals, nil
}

// History returns the most recent records of both kinds merged by
// timestamp descending. A non-positive limit means DefaultHistoryLimit.
func (s *LedgerService) History(ctx context.Context, userID int64, limit int) ([]core.Transaction, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	entries, err := s.store.Recent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent transactions: %w", err)
	}
	return entries, nil
}

// DeleteByCode resolves a reference code and removes the transaction it
// addresses, owner-scoped. Malformed codes fail with core.ErrBadRefCode;
// absent or foreign records with core.ErrNotFound.
func (s *LedgerService) DeleteByCode(ctx context.Context, userID int64, rawCode string) (core.Transaction, error) {
	code, err := core.ParseRefCode(rawCode)
	if err != nil {
		return core.Transaction{}, err
	}

	tx, err := s.store.Delete(ctx, userID, code)
	if err != nil {
		return core.Transaction{}, err
	}

	s.publish(ctx, amqp.EventDeleted, tx)
	return tx, nil
}

// publish is fire-and-forget: a broker failure must never fail the user
// action that already committed.
func (s *LedgerService) publish(ctx context.Context, event string, tx core.Transaction) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishTransaction(ctx, amqp.NewTransactionMessage(event, tx)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"event", event, "kind", tx.Kind, "id", tx.ID, "error", err)
	}
}
