package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"finbot/internal/core"
)

// Store is an in-memory ledger used by tests. It mirrors the SQLite
// backend's semantics: per-kind autoincrement ids, income truncated to
// day granularity, owner-scoped deletes.
type Store struct {
	mu            sync.Mutex
	items         []core.Transaction
	nextExpenseID int64
	nextIncomeID  int64
}

func New() *Store {
	return &Store{nextExpenseID: 1, nextIncomeID: 1}
}

func (s *Store) AppendExpense(_ context.Context, userID, amount int64, category string, at time.Time) (int64, error) {
	return s.append(core.Transaction{
		UserID:   userID,
		Amount:   amount,
		Category: category,
		At:       at,
		Kind:     core.Expense,
	})
}

func (s *Store) AppendIncome(_ context.Context, userID, amount int64, category string, day time.Time) (int64, error) {
	return s.append(core.Transaction{
		UserID:   userID,
		Amount:   amount,
		Category: category,
		At:       midnight(day),
		Kind:     core.Income,
	})
}

func (s *Store) append(tx core.Transaction) (int64, error) {
	if err := tx.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if tx.Kind == core.Income {
		tx.ID = s.nextIncomeID
		s.nextIncomeID++
	} else {
		tx.ID = s.nextExpenseID
		s.nextExpenseID++
	}
	s.items = append(s.items, tx)
	return tx.ID, nil
}

func (s *Store) SumByCategorySince(_ context.Context, userID int64, kind core.Kind, since time.Time) ([]core.CategoryTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sums := map[string]int64{}
	for _, tx := range s.items {
		if tx.UserID != userID || tx.Kind != kind || !tx.At.After(since) {
			continue
		}
		sums[tx.Category] += tx.Amount
	}

	out := make([]core.CategoryTotal, 0, len(sums))
	for category, total := range sums {
		out = append(out, core.CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

func (s *Store) SumAll(_ context.Context, userID int64, kind core.Kind) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	for _, tx := range s.items {
		if tx.UserID == userID && tx.Kind == kind {
			total += tx.Amount
		}
	}
	return total, nil
}

func (s *Store) Recent(_ context.Context, userID int64, limit int) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Transaction
	for _, tx := range s.items {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].At.After(out[j].At)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) Delete(_ context.Context, userID int64, code core.RefCode) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, tx := range s.items {
		if tx.Kind == code.Kind && tx.ID == code.ID && tx.UserID == userID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return tx, nil
		}
	}
	return core.Transaction{}, core.ErrNotFound
}

func midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
