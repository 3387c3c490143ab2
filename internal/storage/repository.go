package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"finbot/internal/core"

	_ "modernc.org/sqlite"
)

// Fixed-width UTC layouts so that lexicographic order in SQL equals
// chronological order, including across the expense/income UNION.
const (
	timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
	dayLayout       = "2006-01-02"
	midnightSuffix  = "T00:00:00.000000000Z"
)

// SQLiteRepository is the concrete ledger Store. Schema management lives
// in versioned migrations applied by the migrate command, not here.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) AppendExpense(ctx context.Context, userID, amount int64, category string, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (user_id, amount, category, timestamp) VALUES (?, ?, ?, ?)`,
		userID, amount, category, at.UTC().Format(timestampLayout))
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) AppendIncome(ctx context.Context, userID, amount int64, category string, day time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO income (user_id, amount, category, date) VALUES (?, ?, ?, ?)`,
		userID, amount, category, day.UTC().Format(dayLayout))
	if err != nil {
		return 0, fmt.Errorf("insert income: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("income insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) SumByCategorySince(ctx context.Context, userID int64, kind core.Kind, since time.Time) ([]core.CategoryTotal, error) {
	var query, bound string
	if kind == core.Income {
		query = `SELECT category, SUM(amount) FROM income
			WHERE user_id = ? AND date > ?
			GROUP BY category
			ORDER BY SUM(amount) DESC, category ASC`
		bound = since.UTC().Format(dayLayout)
	} else {
		query = `SELECT category, SUM(amount) FROM expenses
			WHERE user_id = ? AND timestamp > ?
			GROUP BY category
			ORDER BY SUM(amount) DESC, category ASC`
		bound = since.UTC().Format(timestampLayout)
	}

	rows, err := r.db.QueryContext(ctx, query, userID, bound)
	if err != nil {
		return nil, fmt.Errorf("sum by category: %w", err)
	}
	defer rows.Close()

	var out []core.CategoryTotal
	for rows.Next() {
		var ct core.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		out = append(out, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category totals: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) SumAll(ctx context.Context, userID int64, kind core.Kind) (int64, error) {
	table := "expenses"
	if kind == core.Income {
		table = "income"
	}
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM `+table+` WHERE user_id = ?`,
		userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum %s: %w", table, err)
	}
	return total, nil
}

func (r *SQLiteRepository) Recent(ctx context.Context, userID int64, limit int) ([]core.Transaction, error) {
	// Income rows synthesize a midnight timestamp so both kinds merge on
	// one sortable column.
	rows, err := r.db.QueryContext(ctx,
		`SELECT 'E' AS kind, id, amount, category, timestamp AS at
			FROM expenses WHERE user_id = ?
		UNION ALL
		SELECT 'I', id, amount, category, date || ?
			FROM income WHERE user_id = ?
		ORDER BY at DESC, id DESC
		LIMIT ?`,
		userID, midnightSuffix, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			kind string
			tx   core.Transaction
			at   string
		)
		if err := rows.Scan(&kind, &tx.ID, &tx.Amount, &tx.Category, &at); err != nil {
			return nil, fmt.Errorf("scan recent row: %w", err)
		}
		tx.UserID = userID
		if kind == "I" {
			tx.Kind = core.Income
		} else {
			tx.Kind = core.Expense
		}
		tx.At, err = time.Parse(timestampLayout, at)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", at, err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent rows: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, userID int64, code core.RefCode) (core.Transaction, error) {
	// Single atomic statement; the user_id predicate makes foreign records
	// indistinguishable from absent ones.
	var query string
	if code.Kind == core.Income {
		query = `DELETE FROM income WHERE id = ? AND user_id = ?
			RETURNING id, amount, category, date || '` + midnightSuffix + `'`
	} else {
		query = `DELETE FROM expenses WHERE id = ? AND user_id = ?
			RETURNING id, amount, category, timestamp`
	}

	var (
		tx core.Transaction
		at string
	)
	err := r.db.QueryRowContext(ctx, query, code.ID, userID).
		Scan(&tx.ID, &tx.Amount, &tx.Category, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("delete %s: %w", code, err)
	}

	tx.UserID = userID
	tx.Kind = code.Kind
	tx.At, err = time.Parse(timestampLayout, at)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse timestamp %q: %w", at, err)
	}
	return tx, nil
}
