// Package storage implements the SQLite expense repository. It backs the
// sqlite data backend and serves as the archive target of the mirror worker.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/badalpradhan266/expense-tracker/internal/core"

	_ "modernc.org/sqlite"
)

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

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Add inserts the expense and returns it with the assigned id. AUTOINCREMENT
// guarantees ids are never reused, even after deletions.
func (r *SQLiteRepository) Add(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (amount_cents, category, description, spent_on) VALUES (?, ?, ?, ?)`,
		e.Amount.Cents, e.Category, e.Description, e.Date.String())
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("last insert id: %w", err)
	}
	e.ID = id

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", e.ID,
		"category", e.Category,
		"amount_cents", e.Amount.Cents,
		"date", e.Date.String())

	return e, nil
}

// Delete removes the expense with the given id; core.ErrNotFound when absent.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Expense deleted from SQLite", "id", id)
	return nil
}

// List returns the expenses matching the filter, newest date first, ties in
// insertion order.
func (r *SQLiteRepository) List(ctx context.Context, f core.Filter) ([]core.Expense, error) {
	query := `SELECT id, amount_cents, category, description, spent_on FROM expenses`
	where, args := filterClauses(f)
	query += where + ` ORDER BY spent_on DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var (
			e       core.Expense
			spentOn string
		)
		if err := rows.Scan(&e.ID, &e.Amount.Cents, &e.Category, &e.Description, &spentOn); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Date, err = core.ParseDate(spentOn)
		if err != nil {
			return nil, fmt.Errorf("parse stored date: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

// Total sums amount_cents over the filtered rows.
func (r *SQLiteRepository) Total(ctx context.Context, f core.Filter) (core.Money, error) {
	query := `SELECT COALESCE(SUM(amount_cents), 0) FROM expenses`
	where, args := filterClauses(f)
	query += where

	var cents int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&cents); err != nil {
		return core.Money{}, fmt.Errorf("sum expenses: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// Report aggregates per-category sums over the date range, largest first.
func (r *SQLiteRepository) Report(ctx context.Context, from, to core.Date) (core.Report, error) {
	query := `SELECT category, SUM(amount_cents) AS total FROM expenses`
	where, args := filterClauses(core.Filter{From: from, To: to})
	query += where + ` GROUP BY category ORDER BY total DESC, category ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query category sums: %w", err)
	}
	defer rows.Close()

	var report core.Report
	for rows.Next() {
		var ct core.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan category sum: %w", err)
		}
		report = append(report, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category sums: %w", err)
	}
	return report, nil
}

// Categories returns the distinct categories present, sorted alphabetically.
func (r *SQLiteRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT category FROM expenses ORDER BY category ASC`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

// Put writes the expense under its existing id, inserting or replacing.
// Used by the mirror worker, where ids are assigned by the primary store.
func (r *SQLiteRepository) Put(ctx context.Context, e core.Expense) error {
	if e.ID == 0 {
		return fmt.Errorf("put expense: missing id")
	}
	if err := e.Validate(); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, amount_cents, category, description, spent_on) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   amount_cents = excluded.amount_cents,
		   category = excluded.category,
		   description = excluded.description,
		   spent_on = excluded.spent_on`,
		e.ID, e.Amount.Cents, e.Category, e.Description, e.Date.String())
	if err != nil {
		return fmt.Errorf("put expense: %w", err)
	}
	return nil
}

// Exists reports whether an expense with the given id is stored.
func (r *SQLiteRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM expenses WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check expense: %w", err)
	}
	return true, nil
}

// Reconcile makes the archive mirror the given primary sequence: records
// missing from the archive are inserted, records no longer present in the
// primary are removed. Returns the number of applied changes.
func (r *SQLiteRepository) Reconcile(ctx context.Context, primary []core.Expense) (int, error) {
	known := make(map[int64]struct{}, len(primary))
	applied := 0

	for _, e := range primary {
		known[e.ID] = struct{}{}
		exists, err := r.Exists(ctx, e.ID)
		if err != nil {
			return applied, err
		}
		if exists {
			continue
		}
		if err := r.Put(ctx, e); err != nil {
			return applied, err
		}
		applied++
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id FROM expenses`)
	if err != nil {
		return applied, fmt.Errorf("query archive ids: %w", err)
	}
	defer rows.Close()

	var stale []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return applied, fmt.Errorf("scan archive id: %w", err)
		}
		if _, ok := known[id]; !ok {
			stale = append(stale, id)
		}
	}
	if err := rows.Err(); err != nil {
		return applied, fmt.Errorf("iterate archive ids: %w", err)
	}

	for _, id := range stale {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
			return applied, fmt.Errorf("delete stale expense: %w", err)
		}
		applied++
	}

	if applied > 0 {
		slog.InfoContext(ctx, "Archive reconciled", "changes", applied)
	}
	return applied, nil
}

// filterClauses builds the WHERE fragment for a filter. Category matching is
// case-insensitive on the normalized label; date bounds are inclusive and rely
// on the fixed-width ISO format sorting lexically.
func filterClauses(f core.Filter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if f.Category != "" {
		clauses = append(clauses, `category = ? COLLATE NOCASE`)
		args = append(args, f.Category)
	}
	if !f.From.IsZero() {
		clauses = append(clauses, `spent_on >= ?`)
		args = append(args, f.From.String())
	}
	if !f.To.IsZero() {
		clauses = append(clauses, `spent_on <= ?`)
		args = append(args, f.To.String())
	}
	if len(clauses) == 0 {
		return "", nil
	}
	where := " WHERE " + clauses[0]
	for _, c := range clauses[1:] {
		where += " AND " + c
	}
	return where, args
}
