package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/badalpradhan266/expense-tracker/internal/core"
)

func testRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "expenses.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustAdd(t *testing.T, repo *SQLiteRepository, cents int64, category, description, date string) core.Expense {
	t.Helper()
	d, err := core.ParseDate(date)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	saved, err := repo.Add(context.Background(), core.Expense{
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Description: description,
		Date:        d,
	})
	if err != nil {
		t.Fatalf("add expense: %v", err)
	}
	return saved
}

func TestAddAssignsIncreasingIDs(t *testing.T) {
	repo := testRepo(t)

	a := mustAdd(t, repo, 100, "Food", "a", "2024-01-01")
	b := mustAdd(t, repo, 200, "Food", "b", "2024-01-02")
	if b.ID <= a.ID {
		t.Fatalf("ids not increasing: %d then %d", a.ID, b.ID)
	}

	// AUTOINCREMENT must not reuse a deleted id
	if err := repo.Delete(context.Background(), b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	c := mustAdd(t, repo, 300, "Food", "c", "2024-01-03")
	if c.ID <= b.ID {
		t.Fatalf("id %d reused after deleting %d", c.ID, b.ID)
	}
}

func TestDeleteNotFound(t *testing.T) {
	repo := testRepo(t)
	if err := repo.Delete(context.Background(), 42); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListFilterAndOrder(t *testing.T) {
	repo := testRepo(t)

	mustAdd(t, repo, 100, "Food", "old", "2024-01-01")
	mustAdd(t, repo, 200, "Food", "tie-first", "2024-02-01")
	mustAdd(t, repo, 300, "Transport", "tie-second", "2024-02-01")
	mustAdd(t, repo, 400, "Food", "outside", "2024-03-01")

	from, _ := core.ParseDate("2024-01-01")
	to, _ := core.ParseDate("2024-02-28")
	got, err := repo.List(context.Background(), core.Filter{From: from, To: to})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	wantOrder := []string{"tie-first", "tie-second", "old"}
	if len(got) != len(wantOrder) {
		t.Fatalf("got %d records, want %d", len(got), len(wantOrder))
	}
	for i, want := range wantOrder {
		if got[i].Description != want {
			t.Fatalf("position %d: got %q, want %q", i, got[i].Description, want)
		}
	}

	// Case-insensitive category match
	food, err := repo.List(context.Background(), core.Filter{Category: "FOOD"})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(food) != 3 {
		t.Fatalf("got %d Food records, want 3", len(food))
	}
}

func TestTotalAndReport(t *testing.T) {
	repo := testRepo(t)

	mustAdd(t, repo, 1000, "Food", "a", "2024-01-01")
	mustAdd(t, repo, 250, "Food", "b", "2024-01-05")
	mustAdd(t, repo, 500, "Transport", "c", "2024-01-10")

	total, err := repo.Total(context.Background(), core.Filter{})
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total.Cents != 1750 {
		t.Fatalf("total: got %d, want 1750", total.Cents)
	}

	report, err := repo.Report(context.Background(), core.Date{}, core.Date{})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	want := core.Report{
		{Category: "Food", Total: core.Money{Cents: 1250}},
		{Category: "Transport", Total: core.Money{Cents: 500}},
	}
	if len(report) != len(want) {
		t.Fatalf("got %d entries, want %d", len(report), len(want))
	}
	for i := range want {
		if report[i] != want[i] {
			t.Fatalf("entry %d: got %+v, want %+v", i, report[i], want[i])
		}
	}

	if report.GrandTotal() != total {
		t.Fatalf("grand total %v != total %v", report.GrandTotal(), total)
	}
}

func TestCategories(t *testing.T) {
	repo := testRepo(t)

	mustAdd(t, repo, 100, "Transport", "a", "2024-01-01")
	mustAdd(t, repo, 200, "Food", "b", "2024-01-02")
	mustAdd(t, repo, 300, "Food", "c", "2024-01-03")

	got, err := repo.Categories(context.Background())
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	want := []string{"Food", "Transport"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPutAndExists(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	d, _ := core.ParseDate("2024-01-15")
	e := core.Expense{
		ID:          7,
		Amount:      core.Money{Cents: 1250},
		Category:    "Food",
		Description: "Lunch",
		Date:        d,
	}

	if err := repo.Put(ctx, e); err != nil {
		t.Fatalf("put: %v", err)
	}
	ok, err := repo.Exists(ctx, 7)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !ok {
		t.Fatalf("expected id 7 to exist")
	}

	// Put under the same id replaces the record
	e.Description = "Dinner"
	if err := repo.Put(ctx, e); err != nil {
		t.Fatalf("put again: %v", err)
	}
	got, err := repo.List(ctx, core.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Description != "Dinner" {
		t.Fatalf("unexpected records: %+v", got)
	}

	if err := repo.Put(ctx, core.Expense{Amount: core.Money{Cents: 1}, Category: "X", Date: d}); err == nil {
		t.Fatalf("expected error for missing id")
	}
}

func TestReconcile(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	d1, _ := core.ParseDate("2024-01-01")
	d2, _ := core.ParseDate("2024-01-02")
	primary := []core.Expense{
		{ID: 1, Amount: core.Money{Cents: 100}, Category: "Food", Date: d1},
		{ID: 2, Amount: core.Money{Cents: 200}, Category: "Transport", Date: d2},
	}

	applied, err := repo.Reconcile(ctx, primary)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if applied != 2 {
		t.Fatalf("got %d changes, want 2", applied)
	}

	// Second pass is a no-op
	applied, err = repo.Reconcile(ctx, primary)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if applied != 0 {
		t.Fatalf("got %d changes, want 0", applied)
	}

	// A record dropped from the primary is removed from the archive
	applied, err = repo.Reconcile(ctx, primary[:1])
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if applied != 1 {
		t.Fatalf("got %d changes, want 1", applied)
	}
	ok, err := repo.Exists(ctx, 2)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if ok {
		t.Fatalf("stale record not removed")
	}
}
