// Package store implements the JSON-file expense repository, the default
// backend of the tracker. The whole sequence is kept in memory and rewritten
// to disk on every mutation; the file is the single source of truth on start.
package store

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/badalpradhan266/expense-tracker/internal/core"
)

type Store struct {
	mu     sync.Mutex
	path   string
	nextID int64
	items  []core.Expense
}

// Open loads the store from path. A missing, unreadable or malformed file is
// recovered silently as an empty store; a warning is logged but no error is
// surfaced.
func Open(path string) *Store {
	s := &Store{path: path, nextID: 1}
	s.load()
	return s
}

// Add assigns the next id to the expense, appends it and persists the store.
func (s *Store) Add(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.nextID
	s.nextID++
	s.items = append(s.items, e)

	if err := s.persist(); err != nil {
		return core.Expense{}, err
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"category", e.Category,
		"amount_cents", e.Amount.Cents,
		"date", e.Date.String())

	return e, nil
}

// Delete removes the first expense with the given id and persists the store.
// Returns core.ErrNotFound when no expense carries that id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.items {
		if e.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			if err := s.persist(); err != nil {
				return err
			}
			slog.InfoContext(ctx, "Expense deleted", "id", id)
			return nil
		}
	}
	return core.ErrNotFound
}

// List returns the expenses matching the filter, sorted by date descending.
// Ties keep insertion order.
func (s *Store) List(_ context.Context, f core.Filter) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Expense
	for _, e := range s.items {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

// Total sums the amounts of the expenses matching the filter.
func (s *Store) Total(ctx context.Context, f core.Filter) (core.Money, error) {
	expenses, err := s.List(ctx, f)
	if err != nil {
		return core.Money{}, err
	}
	var sum core.Money
	for _, e := range expenses {
		sum = sum.Add(e.Amount)
	}
	return sum, nil
}

// Report aggregates amounts per category over the date range (no category
// filter applies), ordered by descending total, ties by category name.
func (s *Store) Report(ctx context.Context, from, to core.Date) (core.Report, error) {
	expenses, err := s.List(ctx, core.Filter{From: from, To: to})
	if err != nil {
		return nil, err
	}

	sums := make(map[string]core.Money)
	for _, e := range expenses {
		sums[e.Category] = sums[e.Category].Add(e.Amount)
	}

	report := make(core.Report, 0, len(sums))
	for category, total := range sums {
		report = append(report, core.CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(report, func(i, j int) bool {
		if report[i].Total.Cents != report[j].Total.Cents {
			return report[i].Total.Cents > report[j].Total.Cents
		}
		return report[i].Category < report[j].Category
	})
	return report, nil
}

// Categories returns the distinct normalized categories currently present,
// sorted alphabetically.
func (s *Store) Categories(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := map[string]struct{}{}
	var out []string
	for _, e := range s.items {
		c := strings.TrimSpace(e.Category)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

// Close is a no-op; the store holds no open resources between operations.
func (s *Store) Close() error {
	return nil
}
