package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/badalpradhan266/expense-tracker/internal/core"
)

// record is the on-disk shape of an expense: id integer, amount a 2-decimal
// number, category/description/date strings.
type record struct {
	ID          int64   `json:"id"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

// document wraps the records with the monotonic id counter. Earlier versions
// of the tool persisted a bare array and derived ids from the sequence length,
// which reuses ids after deletions; the counter closes that hole.
type document struct {
	NextID   int64    `json:"next_id"`
	Expenses []record `json:"expenses"`
}

// load reads the persisted document. It accepts both the current envelope and
// a legacy bare array, recovering the counter as max(id)+1 in the latter case.
// Any failure leaves the store empty.
func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Could not read expenses file, starting empty", "path", s.path, "error", err)
		}
		return
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		var legacy []record
		if err := json.Unmarshal(data, &legacy); err != nil {
			slog.Warn("Malformed expenses file, starting empty", "path", s.path, "error", err)
			return
		}
		doc.Expenses = legacy
	}

	var maxID int64
	for _, r := range doc.Expenses {
		e, err := r.toExpense()
		if err != nil {
			slog.Warn("Skipping invalid record", "id", r.ID, "error", err)
			continue
		}
		s.items = append(s.items, e)
		if r.ID > maxID {
			maxID = r.ID
		}
	}

	s.nextID = maxID + 1
	if doc.NextID > s.nextID {
		s.nextID = doc.NextID
	}
}

// persist rewrites the whole document. Callers hold s.mu. No atomicity is
// guaranteed; a crash mid-write can truncate the file.
func (s *Store) persist() error {
	records := make([]record, len(s.items))
	for i, e := range s.items {
		records[i] = toRecord(e)
	}

	data, err := json.MarshalIndent(document{NextID: s.nextID, Expenses: records}, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal expenses: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write expenses file: %w", err)
	}
	return nil
}

func toRecord(e core.Expense) record {
	return record{
		ID:          e.ID,
		Amount:      e.Amount.Float(),
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date.String(),
	}
}

func (r record) toExpense() (core.Expense, error) {
	date, err := core.ParseDate(r.Date)
	if err != nil {
		return core.Expense{}, err
	}
	e := core.Expense{
		ID:          r.ID,
		Amount:      core.MoneyFromFloat(r.Amount),
		Category:    r.Category,
		Description: r.Description,
		Date:        date,
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}
