package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/badalpradhan266/expense-tracker/internal/core"
)

type EventType string

const (
	ExpenseAdded   EventType = "expense.added"
	ExpenseDeleted EventType = "expense.deleted"
)

// ExpenseEvent describes a mutation of the primary store. Added events carry
// the full record so the mirror worker never has to read the publisher's file.
type ExpenseEvent struct {
	Type        EventType `json:"type"`
	ID          int64     `json:"id"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	Date        string    `json:"date,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewAddedEvent creates an event for a freshly stored expense.
func NewAddedEvent(e core.Expense) *ExpenseEvent {
	return &ExpenseEvent{
		Type:        ExpenseAdded,
		ID:          e.ID,
		AmountCents: e.Amount.Cents,
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date.String(),
		Timestamp:   time.Now(),
	}
}

// NewDeletedEvent creates an event for a removed expense.
func NewDeletedEvent(id int64) *ExpenseEvent {
	return &ExpenseEvent{
		Type:      ExpenseDeleted,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// Expense reconstructs the stored record from an added event.
func (ev *ExpenseEvent) Expense() (core.Expense, error) {
	date, err := core.ParseDate(ev.Date)
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense{
		ID:          ev.ID,
		Amount:      core.Money{Cents: ev.AmountCents},
		Category:    ev.Category,
		Description: ev.Description,
		Date:        date,
	}, nil
}

// ToJSON converts the event to JSON bytes.
func (ev *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(ev)
}

// EventFromJSON creates an event from JSON bytes.
func EventFromJSON(data []byte) (*ExpenseEvent, error) {
	var ev ExpenseEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	switch ev.Type {
	case ExpenseAdded, ExpenseDeleted:
	default:
		return nil, fmt.Errorf("unknown event type: %q", ev.Type)
	}
	return &ev, nil
}
