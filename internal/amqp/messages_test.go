package amqp

import (
	"testing"

	"github.com/badalpradhan266/expense-tracker/internal/core"
)

func TestAddedEventRoundTrip(t *testing.T) {
	d, _ := core.ParseDate("2024-01-15")
	e := core.Expense{
		ID:          3,
		Amount:      core.Money{Cents: 1250},
		Category:    "Food",
		Description: "Lunch",
		Date:        d,
	}

	data, err := NewAddedEvent(e).ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	ev, err := EventFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Type != ExpenseAdded {
		t.Fatalf("type: got %q", ev.Type)
	}

	back, err := ev.Expense()
	if err != nil {
		t.Fatalf("expense: %v", err)
	}
	if back != e {
		t.Fatalf("round trip mismatch: %+v vs %+v", back, e)
	}
}

func TestDeletedEventRoundTrip(t *testing.T) {
	data, err := NewDeletedEvent(9).ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	ev, err := EventFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Type != ExpenseDeleted || ev.ID != 9 {
		t.Fatalf("got %+v", ev)
	}
}

func TestEventFromJSONRejectsGarbage(t *testing.T) {
	if _, err := EventFromJSON([]byte("{not json")); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
	if _, err := EventFromJSON([]byte(`{"type":"something.else","id":1}`)); err == nil {
		t.Fatalf("expected error for unknown event type")
	}
}
