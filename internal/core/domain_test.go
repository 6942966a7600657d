package core

import (
	"errors"
	"testing"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-01-15", true},
		{" 2024-01-15 ", true},
		{"2024-12-31", true},
		{"2024-13-01", false},
		{"2024-02-30", false},
		{"15-01-2024", false},
		{"not-a-date", false},
		{"", false},
	}
	for i, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("case %d expected error", i)
			}
			if !errors.Is(err, ErrInvalidDate) {
				t.Fatalf("case %d expected ErrInvalidDate, got %v", i, err)
			}
			continue
		}
		if d.IsZero() {
			t.Fatalf("case %d parsed date is zero", i)
		}
	}
}

func TestDateOrdering(t *testing.T) {
	a := NewDate(2024, 1, 1)
	b := NewDate(2024, 2, 1)
	if !a.Before(b) || !b.After(a) {
		t.Fatalf("expected %s before %s", a, b)
	}
	if a.Before(a) || a.After(a) {
		t.Fatalf("a date must not order before or after itself")
	}
}

func TestNormalizeCategory(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{" food ", "Food"},
		{"FOOD", "Food"},
		{"food", "Food"},
		{"transPort", "Transport"},
		{"  ", ""},
		{"", ""},
	}
	for i, tc := range cases {
		if got := NormalizeCategory(tc.in); got != tc.want {
			t.Fatalf("case %d: got %q, want %q", i, got, tc.want)
		}
	}
}

func TestNewExpense(t *testing.T) {
	e, err := NewExpense("12.5", " food ", " Lunch ", "2024-01-15")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if e.Amount.Cents != 1250 {
		t.Fatalf("amount: got %d cents, want 1250", e.Amount.Cents)
	}
	if e.Category != "Food" {
		t.Fatalf("category: got %q, want Food", e.Category)
	}
	if e.Description != "Lunch" {
		t.Fatalf("description: got %q, want Lunch", e.Description)
	}
	if e.Date.String() != "2024-01-15" {
		t.Fatalf("date: got %s", e.Date)
	}
	if e.ID != 0 {
		t.Fatalf("id must be unassigned, got %d", e.ID)
	}
}

func TestNewExpenseDefaultsDateToToday(t *testing.T) {
	e, err := NewExpense("1", "misc", "x", "")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if e.Date.String() != Today().String() {
		t.Fatalf("got %s, want today %s", e.Date, Today())
	}
}

func TestNewExpenseRejectsBadInput(t *testing.T) {
	cases := []struct {
		amount, category, date string
		want                   error
	}{
		{"abc", "food", "2024-01-01", ErrInvalidAmount},
		{"-5", "food", "2024-01-01", ErrInvalidAmount},
		{"5", "food", "2024-99-01", ErrInvalidDate},
		{"5", "  ", "2024-01-01", ErrEmptyCategory},
	}
	for i, tc := range cases {
		_, err := NewExpense(tc.amount, tc.category, "x", tc.date)
		if !errors.Is(err, tc.want) {
			t.Fatalf("case %d: got %v, want %v", i, err, tc.want)
		}
	}
}

func TestFilterMatches(t *testing.T) {
	e := Expense{
		Amount:   Money{Cents: 100},
		Category: "Food",
		Date:     NewDate(2024, 1, 15),
	}

	cases := []struct {
		f    Filter
		want bool
	}{
		{Filter{}, true},
		{Filter{Category: "Food"}, true},
		{Filter{Category: "FOOD"}, true},
		{Filter{Category: "Transport"}, false},
		{Filter{From: NewDate(2024, 1, 1)}, true},
		{Filter{From: NewDate(2024, 1, 15)}, true},
		{Filter{From: NewDate(2024, 1, 16)}, false},
		{Filter{To: NewDate(2024, 1, 15)}, true},
		{Filter{To: NewDate(2024, 1, 14)}, false},
		{Filter{From: NewDate(2024, 1, 1), To: NewDate(2024, 1, 31)}, true},
		{Filter{Category: "food", From: NewDate(2024, 2, 1)}, false},
	}
	for i, tc := range cases {
		if got := tc.f.Matches(e); got != tc.want {
			t.Fatalf("case %d: got %v, want %v", i, got, tc.want)
		}
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, 3, 7)
	data, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2024-03-07"` {
		t.Fatalf("got %s", data)
	}
	var back Date
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.String() != d.String() {
		t.Fatalf("round trip mismatch: %s vs %s", back, d)
	}
}
