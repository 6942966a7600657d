package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const dateLayout = "2006-01-02"

type (
	// Date is a calendar date with day precision. The zero value means "unset"
	// and is used for optional filter bounds.
	Date struct {
		time.Time
	}

	// Money is an exact amount in cents.
	Money struct {
		Cents int64
	}

	// Expense is a single tracked transaction.
	Expense struct {
		ID          int64
		Amount      Money
		Category    string
		Description string
		Date        Date
	}

	// Filter combines the optional predicates applied when listing expenses.
	// Category matches case-insensitively against the normalized category;
	// From and To are inclusive bounds, each ignored when zero.
	Filter struct {
		Category string
		From     Date
		To       Date
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyCategory = errors.New("empty category")
	ErrNotFound      = errors.New("expense not found")
)

// ParseDate parses an ISO YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current date.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// Before reports whether d falls on an earlier day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d falls on a later day than other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// NormalizeCategory trims the label and capitalizes it: first rune upper,
// remainder lower, so " food ", "FOOD" and "food" all become "Food".
func NormalizeCategory(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}

// NormalizeDescription trims surrounding whitespace.
func NormalizeDescription(s string) string {
	return strings.TrimSpace(s)
}

// NewExpense builds an unsaved expense from raw user input. The amount must be
// a non-negative decimal, the date an ISO YYYY-MM-DD string or empty for today.
// The returned expense has no ID; the repository assigns one on Add.
func NewExpense(amount, category, description, date string) (Expense, error) {
	m, err := ParseAmount(amount)
	if err != nil {
		return Expense{}, err
	}

	var d Date
	if strings.TrimSpace(date) == "" {
		d = Today()
	} else {
		d, err = ParseDate(date)
		if err != nil {
			return Expense{}, err
		}
	}

	e := Expense{
		Amount:      m,
		Category:    NormalizeCategory(category),
		Description: NormalizeDescription(description),
		Date:        d,
	}
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	return e, nil
}

func (e Expense) Validate() error {
	if e.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// Matches reports whether the expense satisfies every predicate of the filter.
func (f Filter) Matches(e Expense) bool {
	if f.Category != "" && !strings.EqualFold(f.Category, e.Category) {
		return false
	}
	if !f.From.IsZero() && e.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && e.Date.After(f.To) {
		return false
	}
	return true
}
