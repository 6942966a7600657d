// Package shell implements the interactive text menu that drives the expense
// service. It is a thin boundary: it reads line-based input, invokes the
// corresponding operation and formats the result; operation failures are
// reported as user-facing messages and the loop continues.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/badalpradhan266/expense-tracker/internal/core"
	"github.com/badalpradhan266/expense-tracker/internal/services"
)

const menu = `
--- Expense Tracker Menu ---
1. Add Expense
2. View All Expenses
3. View Expenses by Category
4. View Expenses by Date Range
5. Generate Expense Report
6. Calculate Total Expenses
7. Delete Expense
8. Exit
`

// errQuit signals a requested or forced (EOF) shell exit.
var errQuit = errors.New("quit")

type Shell struct {
	svc *services.ExpenseService
	in  *bufio.Scanner
	out io.Writer
}

func New(svc *services.ExpenseService, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		svc: svc,
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// Run drives the menu loop until the user chooses Exit, input ends, or the
// context is cancelled. Every operation error is reported and swallowed.
func (s *Shell) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprint(s.out, menu)
		choice, err := s.prompt("Enter your choice (1-8): ")
		if err != nil {
			return nil
		}

		if err := s.dispatch(ctx, choice); err != nil {
			if errors.Is(err, errQuit) {
				fmt.Fprintln(s.out, "Thank you for using Expense Tracker. Goodbye!")
				return nil
			}
			s.report(ctx, err)
		}
	}
}

func (s *Shell) dispatch(ctx context.Context, choice string) error {
	switch strings.TrimSpace(choice) {
	case "1":
		return s.handleAdd(ctx)
	case "2":
		return s.handleViewAll(ctx)
	case "3":
		return s.handleViewByCategory(ctx)
	case "4":
		return s.handleViewByDateRange(ctx)
	case "5":
		return s.handleReport(ctx)
	case "6":
		return s.handleTotal(ctx)
	case "7":
		return s.handleDelete(ctx)
	case "8":
		return errQuit
	default:
		fmt.Fprintln(s.out, "Invalid choice. Please try again.")
		return nil
	}
}

// report turns an operation error into a user-facing message. Parse errors and
// not-found get specific wording; anything else a generic one. The process is
// never terminated from here.
func (s *Shell) report(ctx context.Context, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, strconv.ErrSyntax):
		fmt.Fprintf(s.out, "Error: %v. Please enter valid input.\n", err)
	case errors.Is(err, core.ErrNotFound):
		fmt.Fprintln(s.out, "No expense found with that ID.")
	default:
		slog.ErrorContext(ctx, "Shell operation failed", "error", err)
		fmt.Fprintf(s.out, "An unexpected error occurred: %v\n", err)
	}
}

func (s *Shell) handleAdd(ctx context.Context) error {
	amount, err := s.prompt("Enter expense amount: ")
	if err != nil {
		return errQuit
	}
	category, err := s.prompt("Enter expense category: ")
	if err != nil {
		return errQuit
	}
	description, err := s.prompt("Enter expense description: ")
	if err != nil {
		return errQuit
	}
	date, err := s.prompt("Enter date (YYYY-MM-DD) or press Enter for today: ")
	if err != nil {
		return errQuit
	}

	e, err := core.NewExpense(amount, category, description, date)
	if err != nil {
		return err
	}

	saved, err := s.svc.CreateExpense(ctx, e)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Expense of $%s in %s added successfully!\n", saved.Amount, saved.Category)
	return nil
}

func (s *Shell) handleViewAll(ctx context.Context) error {
	expenses, err := s.svc.ListExpenses(ctx, core.Filter{})
	if err != nil {
		return err
	}
	s.printExpenses(expenses)
	return nil
}

func (s *Shell) handleViewByCategory(ctx context.Context) error {
	category, err := s.prompt("Enter category to filter: ")
	if err != nil {
		return errQuit
	}
	expenses, err := s.svc.ListExpenses(ctx, core.Filter{Category: strings.TrimSpace(category)})
	if err != nil {
		return err
	}
	s.printExpenses(expenses)
	return nil
}

func (s *Shell) handleViewByDateRange(ctx context.Context) error {
	from, to, err := s.promptDateRange(false)
	if err != nil {
		return err
	}
	expenses, err := s.svc.ListExpenses(ctx, core.Filter{From: from, To: to})
	if err != nil {
		return err
	}
	s.printExpenses(expenses)
	return nil
}

func (s *Shell) handleReport(ctx context.Context) error {
	from, to, err := s.promptDateRange(true)
	if err != nil {
		return err
	}
	report, err := s.svc.Report(ctx, from, to)
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out, "\n--- Expense Report ---")
	if len(report) == 0 {
		fmt.Fprintln(s.out, "No expenses found.")
		return nil
	}
	for _, ct := range report {
		fmt.Fprintf(s.out, "%s: $%s\n", ct.Category, ct.Total)
	}
	return nil
}

func (s *Shell) handleTotal(ctx context.Context) error {
	category, err := s.prompt("Enter category (or press Enter for all): ")
	if err != nil {
		return errQuit
	}
	from, to, err := s.promptDateRange(true)
	if err != nil {
		return err
	}

	total, err := s.svc.Total(ctx, core.Filter{
		Category: strings.TrimSpace(category),
		From:     from,
		To:       to,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "\nTotal Expenses: $%s\n", total)
	return nil
}

func (s *Shell) handleDelete(ctx context.Context) error {
	input, err := s.prompt("Enter expense ID to delete: ")
	if err != nil {
		return errQuit
	}
	id, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid expense ID %q: %w", strings.TrimSpace(input), strconv.ErrSyntax)
	}

	if err := s.svc.DeleteExpense(ctx, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			fmt.Fprintf(s.out, "No expense found with ID %d\n", id)
			return nil
		}
		return err
	}

	fmt.Fprintf(s.out, "Expense with ID %d deleted successfully!\n", id)
	return nil
}

// promptDateRange reads the optional or required start/end bounds. Empty input
// means unbounded when optional is true.
func (s *Shell) promptDateRange(optional bool) (core.Date, core.Date, error) {
	suffix := ""
	if optional {
		suffix = " or press Enter"
	}

	fromRaw, err := s.prompt(fmt.Sprintf("Enter start date (YYYY-MM-DD)%s: ", suffix))
	if err != nil {
		return core.Date{}, core.Date{}, errQuit
	}
	toRaw, err := s.prompt(fmt.Sprintf("Enter end date (YYYY-MM-DD)%s: ", suffix))
	if err != nil {
		return core.Date{}, core.Date{}, errQuit
	}

	var from, to core.Date
	if strings.TrimSpace(fromRaw) != "" {
		from, err = core.ParseDate(fromRaw)
		if err != nil {
			return core.Date{}, core.Date{}, err
		}
	}
	if strings.TrimSpace(toRaw) != "" {
		to, err = core.ParseDate(toRaw)
		if err != nil {
			return core.Date{}, core.Date{}, err
		}
	}
	return from, to, nil
}

func (s *Shell) printExpenses(expenses []core.Expense) {
	if len(expenses) == 0 {
		fmt.Fprintln(s.out, "No expenses found.")
		return
	}

	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tAMOUNT\tCATEGORY\tDESCRIPTION\tDATE")
	for _, e := range expenses {
		fmt.Fprintf(w, "%d\t$%s\t%s\t%s\t%s\n", e.ID, e.Amount, e.Category, e.Description, e.Date)
	}
	w.Flush()
}

// prompt prints the label and reads one line. Returns an error at EOF.
func (s *Shell) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.in.Text(), nil
}
