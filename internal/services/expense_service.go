package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/badalpradhan266/expense-tracker/internal/amqp"
	"github.com/badalpradhan266/expense-tracker/internal/backend"
	"github.com/badalpradhan266/expense-tracker/internal/core"
)

// ExpenseService orchestrates expense operations across the local repository
// and the optional AMQP event pipeline.
type ExpenseService struct {
	repo       backend.Repository
	amqpClient *amqp.Client
}

func NewExpenseService(repo backend.Repository, amqpClient *amqp.Client) *ExpenseService {
	return &ExpenseService{
		repo:       repo,
		amqpClient: amqpClient,
	}
}

// CreateExpense saves an expense locally and publishes an added event.
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	// Save locally first (fast, reliable)
	saved, err := s.repo.Add(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	// Publish async event (non-blocking for the caller's outcome)
	if err := s.publishEvent(ctx, amqp.NewAddedEvent(saved)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish added event",
			"id", saved.ID, "error", err)
		// Don't fail the request - the expense is saved locally
	}

	return saved, nil
}

// DeleteExpense deletes an expense locally and publishes a deleted event.
// Returns core.ErrNotFound unchanged so the caller can report it.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.publishEvent(ctx, amqp.NewDeletedEvent(id)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish deleted event",
			"id", id, "error", err)
		// Don't fail the request - the expense is deleted locally
	}

	return nil
}

// ListExpenses returns the filtered expenses, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, f core.Filter) ([]core.Expense, error) {
	return s.repo.List(ctx, f)
}

// Total sums the filtered expenses.
func (s *ExpenseService) Total(ctx context.Context, f core.Filter) (core.Money, error) {
	return s.repo.Total(ctx, f)
}

// Report aggregates per-category totals over the date range.
func (s *ExpenseService) Report(ctx context.Context, from, to core.Date) (core.Report, error) {
	return s.repo.Report(ctx, from, to)
}

// Categories returns the known categories.
func (s *ExpenseService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

func (s *ExpenseService) publishEvent(ctx context.Context, ev *amqp.ExpenseEvent) error {
	if s.amqpClient == nil {
		return nil
	}
	return s.amqpClient.PublishEvent(ctx, ev)
}

// Close closes both the repository and the AMQP connection.
func (s *ExpenseService) Close() error {
	var errs []error

	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("repository: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %v", errs)
	}

	return nil
}
