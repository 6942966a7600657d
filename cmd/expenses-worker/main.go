package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/badalpradhan266/expense-tracker/internal/amqp"
	"github.com/badalpradhan266/expense-tracker/internal/cli"
	"github.com/badalpradhan266/expense-tracker/internal/core"
	"github.com/badalpradhan266/expense-tracker/internal/storage"
	"github.com/badalpradhan266/expense-tracker/internal/store"
)

// The worker mirrors the primary JSON store into the SQLite archive: it
// consumes add/delete events from AMQP and periodically reconciles the whole
// sequence to recover from lost messages.
func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting expenses-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	archive := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer archive.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Startup reconcile recovers anything missed while the worker was down
	if n, err := reconcile(ctx, cfg.DataFile, archive); err != nil {
		logger.Error("Startup reconcile failed", "error", err)
	} else if n > 0 {
		logger.Info("Startup reconcile applied changes", "changes", n)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeEvents(ctx, func(ev *amqp.ExpenseEvent) error {
			return applyEvent(ctx, archive, ev)
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.ReconcileInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if _, err := reconcile(ctx, cfg.DataFile, archive); err != nil {
					logger.Error("Periodic reconcile failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}

// applyEvent applies a single mutation event to the archive. A delete for an
// id the archive never saw is not an error.
func applyEvent(ctx context.Context, archive *storage.SQLiteRepository, ev *amqp.ExpenseEvent) error {
	switch ev.Type {
	case amqp.ExpenseAdded:
		e, err := ev.Expense()
		if err != nil {
			return err
		}
		return archive.Put(ctx, e)
	case amqp.ExpenseDeleted:
		err := archive.Delete(ctx, ev.ID)
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return err
	default:
		return nil
	}
}

// reconcile re-reads the primary file and mirrors it into the archive. The
// file is reopened every pass because the tracker process owns and rewrites it.
func reconcile(ctx context.Context, dataFile string, archive *storage.SQLiteRepository) (int, error) {
	primary := store.Open(dataFile)
	expenses, err := primary.List(ctx, core.Filter{})
	if err != nil {
		return 0, err
	}
	return archive.Reconcile(ctx, expenses)
}
