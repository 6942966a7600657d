package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/badalpradhan266/expense-tracker/internal/amqp"
	"github.com/badalpradhan266/expense-tracker/internal/backend"
	"github.com/badalpradhan266/expense-tracker/internal/cli"
	"github.com/badalpradhan266/expense-tracker/internal/services"
	"github.com/badalpradhan266/expense-tracker/internal/shell"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	cfg := cli.LoadAndValidateConfig(logger)

	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(context.Background(), backend.Config{
		Type:         backend.BackendType(cfg.DataBackend),
		DataFile:     cfg.DataFile,
		SQLiteDBPath: cfg.SQLiteDBPath,
	})
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	// AMQP is optional; without it expenses simply stay local
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without event publishing", "error", err)
		} else {
			logger.Info("AMQP client initialized",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	svc := services.NewExpenseService(result.Repository, amqpClient)
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error("Cleanup failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting expense tracker", "backend", cfg.DataBackend)
	if err := shell.New(svc, os.Stdin, os.Stdout).Run(ctx); err != nil && err != context.Canceled {
		logger.Error("Shell error", "error", err)
		os.Exit(1)
	}
}
