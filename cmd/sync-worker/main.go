package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"moneytree/internal/amqp"
	"moneytree/internal/config"
	"moneytree/internal/log"
	"moneytree/internal/sheets"
	"moneytree/internal/sheets/google"
	"moneytree/internal/sheets/memory"
	"moneytree/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)
	logger.Info("starting sync worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the sync worker")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Without a spreadsheet id, exports land in an in-memory sink. Useful
	// for draining a queue locally without Google credentials.
	var exporter sheets.TransactionExporter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := google.NewClient(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName, logger)
		if err != nil {
			logger.Error("failed to initialize sheets client", log.FieldError, err)
			os.Exit(1)
		}
		exporter = client
		logger.Info("sheets export enabled",
			"spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	} else {
		exporter = memory.New()
		logger.Warn("no GOOGLE_SPREADSHEET_ID provided, exporting to memory sink")
	}

	// The broker may come up after the worker in compose setups.
	client, err := amqp.NewClientWithRetry(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger, 6)
	if err != nil {
		logger.Error("failed to connect to broker", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	syncWorker := worker.NewSyncWorker(exporter, logger)

	consumeDone := make(chan error, 1)
	go func() {
		consumeDone <- client.ConsumeTransactionSync(ctx, func(msg *amqp.TransactionSyncMessage) error {
			return syncWorker.HandleMessage(ctx, msg)
		})
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("shutdown signal received", "signal", sig.String())
		cancel()
		select {
		case <-consumeDone:
		case <-time.After(10 * time.Second):
			logger.Warn("shutdown timeout reached")
		}
	case err := <-consumeDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("message consumption failed", log.FieldError, err)
		}
	}
	logger.Info("sync worker stopped")
}
