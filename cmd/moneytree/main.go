package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"moneytree/internal/amqp"
	"moneytree/internal/config"
	apphttp "moneytree/internal/http"
	"moneytree/internal/ledger"
	"moneytree/internal/log"
	"moneytree/internal/ocr"
	"moneytree/internal/services"
	"moneytree/internal/storage"
)

func main() {
	// .env is for local development; absent in containers.
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	store, err := storage.NewSnapshotStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("failed to open snapshot store", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	startCtx := context.Background()
	state, found, err := store.Load(startCtx)
	if err != nil {
		logger.Error("failed to load snapshot", log.FieldError, err)
		os.Exit(1)
	}

	var book *ledger.Ledger
	if found {
		book = ledger.NewFromState(state, store)
		logger.Info("ledger restored",
			"transactions", len(state.Transactions),
			"accounts", len(state.Accounts))
	} else {
		book = ledger.New(store)
		if cfg.DefaultCurrency != "" {
			if _, err := book.SetDefaultCurrency(startCtx, cfg.DefaultCurrency); err != nil {
				logger.Warn("invalid seed currency, keeping default", log.FieldCurrency, cfg.DefaultCurrency)
			}
		}
		logger.Info("fresh ledger seeded", log.FieldCurrency, cfg.DefaultCurrency)
	}

	// The sync queue is optional: without a broker the ledger still works,
	// it just stops mirroring to the spreadsheet.
	var publisher services.SyncPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("failed to connect to broker", log.FieldError, err)
			os.Exit(1)
		}
		publisher = client
		logger.Info("sync queue connected", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("sync queue disabled, no AMQP_URL provided")
	}

	txs := services.NewTransactionService(book, publisher, logger)
	defer txs.Close()

	manager := ocr.NewManager(func(ctx context.Context) (ocr.Engine, error) {
		model := cfg.GeminiModel
		if model == "" {
			model = ocr.DefaultModel
		}
		return ocr.NewGeminiEngine(ctx, model)
	})
	scanner := services.NewScanService(manager, logger)

	srv := apphttp.NewServer(cfg, book, txs, scanner, logger)

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", log.FieldError, err)
		}
		if err := scanner.Shutdown(); err != nil {
			logger.Error("recognition shutdown error", log.FieldError, err)
		}
	}()

	logger.Info("starting server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-shutdownDone
	logger.Info("server stopped")
}
