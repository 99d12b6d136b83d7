// Package worker processes transaction sync messages and mirrors them
// onto the configured spreadsheet exporter.
package worker

import (
	"context"
	"fmt"

	"moneytree/internal/amqp"
	"moneytree/internal/log"
	"moneytree/internal/sheets"
)

// SyncWorker applies queued ledger mutations to the export target.
type SyncWorker struct {
	exporter sheets.TransactionExporter
	logger   *log.Logger
}

func NewSyncWorker(exporter sheets.TransactionExporter, logger *log.Logger) *SyncWorker {
	return &SyncWorker{
		exporter: exporter,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// HandleMessage dispatches a sync message to the exporter. Returning an
// error makes the consumer nack and requeue the delivery.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	switch msg.Action {
	case amqp.ActionUpsert:
		return w.handleUpsert(ctx, msg)
	case amqp.ActionDelete:
		return w.handleDelete(ctx, msg)
	default:
		// Validation upstream should make this unreachable.
		return fmt.Errorf("unknown sync action %q", msg.Action)
	}
}

func (w *SyncWorker) handleUpsert(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	if msg.Transaction == nil {
		return fmt.Errorf("upsert message %s has no transaction payload", msg.TransactionID)
	}

	ref, err := w.exporter.Append(ctx, *msg.Transaction)
	if err != nil {
		return fmt.Errorf("append transaction %s: %w", msg.TransactionID, err)
	}

	w.logger.InfoContext(ctx, "synced transaction",
		log.FieldOperation, log.OpSync,
		log.FieldTxID, msg.TransactionID,
		log.FieldSheetsRef, ref,
		log.FieldAmountCents, msg.Transaction.Amount.Cents)
	return nil
}

func (w *SyncWorker) handleDelete(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	if err := w.exporter.Delete(ctx, msg.TransactionID); err != nil {
		return fmt.Errorf("delete transaction %s: %w", msg.TransactionID, err)
	}

	w.logger.InfoContext(ctx, "removed synced transaction",
		log.FieldOperation, log.OpDelete,
		log.FieldTxID, msg.TransactionID)
	return nil
}
