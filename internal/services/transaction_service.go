// Package services orchestrates ledger mutations with the sync queue and
// the recognition pipeline.
package services

import (
	"context"
	"fmt"

	"moneytree/internal/core"
	"moneytree/internal/ledger"
	"moneytree/internal/log"
)

// SyncPublisher mirrors ledger mutations onto the sync queue. The AMQP
// client satisfies this; tests use a recorder.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, tx core.Transaction) error
	PublishTransactionDelete(ctx context.Context, transactionID string) error
	Close() error
}

// TransactionService applies spending policy, records the transaction,
// and mirrors the mutation to the sync queue when one is configured.
type TransactionService struct {
	ledger    *ledger.Ledger
	publisher SyncPublisher
	logger    *log.Logger
}

func NewTransactionService(l *ledger.Ledger, publisher SyncPublisher, logger *log.Logger) *TransactionService {
	return &TransactionService{
		ledger:    l,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentLedger),
	}
}

// Create validates policy for the target account, records the
// transaction, and publishes a sync message. Publish failures are logged
// but do not fail the request: the ledger write already succeeded.
func (s *TransactionService) Create(ctx context.Context, in ledger.TransactionInput) (core.Transaction, error) {
	acc, ok := s.findAccount(in.AccountID)
	if !ok {
		return core.Transaction{}, ledger.ErrUnknownAccount
	}
	if err := ledger.CheckTransaction(acc, in.Type, in.Amount); err != nil {
		return core.Transaction{}, err
	}

	tx, err := s.ledger.AddTransaction(ctx, in)
	if err != nil {
		return core.Transaction{}, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishTransactionSync(ctx, tx); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish sync message",
				log.FieldOperation, log.OpCreate,
				log.FieldTxID, tx.ID, log.FieldError, err)
		}
	}
	return tx, nil
}

// Delete removes the transaction and publishes a delete message. Unknown
// ids are a no-op all the way through.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := s.ledger.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishTransactionDelete(ctx, id); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish delete message",
				log.FieldOperation, log.OpDelete,
				log.FieldTxID, id, log.FieldError, err)
		}
	}
	return nil
}

func (s *TransactionService) findAccount(id string) (core.Account, bool) {
	for _, acc := range s.ledger.Snapshot().Accounts {
		if acc.ID == id {
			return acc, true
		}
	}
	return core.Account{}, false
}

// Close releases the publisher connection.
func (s *TransactionService) Close() error {
	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.Close(); err != nil {
		return fmt.Errorf("close publisher: %w", err)
	}
	return nil
}
