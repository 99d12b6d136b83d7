package sheets

import (
	"context"

	"moneytree/internal/core"
)

// Ports for outbound spreadsheet adapters.
type (
	// TransactionWriter appends a transaction row to the export target.
	TransactionWriter interface {
		Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
	}

	// TransactionDeleter removes a previously exported row by transaction id.
	TransactionDeleter interface {
		Delete(ctx context.Context, transactionID string) error
	}

	// TransactionExporter combines both directions of the sync.
	TransactionExporter interface {
		TransactionWriter
		TransactionDeleter
	}
)
