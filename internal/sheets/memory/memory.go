// Package memory provides an in-memory transaction exporter used in
// tests and local development without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"moneytree/internal/core"
	ports "moneytree/internal/sheets"
)

type Store struct {
	mu    sync.Mutex
	items []core.Transaction
}

var (
	_ ports.TransactionWriter  = (*Store)(nil)
	_ ports.TransactionDeleter = (*Store)(nil)
)

func New() *Store {
	return &Store{}
}

// Append stores the transaction and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, tx)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Delete removes the transaction with the given id. Unknown ids are a
// no-op, matching the spreadsheet adapter.
func (s *Store) Delete(_ context.Context, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tx := range s.items {
		if tx.ID == transactionID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return nil
}

// Transactions returns a copy of the stored rows.
func (s *Store) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.items...)
}
