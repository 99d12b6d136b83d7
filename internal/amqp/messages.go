package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"moneytree/internal/core"
)

// Actions carried by sync messages.
const (
	ActionUpsert = "upsert"
	ActionDelete = "delete"
)

// TransactionSyncMessage mirrors a ledger mutation onto the sync queue.
// Upserts carry the full transaction so the worker does not need to read
// the snapshot database; deletes carry only the transaction id.
type TransactionSyncMessage struct {
	Action        string            `json:"action"`
	TransactionID string            `json:"transaction_id"`
	Transaction   *core.Transaction `json:"transaction,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
}

// NewUpsertMessage creates a sync message for a created transaction.
func NewUpsertMessage(tx core.Transaction) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		Action:        ActionUpsert,
		TransactionID: tx.ID,
		Transaction:   &tx,
		Timestamp:     time.Now(),
	}
}

// NewDeleteMessage creates a sync message for a deleted transaction.
func NewDeleteMessage(transactionID string) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		Action:        ActionDelete,
		TransactionID: transactionID,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionSyncMessageFromJSON parses a message from JSON bytes.
func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (m *TransactionSyncMessage) validate() error {
	switch m.Action {
	case ActionUpsert:
		if m.Transaction == nil {
			return fmt.Errorf("upsert message without transaction payload")
		}
	case ActionDelete:
		if m.TransactionID == "" {
			return fmt.Errorf("delete message without transaction id")
		}
	default:
		return fmt.Errorf("unknown sync action %q", m.Action)
	}
	return nil
}
