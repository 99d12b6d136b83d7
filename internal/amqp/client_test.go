package amqp

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"moneytree/internal/core"
)

func TestUpsertMessageRoundTrip(t *testing.T) {
	tx := core.Transaction{
		ID:           "tx-1",
		Amount:       core.Money{Cents: 4590},
		AccountID:    "cash",
		CategoryID:   "dining",
		Date:         core.NewDate(2025, 6, 15),
		Type:         core.Expense,
		CurrencyCode: "EUR",
	}

	body, err := NewUpsertMessage(tx).ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	msg, err := TransactionSyncMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Action != ActionUpsert {
		t.Errorf("action = %s", msg.Action)
	}
	if msg.TransactionID != "tx-1" {
		t.Errorf("transaction id = %s", msg.TransactionID)
	}
	if msg.Transaction == nil || msg.Transaction.Amount.Cents != 4590 {
		t.Errorf("transaction payload = %+v", msg.Transaction)
	}
}

func TestDeleteMessageRoundTrip(t *testing.T) {
	body, err := NewDeleteMessage("tx-9").ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	msg, err := TransactionSyncMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Action != ActionDelete || msg.TransactionID != "tx-9" {
		t.Errorf("message = %+v", msg)
	}
	if msg.Transaction != nil {
		t.Error("delete message should not carry a transaction")
	}
}

func TestMessageValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"unknown action", `{"action":"replay","transaction_id":"tx-1"}`},
		{"upsert without payload", `{"action":"upsert","transaction_id":"tx-1"}`},
		{"delete without id", `{"action":"delete"}`},
		{"not json", `{{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := TransactionSyncMessageFromJSON([]byte(tc.body)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestExponentialBackoff(t *testing.T) {
	if got := exponentialBackoff(0); got != time.Second {
		t.Errorf("attempt 0 = %v", got)
	}
	if got := exponentialBackoff(2); got != 4*time.Second {
		t.Errorf("attempt 2 = %v", got)
	}
	if got := exponentialBackoff(10); got != 30*time.Second {
		t.Errorf("attempt 10 should cap at 30s, got %v", got)
	}
}

func TestIsConnectionError(t *testing.T) {
	if isConnectionError(nil) {
		t.Error("nil is not a connection error")
	}
	if !isConnectionError(amqp091.ErrClosed) {
		t.Error("ErrClosed should count")
	}
	if !isConnectionError(&net.OpError{Op: "dial", Err: errors.New("refused")}) {
		t.Error("net errors should count")
	}
	if isConnectionError(errors.New("bad payload")) {
		t.Error("generic errors should not count")
	}
}
