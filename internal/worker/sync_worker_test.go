package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneytree/internal/amqp"
	"moneytree/internal/core"
	"moneytree/internal/log"
	"moneytree/internal/sheets/memory"
)

func testLogger() *log.Logger {
	return log.New(log.DefaultConfig())
}

func sampleTx(id string) core.Transaction {
	return core.Transaction{
		ID:           id,
		Amount:       core.Money{Cents: 2500},
		AccountID:    "cash",
		CategoryID:   "groceries",
		Date:         core.NewDate(2025, 7, 4),
		Type:         core.Expense,
		CurrencyCode: "USD",
	}
}

func TestHandleUpsertThenDelete(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	w := NewSyncWorker(store, testLogger())

	err := w.HandleMessage(ctx, amqp.NewUpsertMessage(sampleTx("tx-1")))
	require.NoError(t, err)
	require.Len(t, store.Transactions(), 1)
	assert.Equal(t, "tx-1", store.Transactions()[0].ID)

	err = w.HandleMessage(ctx, amqp.NewDeleteMessage("tx-1"))
	require.NoError(t, err)
	assert.Empty(t, store.Transactions())
}

func TestHandleDeleteUnknownIsNoOp(t *testing.T) {
	w := NewSyncWorker(memory.New(), testLogger())
	err := w.HandleMessage(context.Background(), amqp.NewDeleteMessage("missing"))
	assert.NoError(t, err)
}

func TestHandleUpsertWithoutPayloadFails(t *testing.T) {
	w := NewSyncWorker(memory.New(), testLogger())
	msg := &amqp.TransactionSyncMessage{Action: amqp.ActionUpsert, TransactionID: "tx-1"}
	err := w.HandleMessage(context.Background(), msg)
	assert.Error(t, err)
}

func TestHandleUnknownAction(t *testing.T) {
	w := NewSyncWorker(memory.New(), testLogger())
	msg := &amqp.TransactionSyncMessage{Action: "replay", TransactionID: "tx-1"}
	err := w.HandleMessage(context.Background(), msg)
	assert.Error(t, err)
}

type failingExporter struct{}

func (failingExporter) Append(context.Context, core.Transaction) (string, error) {
	return "", errors.New("quota exceeded")
}

func (failingExporter) Delete(context.Context, string) error {
	return errors.New("quota exceeded")
}

func TestExporterErrorsPropagate(t *testing.T) {
	w := NewSyncWorker(failingExporter{}, testLogger())
	ctx := context.Background()

	err := w.HandleMessage(ctx, amqp.NewUpsertMessage(sampleTx("tx-1")))
	assert.ErrorContains(t, err, "quota exceeded")

	err = w.HandleMessage(ctx, amqp.NewDeleteMessage("tx-1"))
	assert.ErrorContains(t, err, "quota exceeded")
}
