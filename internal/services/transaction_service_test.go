package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneytree/internal/core"
	"moneytree/internal/ledger"
	"moneytree/internal/log"
)

type recordingPublisher struct {
	mu      sync.Mutex
	synced  []core.Transaction
	deleted []string
	fail    bool
	closed  bool
}

func (p *recordingPublisher) PublishTransactionSync(_ context.Context, tx core.Transaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker down")
	}
	p.synced = append(p.synced, tx)
	return nil
}

func (p *recordingPublisher) PublishTransactionDelete(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker down")
	}
	p.deleted = append(p.deleted, id)
	return nil
}

func (p *recordingPublisher) Close() error {
	p.closed = true
	return nil
}

func newService(pub SyncPublisher) (*TransactionService, *ledger.Ledger) {
	l := ledger.New(nil)
	return NewTransactionService(l, pub, log.New(log.DefaultConfig())), l
}

func expenseInput(cents int64) ledger.TransactionInput {
	return ledger.TransactionInput{
		Amount:       core.Money{Cents: cents},
		AccountID:    "cash",
		CategoryID:   "dining",
		Date:         core.NewDate(2025, 5, 20),
		Type:         core.Expense,
		CurrencyCode: "USD",
	}
}

func incomeInput(cents int64) ledger.TransactionInput {
	in := expenseInput(cents)
	in.Type = core.Income
	in.CategoryID = ""
	return in
}

func TestCreatePublishesSyncMessage(t *testing.T) {
	pub := &recordingPublisher{}
	svc, l := newService(pub)
	ctx := context.Background()

	_, err := svc.Create(ctx, incomeInput(10_000))
	require.NoError(t, err)
	tx, err := svc.Create(ctx, expenseInput(2500))
	require.NoError(t, err)

	require.Len(t, pub.synced, 2)
	assert.Equal(t, tx.ID, pub.synced[1].ID)
	assert.Len(t, l.Snapshot().Transactions, 2)
}

func TestCreateRejectsOverdraft(t *testing.T) {
	pub := &recordingPublisher{}
	svc, l := newService(pub)

	_, err := svc.Create(context.Background(), expenseInput(500))
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)
	assert.Empty(t, pub.synced)
	assert.Empty(t, l.Snapshot().Transactions)
}

func TestCreateRejectsUnknownAccount(t *testing.T) {
	svc, _ := newService(&recordingPublisher{})
	in := incomeInput(100)
	in.AccountID = "missing"
	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ledger.ErrUnknownAccount)
}

func TestPublishFailureDoesNotFailCreate(t *testing.T) {
	pub := &recordingPublisher{fail: true}
	svc, l := newService(pub)

	tx, err := svc.Create(context.Background(), incomeInput(1000))
	require.NoError(t, err)
	assert.NotEmpty(t, tx.ID)
	assert.Len(t, l.Snapshot().Transactions, 1)
}

func TestDeletePublishesDeleteMessage(t *testing.T) {
	pub := &recordingPublisher{}
	svc, l := newService(pub)
	ctx := context.Background()

	tx, err := svc.Create(ctx, incomeInput(1000))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, tx.ID))
	require.Len(t, pub.deleted, 1)
	assert.Equal(t, tx.ID, pub.deleted[0])
	assert.Empty(t, l.Snapshot().Transactions)
}

func TestNilPublisherIsOptional(t *testing.T) {
	svc, _ := newService(nil)
	ctx := context.Background()

	tx, err := svc.Create(ctx, incomeInput(1000))
	require.NoError(t, err)
	assert.NoError(t, svc.Delete(ctx, tx.ID))
	assert.NoError(t, svc.Close())
}

func TestCloseReleasesPublisher(t *testing.T) {
	pub := &recordingPublisher{}
	svc, _ := newService(pub)
	require.NoError(t, svc.Close())
	assert.True(t, pub.closed)
}
