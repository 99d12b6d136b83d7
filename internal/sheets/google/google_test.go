package google

import (
	"context"
	"testing"

	"moneytree/internal/core"
	"moneytree/internal/log"
)

func TestTransactionRowLayout(t *testing.T) {
	tx := core.Transaction{
		ID:           "tx-1",
		Amount:       core.Money{Cents: 4590},
		AccountID:    "cash",
		CategoryID:   "groceries",
		Date:         core.NewDate(2025, 3, 14),
		Type:         core.Expense,
		CurrencyCode: "EUR",
		Notes:        "Supermarkt Berlin",
	}

	row := transactionRow(tx)
	want := []any{"tx-1", "2025-03-14", "expense", -45.90, "EUR", "cash", "groceries", "Supermarkt Berlin"}
	if len(row) != len(want) {
		t.Fatalf("row has %d columns, want %d", len(row), len(want))
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("column %d = %v, want %v", i, row[i], want[i])
		}
	}
}

func TestTransactionRowIncomeStaysPositive(t *testing.T) {
	tx := core.Transaction{
		ID:           "tx-2",
		Amount:       core.Money{Cents: 150000},
		AccountID:    "cash",
		Date:         core.NewDate(2025, 3, 1),
		Type:         core.Income,
		CurrencyCode: "USD",
	}

	row := transactionRow(tx)
	if row[3] != 1500.0 {
		t.Errorf("amount = %v, want 1500", row[3])
	}
	if row[7] != "" {
		t.Errorf("notes = %v, want empty", row[7])
	}
}

func TestNewClientRequiresIDs(t *testing.T) {
	logger := log.New(log.DefaultConfig())
	if _, err := NewClient(context.Background(), "", "Transactions", logger); err == nil {
		t.Error("expected error for missing spreadsheet id")
	}
	if _, err := NewClient(context.Background(), "sheet-id", "", logger); err == nil {
		t.Error("expected error for missing sheet name")
	}
}
