package core

import (
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Amount:       Money{Cents: 1234},
		AccountID:    "cash",
		Date:         NewDate(2025, 6, 15),
		Type:         Expense,
		CurrencyCode: "USD",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Amount: Money{Cents: 0}, AccountID: "cash", Date: NewDate(2025, 6, 15), Type: Expense, CurrencyCode: "USD"},
		{Amount: Money{Cents: 1}, AccountID: "", Date: NewDate(2025, 6, 15), Type: Expense, CurrencyCode: "USD"},
		{Amount: Money{Cents: 1}, AccountID: "cash", Date: Date{Time: time.Time{}}, Type: Expense, CurrencyCode: "USD"},
		{Amount: Money{Cents: 1}, AccountID: "cash", Date: NewDate(2025, 6, 15), Type: "transfer", CurrencyCode: "USD"},
		{Amount: Money{Cents: 1}, AccountID: "cash", Date: NewDate(2025, 6, 15), Type: Income, CurrencyCode: ""},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestSigned(t *testing.T) {
	m := Money{Cents: 500}
	if got := Expense.Signed(m); got != -500 {
		t.Fatalf("expense delta = %d, want -500", got)
	}
	if got := Income.Signed(m); got != 500 {
		t.Fatalf("income delta = %d, want 500", got)
	}
}

func TestAccountHeadroom(t *testing.T) {
	cases := []struct {
		acc  Account
		want int64
	}{
		{Account{Type: AccountCash, Balance: Money{Cents: 1000}}, 1000},
		{Account{Type: AccountCredit, Balance: Money{Cents: -3000}, Limit: Money{Cents: 5000}}, 2000},
		{Account{Type: AccountCredit, Balance: Money{Cents: 0}, Limit: Money{Cents: 5000}}, 5000},
		{Account{Type: AccountDebit, Balance: Money{Cents: 0}}, 0},
	}
	for i, tc := range cases {
		if got := tc.acc.Headroom(); got != tc.want {
			t.Fatalf("case %d headroom = %d, want %d", i, got, tc.want)
		}
	}
}

func TestAccountTypeIcon(t *testing.T) {
	for _, at := range []AccountType{AccountCash, AccountPaypal, AccountCredit, AccountDebit, AccountOnline, AccountOther} {
		if at.Icon() == "" {
			t.Fatalf("type %q has no icon", at)
		}
	}
	if AccountType("bogus").Icon() != "wallet" {
		t.Fatalf("unknown type should fall back to wallet icon")
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{
		TimeFrame:    Monthly,
		TotalAmount:  Money{Cents: 50000},
		StartDate:    NewDate(2025, 6, 1),
		CurrencyCode: "USD",
		Allocations: []CategoryAllocation{
			{CategoryID: "dining", Amount: Money{Cents: 20000}},
			{CategoryID: "transport", Amount: Money{Cents: 10000}},
		},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	dup := good
	dup.Allocations = []CategoryAllocation{
		{CategoryID: "dining", Amount: Money{Cents: 1}},
		{CategoryID: "dining", Amount: Money{Cents: 2}},
	}
	if err := dup.Validate(); err != ErrDuplicateCategory {
		t.Fatalf("expected ErrDuplicateCategory, got %v", err)
	}

	badFrame := good
	badFrame.TimeFrame = "quarterly"
	if err := badFrame.Validate(); err != ErrInvalidTimeFrame {
		t.Fatalf("expected ErrInvalidTimeFrame, got %v", err)
	}
}

func TestTargetValidate(t *testing.T) {
	good := Target{
		Name:          "Vacation",
		TargetAmount:  Money{Cents: 100000},
		CurrentAmount: Money{Cents: 25000},
		Deadline:      NewDate(2026, 1, 1),
		CurrencyCode:  "EUR",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	over := good
	over.CurrentAmount = Money{Cents: 100001}
	if err := over.Validate(); err == nil {
		t.Fatalf("expected error for current above target")
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2025, 3, 9)
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2025-03-09"` {
		t.Fatalf("marshal = %s", b)
	}
	var back Date
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip mismatch: %v != %v", back, d)
	}
}
