package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"
)

const (
	AccountCash   AccountType = "cash"
	AccountPaypal AccountType = "paypal"
	AccountCredit AccountType = "credit"
	AccountDebit  AccountType = "debit"
	AccountOnline AccountType = "online"
	AccountOther  AccountType = "other"
)

const (
	Weekly  TimeFrame = "weekly"
	Monthly TimeFrame = "monthly"
	Yearly  TimeFrame = "yearly"
)

type (
	TransactionType string
	AccountType     string
	TimeFrame       string

	Date struct {
		time.Time
	}

	// Money is an amount in integer cents. Balances may be negative,
	// transaction amounts never are.
	Money struct {
		Cents int64 `json:"cents"`
	}

	Currency struct {
		Code   string `json:"code"`
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	}

	Category struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color"`
		Icon  string `json:"icon,omitempty"`
	}

	Account struct {
		ID           string      `json:"id"`
		Name         string      `json:"name"`
		Type         AccountType `json:"type"`
		Balance      Money       `json:"balance"`
		Limit        Money       `json:"limit"` // credit accounts only
		CurrencyCode string      `json:"currencyCode"`
	}

	Transaction struct {
		ID           string          `json:"id"`
		Amount       Money           `json:"amount"`
		AccountID    string          `json:"accountId"`
		CategoryID   string          `json:"categoryId,omitempty"`
		Date         Date            `json:"date"`
		Type         TransactionType `json:"type"`
		CurrencyCode string          `json:"currencyCode"`
		Notes        string          `json:"notes,omitempty"`
		TargetID     string          `json:"targetId,omitempty"`
	}

	CategoryAllocation struct {
		CategoryID string `json:"categoryId"`
		Amount     Money  `json:"amount"`
	}

	Budget struct {
		ID           string               `json:"id"`
		TimeFrame    TimeFrame            `json:"timeFrame"`
		TotalAmount  Money                `json:"totalAmount"`
		StartDate    Date                 `json:"startDate"`
		CurrencyCode string               `json:"currencyCode"`
		Allocations  []CategoryAllocation `json:"categoryAllocations"`
	}

	Target struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		TargetAmount  Money  `json:"targetAmount"`
		CurrentAmount Money  `json:"currentAmount"`
		Deadline      Date   `json:"deadline"`
		CategoryID    string `json:"categoryId,omitempty"`
		CurrencyCode  string `json:"currencyCode"`
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount format")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrInvalidTimeFrame   = errors.New("invalid time frame")
	ErrEmptyName          = errors.New("empty name")
	ErrEmptyCurrency      = errors.New("empty currency code")
	ErrDuplicateCategory  = errors.New("duplicate category allocation")
)

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// NewDate creates a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	*d = Date{Time: t}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t TransactionType) Validate() error {
	switch t {
	case Expense, Income:
		return nil
	default:
		return ErrInvalidType
	}
}

// Signed returns the amount as a balance delta: negative for expenses,
// positive for income.
func (t TransactionType) Signed(m Money) int64 {
	if t == Expense {
		return -m.Cents
	}
	return m.Cents
}

func (t AccountType) Validate() error {
	switch t {
	case AccountCash, AccountPaypal, AccountCredit, AccountDebit, AccountOnline, AccountOther:
		return nil
	default:
		return ErrInvalidAccountType
	}
}

// Icon maps each account type to its display icon tag. Unknown values
// fall back to the generic wallet icon.
func (t AccountType) Icon() string {
	switch t {
	case AccountCash:
		return "cash"
	case AccountPaypal:
		return "paypal"
	case AccountCredit:
		return "credit-card"
	case AccountDebit:
		return "debit-card"
	case AccountOnline:
		return "online"
	default:
		return "wallet"
	}
}

func (f TimeFrame) Validate() error {
	switch f {
	case Weekly, Monthly, Yearly:
		return nil
	default:
		return ErrInvalidTimeFrame
	}
}

// Headroom returns how many cents can still be spent from the account.
// For credit accounts this is limit+balance (balance is negative while
// money is owed); for all other types it is the balance itself.
func (a Account) Headroom() int64 {
	if a.Type == AccountCredit {
		return a.Limit.Cents + a.Balance.Cents
	}
	return a.Balance.Cents
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if err := a.Type.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(a.CurrencyCode) == "" {
		return ErrEmptyCurrency
	}
	if a.Limit.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.AccountID) == "" {
		return errors.New("empty account id")
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.CurrencyCode) == "" {
		return ErrEmptyCurrency
	}
	return nil
}

func (b Budget) Validate() error {
	if err := b.TimeFrame.Validate(); err != nil {
		return err
	}
	if err := b.TotalAmount.Validate(); err != nil {
		return err
	}
	if err := b.StartDate.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(b.CurrencyCode) == "" {
		return ErrEmptyCurrency
	}
	seen := make(map[string]struct{}, len(b.Allocations))
	for _, a := range b.Allocations {
		if _, dup := seen[a.CategoryID]; dup {
			return ErrDuplicateCategory
		}
		seen[a.CategoryID] = struct{}{}
		if a.Amount.Cents < 0 {
			return ErrInvalidAmount
		}
	}
	return nil
}

func (t Target) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if err := t.TargetAmount.Validate(); err != nil {
		return err
	}
	if t.CurrentAmount.Cents < 0 || t.CurrentAmount.Cents > t.TargetAmount.Cents {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.CurrencyCode) == "" {
		return ErrEmptyCurrency
	}
	return nil
}
