// Package ledger owns the application state: the transaction log, the
// account balances derived from it, and the budgets and savings targets
// evaluated against it. Every mutation goes through the Ledger's methods;
// nothing else writes balances.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"moneytree/internal/core"
)

var (
	ErrUnknownAccount      = errors.New("unknown account")
	ErrUnknownBudget       = errors.New("unknown budget")
	ErrUnknownTarget       = errors.New("unknown target")
	ErrLastAccount         = errors.New("cannot delete the last account")
	ErrOverContribution    = errors.New("contribution exceeds target amount")
	ErrInsufficientFunds   = errors.New("insufficient balance")
	ErrCreditLimitExceeded = errors.New("credit limit exceeded")
)

// State is the full persisted snapshot: everything the tracker remembers
// between sessions.
type State struct {
	Transactions    []core.Transaction `json:"transactions"`
	Categories      []core.Category    `json:"categories"`
	Accounts        []core.Account     `json:"accounts"`
	Budgets         []core.Budget      `json:"budgets"`
	Targets         []core.Target      `json:"targets"`
	DefaultCurrency core.Currency      `json:"defaultCurrency"`
	DarkMode        bool               `json:"darkMode"`
}

// SnapshotStore persists the state after each mutation.
type SnapshotStore interface {
	Save(ctx context.Context, state State) error
}

// TransactionInput is the caller-supplied part of a transaction; the
// ledger assigns the id.
type TransactionInput struct {
	Amount       core.Money
	AccountID    string
	CategoryID   string
	Date         core.Date
	Type         core.TransactionType
	CurrencyCode string
	Notes        string
	TargetID     string
}

// AccountPatch is a shallow-merge update for an account. Nil fields keep
// their current value. Balance is deliberately absent: balances are only
// written by transaction add/delete.
type AccountPatch struct {
	Name         *string
	Type         *core.AccountType
	Limit        *core.Money
	CurrencyCode *string
}

// Ledger is the single writer over State. Mutations are one-at-a-time
// atomic transitions; the snapshot store is written after each one.
type Ledger struct {
	mu    sync.Mutex
	state State
	store SnapshotStore
}

// New creates a ledger seeded with the default categories and a single
// cash account in the default currency.
func New(store SnapshotStore) *Ledger {
	return &Ledger{
		state: seedState(core.DefaultCurrency()),
		store: store,
	}
}

// NewFromState restores a ledger from a loaded snapshot.
func NewFromState(state State, store SnapshotStore) *Ledger {
	return &Ledger{state: state, store: store}
}

func seedState(cur core.Currency) State {
	return State{
		Categories:      core.DefaultCategories(),
		Accounts:        []core.Account{core.NewCashAccount(cur.Code)},
		DefaultCurrency: cur,
	}
}

// persist writes the snapshot back. Called with the lock held, after the
// in-memory transition already happened; a storage failure is logged but
// does not undo the mutation, mirroring the store-first design of the
// rest of the pipeline.
func (l *Ledger) persist(ctx context.Context) {
	if l.store == nil {
		return
	}
	if err := l.store.Save(ctx, l.state); err != nil {
		slog.ErrorContext(ctx, "Failed to persist snapshot", "error", err, "component", "ledger")
	}
}

// Snapshot returns a deep copy of the current state.
func (l *Ledger) Snapshot() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.clone()
}

func (s State) clone() State {
	out := s
	out.Transactions = append([]core.Transaction(nil), s.Transactions...)
	out.Categories = append([]core.Category(nil), s.Categories...)
	out.Accounts = append([]core.Account(nil), s.Accounts...)
	out.Targets = append([]core.Target(nil), s.Targets...)
	out.Budgets = make([]core.Budget, len(s.Budgets))
	for i, b := range s.Budgets {
		b.Allocations = append([]core.CategoryAllocation(nil), b.Allocations...)
		out.Budgets[i] = b
	}
	return out
}

// AddTransaction appends a transaction with a fresh id and applies its
// balance delta to the referenced account, as one atomic transition.
// Policy constraints (sufficient balance, credit headroom) are the
// caller's concern; see CheckExpense.
func (l *Ledger) AddTransaction(ctx context.Context, in TransactionInput) (core.Transaction, error) {
	tx := core.Transaction{
		ID:           uuid.NewString(),
		Amount:       in.Amount,
		AccountID:    in.AccountID,
		CategoryID:   in.CategoryID,
		Date:         in.Date,
		Type:         in.Type,
		CurrencyCode: in.CurrencyCode,
		Notes:        strings.TrimSpace(in.Notes),
		TargetID:     in.TargetID,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.accountIndex(tx.AccountID)
	if idx < 0 {
		return core.Transaction{}, ErrUnknownAccount
	}

	l.state.Transactions = append(l.state.Transactions, tx)
	l.state.Accounts[idx].Balance.Cents += tx.Type.Signed(tx.Amount)
	l.persist(ctx)

	slog.InfoContext(ctx, "Transaction recorded",
		"id", tx.ID,
		"type", string(tx.Type),
		"amount_cents", tx.Amount.Cents,
		"account_id", tx.AccountID,
		"component", "ledger")
	return tx, nil
}

// DeleteTransaction removes a transaction and reverses its balance
// effect. Deleting an unknown id is a no-op, so retries are safe.
func (l *Ledger) DeleteTransaction(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	txIdx := -1
	for i, tx := range l.state.Transactions {
		if tx.ID == id {
			txIdx = i
			break
		}
	}
	if txIdx < 0 {
		return nil
	}

	tx := l.state.Transactions[txIdx]
	l.state.Transactions = append(l.state.Transactions[:txIdx], l.state.Transactions[txIdx+1:]...)
	if idx := l.accountIndex(tx.AccountID); idx >= 0 {
		l.state.Accounts[idx].Balance.Cents -= tx.Type.Signed(tx.Amount)
	}
	l.persist(ctx)

	slog.InfoContext(ctx, "Transaction deleted", "id", id, "component", "ledger")
	return nil
}

func (l *Ledger) accountIndex(id string) int {
	for i, a := range l.state.Accounts {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// AddAccount creates an account with a generated id and zero balance.
func (l *Ledger) AddAccount(ctx context.Context, acc core.Account) (core.Account, error) {
	acc.ID = uuid.NewString()
	acc.Balance = core.Money{}
	if err := acc.Validate(); err != nil {
		return core.Account{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.Accounts = append(l.state.Accounts, acc)
	l.persist(ctx)
	return acc, nil
}

// UpdateAccount shallow-merges the patch over the stored account.
func (l *Ledger) UpdateAccount(ctx context.Context, id string, patch AccountPatch) (core.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.accountIndex(id)
	if idx < 0 {
		return core.Account{}, ErrUnknownAccount
	}
	acc := l.state.Accounts[idx]
	if patch.Name != nil {
		acc.Name = *patch.Name
	}
	if patch.Type != nil {
		acc.Type = *patch.Type
	}
	if patch.Limit != nil {
		acc.Limit = *patch.Limit
	}
	if patch.CurrencyCode != nil {
		acc.CurrencyCode = *patch.CurrencyCode
	}
	if err := acc.Validate(); err != nil {
		return core.Account{}, err
	}
	l.state.Accounts[idx] = acc
	l.persist(ctx)
	return acc, nil
}

// DeleteAccount removes an account. The last remaining account cannot be
// deleted: there must always be a default deposit/withdrawal target.
// Unknown ids are a no-op.
func (l *Ledger) DeleteAccount(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.accountIndex(id)
	if idx < 0 {
		return nil
	}
	if len(l.state.Accounts) == 1 {
		return ErrLastAccount
	}
	l.state.Accounts = append(l.state.Accounts[:idx], l.state.Accounts[idx+1:]...)
	l.persist(ctx)
	return nil
}

// AddCategory creates a category with a generated id.
func (l *Ledger) AddCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if strings.TrimSpace(c.Name) == "" {
		return core.Category{}, core.ErrEmptyName
	}
	c.ID = uuid.NewString()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.Categories = append(l.state.Categories, c)
	l.persist(ctx)
	return c, nil
}

// EditCategory renames and recolors a category. Unknown ids are a no-op.
func (l *Ledger) EditCategory(ctx context.Context, id, name, color string) error {
	if strings.TrimSpace(name) == "" {
		return core.ErrEmptyName
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for i, c := range l.state.Categories {
		if c.ID == id {
			l.state.Categories[i].Name = name
			l.state.Categories[i].Color = color
			l.persist(ctx)
			return nil
		}
	}
	return nil
}

// DeleteCategory removes a category. Transactions keep their categoryId;
// breakdowns simply stop listing the category.
func (l *Ledger) DeleteCategory(ctx context.Context, id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, c := range l.state.Categories {
		if c.ID == id {
			l.state.Categories = append(l.state.Categories[:i], l.state.Categories[i+1:]...)
			l.persist(ctx)
			return
		}
	}
}

// AddBudget creates a budget with a generated id.
func (l *Ledger) AddBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	b.ID = uuid.NewString()
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.Budgets = append(l.state.Budgets, b)
	l.persist(ctx)
	return b, nil
}

// UpdateBudget replaces a budget's definition, keeping its id.
func (l *Ledger) UpdateBudget(ctx context.Context, id string, b core.Budget) (core.Budget, error) {
	b.ID = id
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for i, existing := range l.state.Budgets {
		if existing.ID == id {
			l.state.Budgets[i] = b
			l.persist(ctx)
			return b, nil
		}
	}
	return core.Budget{}, ErrUnknownBudget
}

// DeleteBudget removes a budget; unknown ids are a no-op.
func (l *Ledger) DeleteBudget(ctx context.Context, id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, b := range l.state.Budgets {
		if b.ID == id {
			l.state.Budgets = append(l.state.Budgets[:i], l.state.Budgets[i+1:]...)
			l.persist(ctx)
			return
		}
	}
}

// AddTarget creates a savings target with a generated id and zero
// progress.
func (l *Ledger) AddTarget(ctx context.Context, t core.Target) (core.Target, error) {
	t.ID = uuid.NewString()
	t.CurrentAmount = core.Money{}
	if err := t.Validate(); err != nil {
		return core.Target{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.Targets = append(l.state.Targets, t)
	l.persist(ctx)
	return t, nil
}

// Contribute adds to a target's running total. Rejected with no state
// change when the result would exceed the target amount or drop below
// zero.
func (l *Ledger) Contribute(ctx context.Context, targetID string, amount core.Money) (core.Target, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, t := range l.state.Targets {
		if t.ID != targetID {
			continue
		}
		next := t.CurrentAmount.Cents + amount.Cents
		if next > t.TargetAmount.Cents {
			return core.Target{}, ErrOverContribution
		}
		if next < 0 {
			return core.Target{}, core.ErrInvalidAmount
		}
		l.state.Targets[i].CurrentAmount = core.Money{Cents: next}
		l.persist(ctx)
		return l.state.Targets[i], nil
	}
	return core.Target{}, ErrUnknownTarget
}

// DeleteTarget removes a target; unknown ids are a no-op.
func (l *Ledger) DeleteTarget(ctx context.Context, id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, t := range l.state.Targets {
		if t.ID == id {
			l.state.Targets = append(l.state.Targets[:i], l.state.Targets[i+1:]...)
			l.persist(ctx)
			return
		}
	}
}

// SetDefaultCurrency switches the default display currency.
func (l *Ledger) SetDefaultCurrency(ctx context.Context, code string) (core.Currency, error) {
	cur, ok := core.LookupCurrency(code)
	if !ok {
		return core.Currency{}, core.ErrEmptyCurrency
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.DefaultCurrency = cur
	l.persist(ctx)
	return cur, nil
}

// ToggleDarkMode flips the persisted theme flag and returns the new
// value.
func (l *Ledger) ToggleDarkMode(ctx context.Context) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.DarkMode = !l.state.DarkMode
	l.persist(ctx)
	return l.state.DarkMode
}

// Reset clears transactions, budgets, and targets and restores the
// default categories and the single cash account, keeping the chosen
// default currency.
func (l *Ledger) Reset(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	dark := l.state.DarkMode
	l.state = seedState(l.state.DefaultCurrency)
	l.state.DarkMode = dark
	l.persist(ctx)
}
