package ledger

import (
	"sort"
	"time"

	"moneytree/internal/core"
)

// CategoryBreakdown is the per-category expense/income rollup for one
// currency.
type CategoryBreakdown struct {
	Category core.Category `json:"category"`
	Expenses core.Money    `json:"expenses"`
	Income   core.Money    `json:"income"`
}

// RecentTransaction is a transaction with its category resolved for
// display.
type RecentTransaction struct {
	core.Transaction
	Category *core.Category `json:"category,omitempty"`
}

// AllocationProgress is one budget allocation compared to actual spend.
type AllocationProgress struct {
	CategoryID string     `json:"categoryId"`
	Allocated  core.Money `json:"allocated"`
	Spent      core.Money `json:"spent"`
	Over       bool       `json:"over"`
}

// BudgetProgress is the derived view of a budget. Percent is unclamped:
// values above 100 are real and reported as-is, display width clamping
// is the consumer's job.
type BudgetProgress struct {
	BudgetID    string               `json:"budgetId"`
	Allocations []AllocationProgress `json:"allocations"`
	TotalSpent  core.Money           `json:"totalSpent"`
	Percent     float64              `json:"percent"`
	Over        bool                 `json:"over"`
}

// TransactionsByCategory rolls up expenses and income per category for
// the given currency, in category registry order.
func (l *Ledger) TransactionsByCategory(currencyCode string) []CategoryBreakdown {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]CategoryBreakdown, 0, len(l.state.Categories))
	for _, cat := range l.state.Categories {
		row := CategoryBreakdown{Category: cat}
		for _, tx := range l.state.Transactions {
			if tx.CategoryID != cat.ID || tx.CurrencyCode != currencyCode {
				continue
			}
			switch tx.Type {
			case core.Expense:
				row.Expenses.Cents += tx.Amount.Cents
			case core.Income:
				row.Income.Cents += tx.Amount.Cents
			}
		}
		out = append(out, row)
	}
	return out
}

// RecentTransactions returns the newest transactions in the currency,
// most recent first, capped at limit.
func (l *Ledger) RecentTransactions(limit int, currencyCode string) []RecentTransaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	byID := make(map[string]core.Category, len(l.state.Categories))
	for _, c := range l.state.Categories {
		byID[c.ID] = c
	}

	matching := make([]core.Transaction, 0, len(l.state.Transactions))
	for _, tx := range l.state.Transactions {
		if tx.CurrencyCode == currencyCode {
			matching = append(matching, tx)
		}
	}
	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].Date.After(matching[j].Date.Time)
	})
	if limit > 0 && len(matching) > limit {
		matching = matching[:limit]
	}

	out := make([]RecentTransaction, len(matching))
	for i, tx := range matching {
		row := RecentTransaction{Transaction: tx}
		if tx.CategoryID != "" {
			if cat, ok := byID[tx.CategoryID]; ok {
				c := cat
				row.Category = &c
			}
		}
		out[i] = row
	}
	return out
}

// TotalExpenses sums all expense transactions in the currency.
func (l *Ledger) TotalExpenses(currencyCode string) core.Money {
	return l.totalByType(core.Expense, currencyCode)
}

// TotalIncome sums all income transactions in the currency.
func (l *Ledger) TotalIncome(currencyCode string) core.Money {
	return l.totalByType(core.Income, currencyCode)
}

func (l *Ledger) totalByType(txType core.TransactionType, currencyCode string) core.Money {
	l.mu.Lock()
	defer l.mu.Unlock()

	var total core.Money
	for _, tx := range l.state.Transactions {
		if tx.Type == txType && tx.CurrencyCode == currencyCode {
			total.Cents += tx.Amount.Cents
		}
	}
	return total
}

// UniqueCurrencies lists the currencies that appear in the transaction
// log, in registry order.
func (l *Ledger) UniqueCurrencies() []core.Currency {
	l.mu.Lock()
	defer l.mu.Unlock()

	seen := make(map[string]bool)
	for _, tx := range l.state.Transactions {
		seen[tx.CurrencyCode] = true
	}
	var out []core.Currency
	for _, cur := range core.Currencies {
		if seen[cur.Code] {
			out = append(out, cur)
		}
	}
	return out
}

// DayTotals returns the per-day expense totals for a month, keyed by day
// of month. Backs the calendar view.
func (l *Ledger) DayTotals(year, month int, currencyCode string) map[int]core.Money {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[int]core.Money)
	for _, tx := range l.state.Transactions {
		if tx.Type != core.Expense || tx.CurrencyCode != currencyCode {
			continue
		}
		if tx.Date.Year() != year || int(tx.Date.Month()) != month {
			continue
		}
		day := tx.Date.Day()
		m := out[day]
		m.Cents += tx.Amount.Cents
		out[day] = m
	}
	return out
}

// CurrentBudget finds the budget whose period contains now, for the
// given time frame and currency. The period end follows the time frame:
// a week, the start month's end, or the start year's end.
func (l *Ledger) CurrentBudget(frame core.TimeFrame, currencyCode string, now time.Time) (core.Budget, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, b := range l.state.Budgets {
		if b.TimeFrame != frame || b.CurrencyCode != currencyCode {
			continue
		}
		start := b.StartDate.Time
		if !now.Before(start) && now.Before(periodEnd(start, frame)) {
			return b, true
		}
	}
	return core.Budget{}, false
}

func periodEnd(start time.Time, frame core.TimeFrame) time.Time {
	switch frame {
	case core.Weekly:
		return start.AddDate(0, 0, 7)
	case core.Yearly:
		return time.Date(start.Year()+1, time.January, 1, 0, 0, 0, 0, start.Location())
	default: // monthly
		return time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location()).AddDate(0, 1, 0)
	}
}

// Progress derives a budget's spend state. Spend per allocation counts
// expense transactions matching the allocation's category and the
// budget's currency. Categories without an allocation entry are excluded
// from the total even when they have matching transactions.
func (l *Ledger) Progress(budgetID string) (BudgetProgress, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var budget core.Budget
	found := false
	for _, b := range l.state.Budgets {
		if b.ID == budgetID {
			budget, found = b, true
			break
		}
	}
	if !found {
		return BudgetProgress{}, false
	}

	spentByCategory := make(map[string]int64)
	for _, tx := range l.state.Transactions {
		if tx.Type != core.Expense || tx.CurrencyCode != budget.CurrencyCode {
			continue
		}
		spentByCategory[tx.CategoryID] += tx.Amount.Cents
	}

	progress := BudgetProgress{BudgetID: budget.ID}
	for _, alloc := range budget.Allocations {
		spent := spentByCategory[alloc.CategoryID]
		progress.Allocations = append(progress.Allocations, AllocationProgress{
			CategoryID: alloc.CategoryID,
			Allocated:  alloc.Amount,
			Spent:      core.Money{Cents: spent},
			Over:       spent > alloc.Amount.Cents,
		})
		progress.TotalSpent.Cents += spent
	}
	if budget.TotalAmount.Cents > 0 {
		progress.Percent = float64(progress.TotalSpent.Cents) / float64(budget.TotalAmount.Cents) * 100
	}
	progress.Over = progress.TotalSpent.Cents > budget.TotalAmount.Cents
	for _, a := range progress.Allocations {
		if a.Over {
			progress.Over = true
			break
		}
	}
	return progress, true
}

// TargetProgress returns a target's completion percentage.
func (l *Ledger) TargetProgress(targetID string) (float64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, t := range l.state.Targets {
		if t.ID == targetID {
			if t.TargetAmount.Cents == 0 {
				return 0, true
			}
			return float64(t.CurrentAmount.Cents) / float64(t.TargetAmount.Cents) * 100, true
		}
	}
	return 0, false
}
