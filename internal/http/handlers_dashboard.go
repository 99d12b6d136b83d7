package http

import (
	"net/http"
	"strconv"
	"time"

	"moneytree/internal/core"
	"moneytree/internal/ledger"
)

type dashboardSummary struct {
	Currency     core.Currency              `json:"currency"`
	TotalBalance core.Money                 `json:"totalBalance"`
	TotalExpense core.Money                 `json:"totalExpense"`
	TotalIncome  core.Money                 `json:"totalIncome"`
	Formatted    string                     `json:"formattedBalance"`
	Recent       []ledger.RecentTransaction `json:"recentTransactions"`
	Currencies   []core.Currency            `json:"activeCurrencies"`
}

func (s *Server) buildSummary(cur core.Currency) dashboardSummary {
	state := s.ledger.Snapshot()

	var balance core.Money
	for _, acc := range state.Accounts {
		if acc.CurrencyCode == cur.Code {
			balance.Cents += acc.Balance.Cents
		}
	}

	return dashboardSummary{
		Currency:     cur,
		TotalBalance: balance,
		TotalExpense: s.ledger.TotalExpenses(cur.Code),
		TotalIncome:  s.ledger.TotalIncome(cur.Code),
		Formatted:    core.FormatAmount(balance.Cents, cur),
		Recent:       s.ledger.RecentTransactions(10, cur.Code),
		Currencies:   s.ledger.UniqueCurrencies(),
	}
}

func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	cur, ok := s.currencyParam(r)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "unknown currency")
		return
	}

	if cached, hit := s.summaryCache.Get(cur.Code); hit {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	summary := s.buildSummary(cur)
	s.summaryCache.Set(cur.Code, summary)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleDashboardCategories(w http.ResponseWriter, r *http.Request) {
	cur, ok := s.currencyParam(r)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "unknown currency")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"currency":  cur,
		"breakdown": s.ledger.TransactionsByCategory(cur.Code),
	})
}

// handleDashboardCalendar returns per-day expense totals for one month,
// backing the calendar heat map.
func (s *Server) handleDashboardCalendar(w http.ResponseWriter, r *http.Request) {
	cur, ok := s.currencyParam(r)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "unknown currency")
		return
	}

	now := time.Now()
	year, month := now.Year(), int(now.Month())
	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = y
	}
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			writeError(w, http.StatusBadRequest, "invalid month")
			return
		}
		month = m
	}

	totals := s.ledger.DayTotals(year, month, cur.Code)
	days := make(map[string]core.Money, len(totals))
	for day, amount := range totals {
		days[strconv.Itoa(day)] = amount
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"year":     year,
		"month":    month,
		"currency": cur,
		"days":     days,
	})
}
