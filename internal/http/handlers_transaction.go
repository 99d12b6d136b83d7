package http

import (
	"net/http"
	"strconv"

	"moneytree/internal/core"
	"moneytree/internal/ledger"
)

type transactionRequest struct {
	Amount     string `json:"amount"`
	Type       string `json:"type"`
	AccountID  string `json:"accountId"`
	CategoryID string `json:"categoryId,omitempty"`
	Date       string `json:"date"`
	Currency   string `json:"currency"`
	Notes      string `json:"notes,omitempty"`
	TargetID   string `json:"targetId,omitempty"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !readJSON(w, r, &req) {
		return
	}

	cur, ok := core.LookupCurrency(req.Currency)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "unknown currency "+strconv.Quote(req.Currency))
		return
	}
	cents, err := core.ParseAmount(req.Amount, cur)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var date core.Date
	if err := date.UnmarshalJSON([]byte(strconv.Quote(req.Date))); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date "+strconv.Quote(req.Date))
		return
	}

	tx, err := s.txs.Create(r.Context(), ledger.TransactionInput{
		Amount:       core.Money{Cents: cents},
		AccountID:    req.AccountID,
		CategoryID:   req.CategoryID,
		Date:         date,
		Type:         core.TransactionType(req.Type),
		CurrencyCode: cur.Code,
		Notes:        req.Notes,
		TargetID:     req.TargetID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.invalidateDashboards()
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.txs.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	s.invalidateDashboards()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	cur, ok := s.currencyParam(r)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "unknown currency")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": s.ledger.RecentTransactions(limit, cur.Code),
		"currency":     cur,
	})
}
