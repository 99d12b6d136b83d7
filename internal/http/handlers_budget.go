package http

import (
	"net/http"
	"strconv"
	"time"

	"moneytree/internal/core"
)

type allocationRequest struct {
	CategoryID string `json:"categoryId"`
	Amount     string `json:"amount"`
}

type budgetRequest struct {
	TimeFrame   string              `json:"timeFrame"`
	TotalAmount string              `json:"totalAmount"`
	StartDate   string              `json:"startDate"`
	Currency    string              `json:"currency"`
	Allocations []allocationRequest `json:"allocations,omitempty"`
}

func (s *Server) parseBudget(w http.ResponseWriter, r *http.Request) (core.Budget, bool) {
	var req budgetRequest
	if !readJSON(w, r, &req) {
		return core.Budget{}, false
	}

	cur, ok := core.LookupCurrency(req.Currency)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "unknown currency")
		return core.Budget{}, false
	}

	total, err := core.ParseAmount(req.TotalAmount, cur)
	if err != nil {
		writeDomainError(w, err)
		return core.Budget{}, false
	}

	var start core.Date
	if err := start.UnmarshalJSON([]byte(strconv.Quote(req.StartDate))); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid start date")
		return core.Budget{}, false
	}

	b := core.Budget{
		TimeFrame:    core.TimeFrame(req.TimeFrame),
		TotalAmount:  core.Money{Cents: total},
		StartDate:    start,
		CurrencyCode: cur.Code,
	}
	for _, a := range req.Allocations {
		cents, err := core.ParseAmount(a.Amount, cur)
		if err != nil {
			writeDomainError(w, err)
			return core.Budget{}, false
		}
		b.Allocations = append(b.Allocations, core.CategoryAllocation{
			CategoryID: a.CategoryID,
			Amount:     core.Money{Cents: cents},
		})
	}
	return b, true
}

func (s *Server) handleListBudgets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"budgets": s.ledger.Snapshot().Budgets,
	})
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	b, ok := s.parseBudget(w, r)
	if !ok {
		return
	}
	created, err := s.ledger.AddBudget(r.Context(), b)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	b, ok := s.parseBudget(w, r)
	if !ok {
		return
	}
	updated, err := s.ledger.UpdateBudget(r.Context(), r.PathValue("id"), b)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	s.ledger.DeleteBudget(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// handleCurrentBudget returns the budget whose period contains today,
// along with its progress.
func (s *Server) handleCurrentBudget(w http.ResponseWriter, r *http.Request) {
	cur, ok := s.currencyParam(r)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "unknown currency")
		return
	}
	frame := core.TimeFrame(r.URL.Query().Get("timeFrame"))
	if frame == "" {
		frame = core.Monthly
	}
	if err := frame.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	budget, found := s.ledger.CurrentBudget(frame, cur.Code, time.Now())
	if !found {
		writeJSON(w, http.StatusOK, map[string]any{"budget": nil})
		return
	}
	progress, _ := s.ledger.Progress(budget.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"budget":   budget,
		"progress": progress,
	})
}

func (s *Server) handleBudgetProgress(w http.ResponseWriter, r *http.Request) {
	progress, found := s.ledger.Progress(r.PathValue("id"))
	if !found {
		writeError(w, http.StatusNotFound, "unknown budget")
		return
	}
	writeJSON(w, http.StatusOK, progress)
}
