package http

import (
	"net/http"
	"strconv"

	"moneytree/internal/core"
)

type targetRequest struct {
	Name         string `json:"name"`
	TargetAmount string `json:"targetAmount"`
	Deadline     string `json:"deadline,omitempty"`
	CategoryID   string `json:"categoryId,omitempty"`
	Currency     string `json:"currency"`
}

type contributionRequest struct {
	Amount string `json:"amount"`
}

type targetView struct {
	core.Target
	Percent float64 `json:"percent"`
}

func (s *Server) viewTarget(t core.Target) targetView {
	percent, _ := s.ledger.TargetProgress(t.ID)
	return targetView{Target: t, Percent: percent}
}

func (s *Server) handleListTargets(w http.ResponseWriter, _ *http.Request) {
	targets := s.ledger.Snapshot().Targets
	out := make([]targetView, len(targets))
	for i, t := range targets {
		out[i] = s.viewTarget(t)
	}
	writeJSON(w, http.StatusOK, map[string]any{"targets": out})
}

func (s *Server) handleCreateTarget(w http.ResponseWriter, r *http.Request) {
	var req targetRequest
	if !readJSON(w, r, &req) {
		return
	}

	cur, ok := core.LookupCurrency(req.Currency)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "unknown currency")
		return
	}
	cents, err := core.ParseAmount(req.TargetAmount, cur)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var deadline core.Date
	if req.Deadline != "" {
		if err := deadline.UnmarshalJSON([]byte(strconv.Quote(req.Deadline))); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid deadline")
			return
		}
	}

	created, err := s.ledger.AddTarget(r.Context(), core.Target{
		Name:         req.Name,
		TargetAmount: core.Money{Cents: cents},
		Deadline:     deadline,
		CategoryID:   req.CategoryID,
		CurrencyCode: cur.Code,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.viewTarget(created))
}

// handleContribute adds to a target's running total. The amount is
// parsed in the target's own currency.
func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	var req contributionRequest
	if !readJSON(w, r, &req) {
		return
	}

	id := r.PathValue("id")
	var cur core.Currency
	found := false
	for _, t := range s.ledger.Snapshot().Targets {
		if t.ID == id {
			cur, found = core.Currency{Code: t.CurrencyCode}, true
			if c, ok := core.LookupCurrency(t.CurrencyCode); ok {
				cur = c
			}
			break
		}
	}
	if !found {
		writeError(w, http.StatusNotFound, "unknown target")
		return
	}

	cents, err := core.ParseAmount(req.Amount, cur)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	updated, err := s.ledger.Contribute(r.Context(), id, core.Money{Cents: cents})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.viewTarget(updated))
}

func (s *Server) handleDeleteTarget(w http.ResponseWriter, r *http.Request) {
	s.ledger.DeleteTarget(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}
