package http

import (
	"net/http"

	"moneytree/internal/core"
	"moneytree/internal/ledger"
)

type accountRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Limit    string `json:"limit,omitempty"`
	Currency string `json:"currency"`
}

type accountPatchRequest struct {
	Name     *string `json:"name,omitempty"`
	Type     *string `json:"type,omitempty"`
	Limit    *string `json:"limit,omitempty"`
	Currency *string `json:"currency,omitempty"`
}

type accountView struct {
	core.Account
	Icon string `json:"icon"`
}

func viewAccount(a core.Account) accountView {
	return accountView{Account: a, Icon: a.Type.Icon()}
}

func (s *Server) handleListAccounts(w http.ResponseWriter, _ *http.Request) {
	accounts := s.ledger.Snapshot().Accounts
	out := make([]accountView, len(accounts))
	for i, a := range accounts {
		out[i] = viewAccount(a)
	}
	writeJSON(w, http.StatusOK, map[string]any{"accounts": out})
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if !readJSON(w, r, &req) {
		return
	}

	cur, ok := core.LookupCurrency(req.Currency)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "unknown currency")
		return
	}

	acc := core.Account{
		Name:         req.Name,
		Type:         core.AccountType(req.Type),
		CurrencyCode: cur.Code,
	}
	if req.Limit != "" {
		cents, err := core.ParseAmount(req.Limit, cur)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		acc.Limit = core.Money{Cents: cents}
	}

	created, err := s.ledger.AddAccount(r.Context(), acc)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewAccount(created))
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountPatchRequest
	if !readJSON(w, r, &req) {
		return
	}

	patch := ledger.AccountPatch{Name: req.Name}
	if req.Type != nil {
		t := core.AccountType(*req.Type)
		patch.Type = &t
	}
	if req.Currency != nil {
		cur, ok := core.LookupCurrency(*req.Currency)
		if !ok {
			writeError(w, http.StatusUnprocessableEntity, "unknown currency")
			return
		}
		patch.CurrencyCode = &cur.Code
	}
	if req.Limit != nil {
		cur := s.ledger.Snapshot().DefaultCurrency
		if patch.CurrencyCode != nil {
			cur, _ = core.LookupCurrency(*patch.CurrencyCode)
		} else {
			for _, a := range s.ledger.Snapshot().Accounts {
				if a.ID == r.PathValue("id") {
					if c, ok := core.LookupCurrency(a.CurrencyCode); ok {
						cur = c
					}
					break
				}
			}
		}
		cents, err := core.ParseAmount(*req.Limit, cur)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		patch.Limit = &core.Money{Cents: cents}
	}

	updated, err := s.ledger.UpdateAccount(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewAccount(updated))
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteAccount(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
