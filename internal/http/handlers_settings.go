package http

import (
	"net/http"

	"moneytree/internal/core"
)

type currencyRequest struct {
	Currency string `json:"currency"`
}

func (s *Server) handleListCurrencies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"currencies": core.Currencies})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	state := s.ledger.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"defaultCurrency": state.DefaultCurrency,
		"darkMode":        state.DarkMode,
	})
}

func (s *Server) handleSetCurrency(w http.ResponseWriter, r *http.Request) {
	var req currencyRequest
	if !readJSON(w, r, &req) {
		return
	}

	cur, err := s.ledger.SetDefaultCurrency(r.Context(), req.Currency)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "unknown currency")
		return
	}
	s.invalidateDashboards()
	writeJSON(w, http.StatusOK, map[string]any{"defaultCurrency": cur})
}

func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	dark := s.ledger.ToggleDarkMode(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"darkMode": dark})
}

// handleReset wipes transactions, budgets, and targets, restoring the
// seed categories and the cash account. Currency and theme survive.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.ledger.Reset(r.Context())
	s.invalidateDashboards()
	w.WriteHeader(http.StatusNoContent)
}
