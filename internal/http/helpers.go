package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"moneytree/internal/core"
	"moneytree/internal/ledger"
	"moneytree/internal/ocr"
	"moneytree/internal/services"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// readJSON decodes the request body into v, rejecting unknown fields and
// oversized payloads.
func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// writeDomainError maps domain errors onto HTTP statuses: missing
// entities are 404, policy and validation rejections are 422, the
// last-account guard is a conflict, recognition failures are 502.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrUnknownAccount),
		errors.Is(err, ledger.ErrUnknownBudget),
		errors.Is(err, ledger.ErrUnknownTarget):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrLastAccount):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrCreditLimitExceeded),
		errors.Is(err, ledger.ErrOverContribution),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidAccountType),
		errors.Is(err, core.ErrInvalidTimeFrame),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrEmptyCurrency),
		errors.Is(err, core.ErrDuplicateCategory):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrEmptyImage):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ocr.ErrRecognition):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// currencyParam resolves the ?currency= query parameter, falling back to
// the ledger default.
func (s *Server) currencyParam(r *http.Request) (core.Currency, bool) {
	code := r.URL.Query().Get("currency")
	if code == "" {
		return s.ledger.Snapshot().DefaultCurrency, true
	}
	return core.LookupCurrency(code)
}
