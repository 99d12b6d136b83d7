package http

import (
	"net/http"

	"moneytree/internal/core"
)

type categoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": s.ledger.Snapshot().Categories,
	})
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !readJSON(w, r, &req) {
		return
	}

	created, err := s.ledger.AddCategory(r.Context(), core.Category{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleEditCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !readJSON(w, r, &req) {
		return
	}

	if err := s.ledger.EditCategory(r.Context(), r.PathValue("id"), req.Name, req.Color); err != nil {
		writeDomainError(w, err)
		return
	}
	s.invalidateDashboards()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	s.ledger.DeleteCategory(r.Context(), r.PathValue("id"))
	s.invalidateDashboards()
	w.WriteHeader(http.StatusNoContent)
}
