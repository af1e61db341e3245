package server

import (
	"encoding/json"
	"net/http"

	"taskwise/internal/storage"
)

func (s *Server) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.manager.Get(r.Context()).GetCategories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in storage.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if in.Color == "" {
		writeError(w, http.StatusBadRequest, "color is required")
		return
	}

	category, err := s.manager.Get(r.Context()).CreateCategory(r.Context(), in)
	if err != nil {
		// Duplicate names included: surfaced as a generic failure.
		writeError(w, http.StatusInternalServerError, "Failed to create category")
		return
	}
	writeJSON(w, http.StatusCreated, category)
}
