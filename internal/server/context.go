package server

import (
	"encoding/json"
	"net/http"

	"taskwise/internal/models"
	"taskwise/internal/storage"
)

func (s *Server) handleGetContextEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.manager.Get(r.Context()).GetContextEntries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch context entries")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCreateContextEntry(w http.ResponseWriter, r *http.Request) {
	var in storage.ContextEntryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	if !models.ValidSourceType(in.SourceType) {
		writeError(w, http.StatusBadRequest, "sourceType must be one of email, message, note")
		return
	}

	entry, err := s.manager.Get(r.Context()).CreateContextEntry(r.Context(), in)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create context entry")
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// handleProcessContext creates the posted entries, runs the AI extraction
// once over the batch, and writes the results back into each entry.
func (s *Server) handleProcessContext(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Entries []storage.ContextEntryInput `json:"entries"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(body.Entries) == 0 {
		writeError(w, http.StatusBadRequest, "Entries array is required")
		return
	}
	for _, in := range body.Entries {
		if in.Content == "" || !models.ValidSourceType(in.SourceType) {
			writeError(w, http.StatusBadRequest, "each entry needs content and a valid sourceType")
			return
		}
	}

	store := s.manager.Get(r.Context())

	created := make([]models.ContextEntry, 0, len(body.Entries))
	for _, in := range body.Entries {
		entry, err := store.CreateContextEntry(r.Context(), in)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to create context entry")
			return
		}
		created = append(created, *entry)
	}

	insights, err := s.ai.ProcessContext(r.Context(), created)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to process context with AI")
		return
	}

	insightsJSON, err := json.Marshal(insights)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to process context with AI")
		return
	}
	extractedJSON, err := json.Marshal(insights.ExtractedTasks)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to process context with AI")
		return
	}

	processed := true
	for _, entry := range created {
		_, err := store.UpdateContextEntry(r.Context(), entry.ID, storage.ContextEntryUpdate{
			ProcessedInsights: models.JSONPayload(insightsJSON),
			ExtractedTasks:    models.JSONPayload(extractedJSON),
			IsProcessed:       &processed,
		})
		if err != nil {
			writeStorageError(w, err, "Failed to update context entry")
			return
		}
	}

	writeJSON(w, http.StatusOK, insights)
}
