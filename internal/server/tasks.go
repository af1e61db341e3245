package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"taskwise/internal/ai"
	"taskwise/internal/models"
	"taskwise/internal/storage"
)

func (s *Server) handleGetTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.manager.Get(r.Context()).GetTasks(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch tasks")
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	task, err := s.manager.Get(r.Context()).GetTaskByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch task")
		return
	}
	if task == nil {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var in storage.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if in.Category == "" {
		writeError(w, http.StatusBadRequest, "category is required")
		return
	}
	if !models.ValidPriority(in.Priority) {
		writeError(w, http.StatusBadRequest, "priority must be one of high, medium, low")
		return
	}
	if in.Status != "" && in.Status != models.TaskStatusPending && in.Status != models.TaskStatusCompleted {
		writeError(w, http.StatusBadRequest, "status must be pending or completed")
		return
	}

	task, err := s.manager.Get(r.Context()).CreateTask(r.Context(), in)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create task")
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	var in storage.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Priority != nil && !models.ValidPriority(*in.Priority) {
		writeError(w, http.StatusBadRequest, "priority must be one of high, medium, low")
		return
	}

	task, err := s.manager.Get(r.Context()).UpdateTask(r.Context(), id, in)
	if err != nil {
		writeStorageError(w, err, "Failed to update task")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	if err := s.manager.Get(r.Context()).DeleteTask(r.Context(), id); err != nil {
		writeStorageError(w, err, "Failed to delete task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEnhanceTask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Category    string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	entries, err := s.manager.Get(r.Context()).GetContextEntries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch context entries")
		return
	}

	suggestion, err := s.ai.EnhanceTask(r.Context(), ai.EnhanceTaskInput{
		Title:          body.Title,
		Description:    body.Description,
		Category:       body.Category,
		ContextEntries: firstN(entries, 5),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to enhance task with AI")
		return
	}
	writeJSON(w, http.StatusOK, suggestion)
}

func (s *Server) handlePrioritizeTasks(w http.ResponseWriter, r *http.Request) {
	store := s.manager.Get(r.Context())

	tasks, err := store.GetTasks(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch tasks")
		return
	}
	entries, err := store.GetContextEntries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch context entries")
		return
	}

	// AI failures degrade to the stored order inside PrioritizeTasks.
	writeJSON(w, http.StatusOK, s.ai.PrioritizeTasks(r.Context(), tasks, firstN(entries, 10)))
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	store := s.manager.Get(r.Context())

	tasks, err := store.GetTasks(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch tasks")
		return
	}
	entries, err := store.GetContextEntries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch context entries")
		return
	}

	writeJSON(w, http.StatusOK, s.ai.GenerateSuggestions(r.Context(), tasks, firstN(entries, 5)))
}

func firstN(entries []models.ContextEntry, n int) []models.ContextEntry {
	if len(entries) > n {
		return entries[:n]
	}
	return entries
}
