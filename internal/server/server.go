// Package server exposes the JSON HTTP API consumed by the dashboard. It is
// a thin layer over the storage contract and the AI client: storage
// not-found errors map to 404, validation failures to 400, everything else
// to 500.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"taskwise/internal/ai"
	"taskwise/internal/storage"
)

type Server struct {
	manager *storage.Manager
	ai      *ai.Client
}

func New(manager *storage.Manager, aiClient *ai.Client) *Server {
	return &Server{manager: manager, ai: aiClient}
}

// Routes builds the full route table. CORS is applied by the caller.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /api/tasks", s.handleGetTasks)
	mux.HandleFunc("POST /api/tasks", s.handleCreateTask)
	mux.HandleFunc("GET /api/tasks/{id}", s.handleGetTask)
	mux.HandleFunc("PATCH /api/tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDeleteTask)
	mux.HandleFunc("POST /api/tasks/ai-enhance", s.handleEnhanceTask)
	mux.HandleFunc("POST /api/tasks/prioritize", s.handlePrioritizeTasks)

	mux.HandleFunc("GET /api/context", s.handleGetContextEntries)
	mux.HandleFunc("POST /api/context", s.handleCreateContextEntry)
	mux.HandleFunc("POST /api/context/process", s.handleProcessContext)

	mux.HandleFunc("GET /api/ai/suggestions", s.handleSuggestions)

	mux.HandleFunc("GET /api/categories", s.handleGetCategories)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)

	mux.HandleFunc("GET /api/storage", s.handleStorageInfo)
	mux.HandleFunc("POST /api/storage/reprobe", s.handleStorageReprobe)

	return s.withRequestLog(mux)
}

func (s *Server) handleStorageInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.manager.Info())
}

func (s *Server) handleStorageReprobe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.manager.Reprobe(r.Context()))
}

// withRequestLog tags every request with an id and logs method, path,
// status and duration.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log.Printf("[%s] %s %s -> %d in %v", requestID, r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

type apiError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiError{Error: message})
}

// writeStorageError maps storage errors onto HTTP statuses: not-found
// becomes 404 with the storage message, anything else the generic fallback.
func writeStorageError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, fallback)
}
