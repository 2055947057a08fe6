package server

import (
	"bytes"
	"net/http"
	"sort"
	"time"

	"github.com/abhisek/pathwise/internal/pathgen"
	"github.com/abhisek/pathwise/internal/visualize"
)

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(s.ready))
	for name := range s.ready {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := s.ready[name](r.Context()); err != nil {
			s.logger.Warn("readiness check failed", "check", name, "error", err)
			respondError(w, http.StatusServiceUnavailable, "not_ready", name+" not ready")
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ready",
		"sessions": s.registry.Len(),
	})
}

// Learning path handlers

type generatePathRequest struct {
	Prompt       string   `json:"prompt"`
	SystemPrompt string   `json:"systemPrompt"`
	MaxTokens    int      `json:"maxTokens"`
	Temperature  *float64 `json:"temperature"`
	Raw          bool     `json:"raw"`
}

func (s *Server) handleGeneratePath(w http.ResponseWriter, r *http.Request) {
	var req generatePathRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}

	path, err := s.paths.Generate(r.Context(), pathgen.Input{
		Prompt:       req.Prompt,
		SystemPrompt: req.SystemPrompt,
		MaxTokens:    req.MaxTokens,
		Temperature:  req.Temperature,
		Raw:          req.Raw,
	})
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, path)
}

type contentRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleVisualize(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, visualize.Summarize(req.Content))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := visualize.WriteXLSX(&buf, visualize.Summarize(req.Content)); err != nil {
		s.respondErr(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="learning-path.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Warn("failed to write export", "error", err)
	}
}
