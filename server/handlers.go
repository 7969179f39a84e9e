package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/xhad/kbase/pkg/query"
)

type askRequest struct {
	Prompt string `json:"prompt"`
}

type askResponse struct {
	Response string `json:"response"`
}

type answerRequest struct {
	Query string `json:"query"`
}

type answerResponse struct {
	Answer string `json:"answer"`
}

type freelancerResponse struct {
	Exists bool   `json:"exists"`
	Name   string `json:"name"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "pong"})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing prompt"})
		return
	}

	response, err := s.config.Asker.Ask(r.Context(), req.Prompt)
	if err != nil {
		s.log.Error("RAG API error", "requestId", RequestIDFromContext(r.Context()), "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "RAG processing failed"})
		return
	}
	writeJSON(w, http.StatusOK, askResponse{Response: response})
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing query"})
		return
	}

	rows, err := s.config.Rows.List(r.Context())
	if err != nil {
		s.log.Error("failed to list knowledge base", "requestId", RequestIDFromContext(r.Context()), "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to read knowledge base"})
		return
	}

	answer, err := s.config.Answerer.Answer(r.Context(), req.Query, rows)
	if err != nil {
		s.log.Error("failed to answer query", "requestId", RequestIDFromContext(r.Context()), "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to answer query"})
		return
	}
	writeJSON(w, http.StatusOK, answerResponse{Answer: answer})
}

func (s *Server) handleFreelancerExists(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing name"})
		return
	}

	rows, err := s.config.Rows.List(r.Context())
	if err != nil {
		s.log.Error("failed to list knowledge base", "requestId", RequestIDFromContext(r.Context()), "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to read knowledge base"})
		return
	}

	exists, fullName := query.FreelancerExistsByName(rows, name)
	writeJSON(w, http.StatusOK, freelancerResponse{Exists: exists, Name: fullName})
}
