package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cronwizard/internal/core"
	"cronwizard/internal/store"

	"github.com/go-chi/chi/v5"
)

type createJobRequest struct {
	Comment string `json:"comment"`
	Command string `json:"command"`
	Cron    string `json:"cron"`
}

type jobResponse struct {
	ID        string `json:"id"`
	Comment   string `json:"comment,omitempty"`
	Command   string `json:"command"`
	Cron      string `json:"cron"`
	Line      string `json:"line"`
	CreatedAt string `json:"created_at"`
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}

	req.Command = strings.TrimSpace(req.Command)
	req.Cron = strings.TrimSpace(req.Cron)
	req.Comment = strings.TrimSpace(req.Comment)
	if req.Command == "" {
		writeError(w, http.StatusBadRequest, "invalid_input", "command is required")
		return
	}
	if strings.ContainsAny(req.Command+req.Comment, "\r\n") {
		writeError(w, http.StatusBadRequest, "invalid_input", "command and comment must be single lines")
		return
	}
	if req.Cron == "" {
		writeError(w, http.StatusBadRequest, "invalid_input", "cron expression is required")
		return
	}
	if _, err := core.ParseCron(req.Cron); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_cron", err.Error())
		return
	}

	job := &core.Job{
		ID:        core.NewID(),
		Comment:   req.Comment,
		Command:   req.Command,
		Cron:      req.Cron,
		CreatedAt: s.now().UTC(),
	}
	if err := s.sink.Commit(r.Context(), job); err != nil {
		s.logger.Error("commit job", "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to commit job")
		return
	}
	writeJSON(w, http.StatusCreated, jobToResponse(job))
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	limit := parseIntDefault(r.URL.Query().Get("limit"), 50)
	jobs, err := s.store.ListJobs(r.Context(), limit)
	if err != nil {
		s.logger.Error("list jobs", "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list jobs")
		return
	}
	res := make([]jobResponse, 0, len(jobs))
	for _, j := range jobs {
		res = append(res, jobToResponse(j))
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job, err := s.store.GetJob(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, store.ErrJobNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "job not found")
		} else {
			s.logger.Error("get job", "job_id", jobID, "err", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to load job")
		}
		return
	}
	writeJSON(w, http.StatusOK, jobToResponse(job))
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	if err := s.store.DeleteJob(r.Context(), jobID); err != nil {
		if errors.Is(err, store.ErrJobNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "job not found")
		} else {
			s.logger.Error("delete job", "job_id", jobID, "err", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete job")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func jobToResponse(job *core.Job) jobResponse {
	return jobResponse{
		ID:        job.ID,
		Comment:   job.Comment,
		Command:   job.Command,
		Cron:      job.Cron,
		Line:      job.Line(),
		CreatedAt: job.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func parseIntDefault(value string, def int) int {
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	payload := map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	}
	writeJSON(w, status, payload)
}
