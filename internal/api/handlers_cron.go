package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cronwizard/internal/core"
	"cronwizard/internal/wizard"
)

type cronPreviewRequest struct {
	Expr  string `json:"expr"`
	Now   string `json:"now,omitempty"`
	Count int    `json:"count,omitempty"`
}

type cronPreviewResponse struct {
	Valid     bool     `json:"valid"`
	Expr      string   `json:"expr,omitempty"`
	NextTimes []string `json:"next_times,omitempty"`
	Message   string   `json:"message,omitempty"`
}

type constraintRequest struct {
	Type   string `json:"type"`
	Values []int  `json:"values,omitempty"`
}

type cronRenderRequest struct {
	Fields map[string]constraintRequest `json:"fields"`
	Now    string                       `json:"now,omitempty"`
	Count  int                          `json:"count,omitempty"`
}

func (s *Server) handleCronPreview(w http.ResponseWriter, r *http.Request) {
	var req cronPreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, cronPreviewResponse{Valid: false, Message: "invalid JSON payload"})
		return
	}
	expr := strings.TrimSpace(req.Expr)
	if expr == "" {
		writeJSON(w, http.StatusBadRequest, cronPreviewResponse{Valid: false, Message: "cron expression is required"})
		return
	}
	s.writePreview(w, expr, req.Now, req.Count)
}

// handleCronRender builds an expression from per-field constraints, the same
// values the interactive wizard produces.
func (s *Server) handleCronRender(w http.ResponseWriter, r *http.Request) {
	var req cronRenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, cronPreviewResponse{Valid: false, Message: "invalid JSON payload"})
		return
	}
	expr, err := renderFields(req.Fields)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, cronPreviewResponse{Valid: false, Message: err.Error()})
		return
	}
	s.writePreview(w, expr.String(), req.Now, req.Count)
}

func renderFields(fields map[string]constraintRequest) (wizard.Expression, error) {
	constraints := make(map[wizard.FieldKind]wizard.Constraint, len(fields))
	for name, spec := range fields {
		kind, ok := wizard.ParseFieldKind(strings.ToLower(name))
		if !ok {
			return wizard.Expression{}, fmt.Errorf("unknown field %q", name)
		}
		if _, dup := constraints[kind]; dup {
			return wizard.Expression{}, fmt.Errorf("field %s given more than once", kind)
		}
		c, err := wizard.NewConstraint(spec.Type, spec.Values)
		if err != nil {
			return wizard.Expression{}, fmt.Errorf("%s: %w", name, err)
		}
		constraints[kind] = c
	}
	return wizard.FromConstraints(constraints)
}

func (s *Server) writePreview(w http.ResponseWriter, expr, now string, count int) {
	schedule, err := core.ParseCron(expr)
	if err != nil {
		writeJSON(w, http.StatusOK, cronPreviewResponse{Valid: false, Expr: expr, Message: err.Error()})
		return
	}

	if count <= 0 || count > 10 {
		count = 5
	}

	base := s.now().In(s.location)
	if now != "" {
		if parsed, err := time.Parse(time.RFC3339, now); err == nil {
			base = parsed.In(s.location)
		}
	}

	times := core.NextOccurrences(schedule, base, count)
	formatted := make([]string, 0, len(times))
	for _, t := range times {
		formatted = append(formatted, t.UTC().Format(time.RFC3339))
	}
	writeJSON(w, http.StatusOK, cronPreviewResponse{Valid: true, Expr: expr, NextTimes: formatted})
}
