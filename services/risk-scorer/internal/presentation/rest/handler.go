// Package rest exposes the risk scorer over HTTP.
package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/pkg/httpserver"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/application/dto"
)

// Analyzer runs the full analysis of a live transaction.
type Analyzer interface {
	Execute(ctx context.Context, in fraud.TransactionInput) (dto.AssessmentResponse, error)
}

// Scorer scores a transaction against supplied history.
type Scorer interface {
	Execute(ctx context.Context, req dto.ScoreRequest) (dto.AssessmentResponse, error)
}

// Handler serves /analyze and /score.
type Handler struct {
	analyzer Analyzer
	scorer   Scorer
	logger   *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(analyzer Analyzer, scorer Scorer, logger *slog.Logger) *Handler {
	return &Handler{analyzer: analyzer, scorer: scorer, logger: logger}
}

// RegisterRoutes mounts the scoring routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/analyze", h.Analyze)
	r.Post("/score", h.Score)
}

// Analyze handles POST /analyze.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var in fraud.TransactionInput
	if err := httpserver.DecodeJSON(r, &in); err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.analyzer.Execute(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, resp)
}

// Score handles POST /score.
func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	var req dto.ScoreRequest
	if err := httpserver.DecodeJSON(r, &req); err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.scorer.Execute(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case fraud.IsValidationError(err):
		httpserver.WriteError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, context.Canceled):
		httpserver.WriteError(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		h.logger.ErrorContext(r.Context(), "scoring failed", "path", r.URL.Path, "error", err)
		httpserver.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
