// Package rest exposes the action orchestrator over HTTP.
package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/pkg/httpserver"
	"github.com/fraudguard/fraudguard/services/action-orchestrator/internal/application/dto"
)

// Executor runs an action.
type Executor interface {
	Execute(ctx context.Context, req dto.ExecuteRequest) (dto.ActionResponse, error)
}

// Handler serves /execute and /thresholds.
type Handler struct {
	executor   Executor
	thresholds fraud.Thresholds
	logger     *slog.Logger
}

// NewHandler creates a Handler reporting thresholds on /thresholds.
func NewHandler(executor Executor, thresholds fraud.Thresholds, logger *slog.Logger) *Handler {
	return &Handler{executor: executor, thresholds: thresholds, logger: logger}
}

// RegisterRoutes mounts the routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/execute", h.Execute)
	r.Get("/thresholds", h.Thresholds)
}

// Execute handles POST /execute.
func (h *Handler) Execute(w http.ResponseWriter, r *http.Request) {
	var req dto.ExecuteRequest
	if err := httpserver.DecodeJSON(r, &req); err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.executor.Execute(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, resp)
}

// Thresholds handles GET /thresholds.
func (h *Handler) Thresholds(w http.ResponseWriter, _ *http.Request) {
	httpserver.WriteJSON(w, http.StatusOK, h.thresholds)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, fraud.ErrUnknownAction):
		httpserver.WriteError(w, http.StatusBadRequest, err.Error())
	case fraud.IsValidationError(err):
		httpserver.WriteError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, context.Canceled):
		httpserver.WriteError(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		h.logger.ErrorContext(r.Context(), "action execution failed", "path", r.URL.Path, "error", err)
		httpserver.WriteError(w, http.StatusInternalServerError, "action execution failed")
	}
}
