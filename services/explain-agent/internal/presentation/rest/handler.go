// Package rest exposes the explain agent over HTTP.
package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fraudguard/fraudguard/pkg/httpserver"
	"github.com/fraudguard/fraudguard/services/explain-agent/internal/application/dto"
	"github.com/fraudguard/fraudguard/services/explain-agent/internal/domain/model"
)

// Processor explains and records a scored transaction.
type Processor interface {
	Execute(ctx context.Context, req dto.ProcessRequest) (dto.AuditResponse, error)
}

// AuditGetter returns one audit record.
type AuditGetter interface {
	Execute(ctx context.Context, transactionID string) (dto.AuditResponse, error)
}

// AuditLister returns recent audit records.
type AuditLister interface {
	Execute(ctx context.Context, limit int) ([]dto.AuditResponse, error)
}

// Handler serves /process and the audit routes.
type Handler struct {
	processor Processor
	getter    AuditGetter
	lister    AuditLister
	logger    *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(processor Processor, getter AuditGetter, lister AuditLister, logger *slog.Logger) *Handler {
	return &Handler{processor: processor, getter: getter, lister: lister, logger: logger}
}

// RegisterRoutes mounts the routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/process", h.Process)
	r.Get("/audit", h.ListAudits)
	r.Get("/audit/{transactionID}", h.GetAudit)
}

// Process handles POST /process.
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	var req dto.ProcessRequest
	if err := httpserver.DecodeJSON(r, &req); err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.processor.Execute(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, resp)
}

// GetAudit handles GET /audit/{transactionID}.
func (h *Handler) GetAudit(w http.ResponseWriter, r *http.Request) {
	resp, err := h.getter.Execute(r.Context(), chi.URLParam(r, "transactionID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, resp)
}

// ListAudits handles GET /audit?limit=N.
func (h *Handler) ListAudits(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httpserver.WriteError(w, http.StatusBadRequest, fmt.Sprintf("limit must be a positive integer, got %q", raw))
			return
		}
		limit = n
	}

	resp, err := h.lister.Execute(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case model.IsValidationError(err):
		httpserver.WriteError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, model.ErrNotFound):
		httpserver.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, context.Canceled):
		httpserver.WriteError(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		h.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		httpserver.WriteError(w, http.StatusInternalServerError, "processing failed")
	}
}
