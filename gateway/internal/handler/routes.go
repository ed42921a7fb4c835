// Package handler exposes the gateway's REST API.
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fraudguard/fraudguard/gateway/internal/service"
	"github.com/fraudguard/fraudguard/gateway/internal/store"
	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/pkg/httpserver"
)

// Listing limits.
const (
	DefaultAccountLimit = 10
	MaxAccountLimit     = 100
	DefaultRecentLimit  = 50
	MaxRecentLimit      = 500
)

// Service is the gateway application service.
type Service interface {
	Account(ctx context.Context, id string) service.Account
	AccountTransactions(ctx context.Context, accountID string, limit int) ([]fraud.TransactionRecord, error)
	Ingest(ctx context.Context, in fraud.TransactionInput) (service.IngestResult, error)
	Recent(ctx context.Context, limit int) ([]fraud.TransactionRecord, error)
	Transaction(ctx context.Context, id string) (fraud.TransactionRecord, error)
	AttachRisk(ctx context.Context, id string, score float64, rationale string) (fraud.TransactionRecord, error)
}

// Handler serves the account and transaction routes.
type Handler struct {
	svc    Service
	logger *slog.Logger
}

// New creates a Handler.
func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes mounts all REST routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	// Accounts (read-only)
	r.Get("/accounts/{id}", h.GetAccount)
	r.Get("/accounts/{id}/transactions", h.ListAccountTransactions)

	// Transactions
	r.Route("/api", func(r chi.Router) {
		r.Post("/transactions", h.CreateTransaction)
		r.Get("/transactions/{id}", h.GetTransaction)
		r.Put("/transactions/{id}/risk", h.AttachRisk)
		r.Get("/recent-transactions", h.RecentTransactions)
	})
}

// RecentResponse wraps the recent transaction listing.
type RecentResponse struct {
	Transactions []fraud.TransactionRecord `json:"transactions"`
}

// AttachRiskRequest is the body of PUT /api/transactions/{id}/risk.
type AttachRiskRequest struct {
	RiskScore *float64 `json:"risk_score"`
	Rationale string   `json:"rationale"`
}

// GetAccount handles GET /accounts/{id}.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	httpserver.WriteJSON(w, http.StatusOK, h.svc.Account(r.Context(), id))
}

// ListAccountTransactions handles GET /accounts/{id}/transactions.
func (h *Handler) ListAccountTransactions(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r, DefaultAccountLimit, MaxAccountLimit)
	if err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	recs, err := h.svc.AccountTransactions(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, recs)
}

// CreateTransaction handles POST /api/transactions.
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var in fraud.TransactionInput
	if err := httpserver.DecodeJSON(r, &in); err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.svc.Ingest(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusAccepted, res)
}

// GetTransaction handles GET /api/transactions/{id}.
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Transaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, rec)
}

// AttachRisk handles PUT /api/transactions/{id}/risk.
func (h *Handler) AttachRisk(w http.ResponseWriter, r *http.Request) {
	var req AttachRiskRequest
	if err := httpserver.DecodeJSON(r, &req); err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.RiskScore == nil {
		httpserver.WriteError(w, http.StatusBadRequest, "risk_score is required")
		return
	}

	rec, err := h.svc.AttachRisk(r.Context(), chi.URLParam(r, "id"), *req.RiskScore, req.Rationale)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, rec)
}

// RecentTransactions handles GET /api/recent-transactions.
func (h *Handler) RecentTransactions(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r, DefaultRecentLimit, MaxRecentLimit)
	if err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	recs, err := h.svc.Recent(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, RecentResponse{Transactions: recs})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case fraud.IsValidationError(err), errors.Is(err, service.ErrInvalidScore):
		httpserver.WriteError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, store.ErrNotFound):
		httpserver.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrAlreadyScored):
		httpserver.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, context.Canceled):
		httpserver.WriteError(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		h.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		httpserver.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

// parseLimit reads ?limit=, defaulting to def and capping at maxLimit.
func parseLimit(r *http.Request, def, maxLimit int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("limit must be a positive integer, got %q", raw)
	}
	if n > maxLimit {
		return maxLimit, nil
	}
	return n, nil
}
