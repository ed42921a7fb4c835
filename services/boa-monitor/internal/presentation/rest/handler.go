// Package rest exposes the bank monitor over HTTP.
package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fraudguard/fraudguard/pkg/httpserver"
	"github.com/fraudguard/fraudguard/services/boa-monitor/internal/application/dto"
)

// Monitor is the part of the monitor the handler drives.
type Monitor interface {
	Status() dto.StatusResponse
	ManualSync(ctx context.Context) (dto.SyncResponse, error)
}

// Handler serves /status and /manual-sync.
type Handler struct {
	monitor Monitor
	logger  *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(monitor Monitor, logger *slog.Logger) *Handler {
	return &Handler{monitor: monitor, logger: logger}
}

// RegisterRoutes mounts the routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/status", h.Status)
	r.Post("/manual-sync", h.ManualSync)
}

// Status handles GET /status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	httpserver.WriteJSON(w, http.StatusOK, h.monitor.Status())
}

// ManualSync handles POST /manual-sync.
func (h *Handler) ManualSync(w http.ResponseWriter, r *http.Request) {
	resp, err := h.monitor.ManualSync(r.Context())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			httpserver.WriteError(w, http.StatusServiceUnavailable, "request cancelled")
			return
		}
		h.logger.ErrorContext(r.Context(), "manual sync failed", "error", err)
		httpserver.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, resp)
}
