// Package rest exposes the watcher's status over HTTP.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fraudguard/fraudguard/pkg/httpserver"
	"github.com/fraudguard/fraudguard/services/txn-watcher/internal/application/dto"
)

// StatusReporter reports watcher progress.
type StatusReporter interface {
	Status() dto.StatusResponse
}

// Handler serves /status.
type Handler struct {
	status StatusReporter
}

// NewHandler creates a Handler.
func NewHandler(status StatusReporter) *Handler {
	return &Handler{status: status}
}

// RegisterRoutes mounts the routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/status", h.Status)
}

// Status handles GET /status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	httpserver.WriteJSON(w, http.StatusOK, h.status.Status())
}
