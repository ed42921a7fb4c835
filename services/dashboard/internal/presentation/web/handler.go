// Package web serves the dashboard pages.
package web

import (
	"context"
	"crypto/subtle"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/pkg/httpserver"
	"github.com/fraudguard/fraudguard/services/dashboard/internal/domain/service"
	"github.com/fraudguard/fraudguard/services/dashboard/internal/infrastructure/orchestrator"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// TransactionFeed lists recent transactions.
type TransactionFeed interface {
	Recent(ctx context.Context, limit int) ([]fraud.TransactionRecord, error)
}

// ActionExecutor runs an action through the orchestrator.
type ActionExecutor interface {
	Execute(ctx context.Context, req orchestrator.ExecuteRequest) (orchestrator.ExecuteResponse, error)
}

// Sessions issues and checks logins.
type Sessions interface {
	Issue(w http.ResponseWriter, username string) error
	User(r *http.Request) (string, bool)
	Clear(w http.ResponseWriter)
}

// Credentials is the single dashboard login.
type Credentials struct {
	Username string
	Password string
}

// Options configures a Handler.
type Options struct {
	Credentials     Credentials
	RecentLimit     int
	RefreshInterval time.Duration
}

// Handler serves the login flow, the dashboard and the notify proxy.
type Handler struct {
	feed     TransactionFeed
	executor ActionExecutor
	sessions Sessions
	opts     Options
	logger   *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(feed TransactionFeed, executor ActionExecutor, sessions Sessions, opts Options, logger *slog.Logger) *Handler {
	return &Handler{feed: feed, executor: executor, sessions: sessions, opts: opts, logger: logger}
}

// RegisterRoutes mounts the routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/login", h.LoginPage)
	r.Post("/login", h.Login)
	r.Get("/logout", h.Logout)
	r.Get("/", h.Dashboard)
	r.Post("/notify", h.Notify)
}

type loginPage struct {
	Failed bool
}

// LoginPage handles GET /login.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.sessions.User(r); ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.render(w, r, "login.html", loginPage{Failed: r.URL.Query().Has("failed")})
}

// Login handles POST /login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/login?failed", http.StatusFound)
		return
	}
	if !h.validCredentials(r.PostForm.Get("username"), r.PostForm.Get("password")) {
		h.logger.WarnContext(r.Context(), "login failed")
		http.Redirect(w, r, "/login?failed", http.StatusFound)
		return
	}
	if err := h.sessions.Issue(w, h.opts.Credentials.Username); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to issue session", "error", err)
		http.Error(w, "login unavailable", http.StatusInternalServerError)
		return
	}
	h.logger.InfoContext(r.Context(), "login succeeded")
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout handles GET /logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

type dashboardPage struct {
	View           service.View
	User           string
	RefreshSeconds int
	Unavailable    bool
}

// Dashboard handles GET /.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessions.User(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	page := dashboardPage{User: user, RefreshSeconds: int(h.opts.RefreshInterval / time.Second)}
	txs, err := h.feed.Recent(r.Context(), h.opts.RecentLimit)
	if err != nil {
		h.logger.WarnContext(r.Context(), "fetch recent transactions failed", "error", err)
		page.Unavailable = true
	}
	page.View = service.BuildView(txs)
	h.render(w, r, "dashboard.html", page)
}

type notifyRequest struct {
	TransactionID string   `json:"transaction_id"`
	RiskScore     *float64 `json:"risk_score"`
	Action        string   `json:"action"`
	Explanation   string   `json:"explanation"`
}

type notifyFailure struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// Notify handles POST /notify by forwarding the action to the orchestrator.
// The action defaults to notify.
func (h *Handler) Notify(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.sessions.User(r); !ok {
		httpserver.WriteJSON(w, http.StatusUnauthorized, notifyFailure{Message: "login required"})
		return
	}

	var in notifyRequest
	if err := httpserver.DecodeJSON(r, &in); err != nil {
		httpserver.WriteJSON(w, http.StatusBadRequest, notifyFailure{Message: err.Error()})
		return
	}
	if strings.TrimSpace(in.TransactionID) == "" {
		httpserver.WriteJSON(w, http.StatusBadRequest, notifyFailure{Message: "transaction_id is required"})
		return
	}

	req := orchestrator.ExecuteRequest{
		TransactionID: in.TransactionID,
		Action:        strings.TrimSpace(in.Action),
		Explanation:   in.Explanation,
	}
	if req.Action == "" {
		req.Action = fraud.ActionNotify.String()
	}
	if in.RiskScore != nil {
		req.RiskScore = *in.RiskScore
	}

	resp, err := h.executor.Execute(r.Context(), req)
	if err != nil {
		h.logger.WarnContext(r.Context(), "notify failed", "transaction_id", req.TransactionID, "error", err)
		httpserver.WriteJSON(w, http.StatusBadGateway, notifyFailure{Message: "notify failed"})
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) validCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.opts.Credentials.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(h.opts.Credentials.Password)) == 1
	return userOK && passOK
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.ErrorContext(r.Context(), "render failed", "template", name, "error", err)
	}
}
