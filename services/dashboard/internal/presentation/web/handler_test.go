package web_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/pkg/testutil"
	"github.com/fraudguard/fraudguard/services/dashboard/internal/infrastructure/orchestrator"
	"github.com/fraudguard/fraudguard/services/dashboard/internal/infrastructure/session"
	"github.com/fraudguard/fraudguard/services/dashboard/internal/presentation/web"
)

// --- Mock implementations ---

type mockFeed struct {
	recentFunc func(limit int) ([]fraud.TransactionRecord, error)
}

func (m *mockFeed) Recent(_ context.Context, limit int) ([]fraud.TransactionRecord, error) {
	return m.recentFunc(limit)
}

type mockExecutor struct {
	got         []orchestrator.ExecuteRequest
	executeFunc func(req orchestrator.ExecuteRequest) (orchestrator.ExecuteResponse, error)
}

func (m *mockExecutor) Execute(_ context.Context, req orchestrator.ExecuteRequest) (orchestrator.ExecuteResponse, error) {
	m.got = append(m.got, req)
	return m.executeFunc(req)
}

type fixture struct {
	router   chi.Router
	sessions *session.Manager
	feed     *mockFeed
	executor *mockExecutor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	sessions, err := session.NewManager("test-secret", "fraudguard-dashboard", time.Hour, false)
	require.NoError(t, err)

	f := &fixture{
		sessions: sessions,
		feed: &mockFeed{recentFunc: func(int) ([]fraud.TransactionRecord, error) {
			return nil, nil
		}},
		executor: &mockExecutor{executeFunc: func(req orchestrator.ExecuteRequest) (orchestrator.ExecuteResponse, error) {
			return orchestrator.ExecuteResponse{
				TransactionID: req.TransactionID,
				Action:        req.Action,
				Success:       true,
				Message:       "Notification sent for transaction " + req.TransactionID,
			}, nil
		}},
	}
	f.router = chi.NewRouter()
	web.NewHandler(f.feed, f.executor, sessions, web.Options{
		Credentials:     web.Credentials{Username: "admin", Password: "admin"},
		RecentLimit:     100,
		RefreshInterval: 10 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(f.router)
	return f
}

func (f *fixture) sessionCookie(t *testing.T) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, f.sessions.Issue(rec, "admin"))
	return rec.Result().Cookies()[0]
}

func (f *fixture) do(req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func loginRequest(username, password string) *http.Request {
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// --- Tests ---

func TestLogin(t *testing.T) {
	f := newFixture(t)

	t.Run("valid credentials set a session", func(t *testing.T) {
		rec := f.do(loginRequest("admin", "admin"), nil)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, session.CookieName, cookies[0].Name)
	})

	t.Run("invalid credentials return to the form", func(t *testing.T) {
		rec := f.do(loginRequest("admin", "wrong"), nil)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login?failed", rec.Header().Get("Location"))
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("form shows the failure", func(t *testing.T) {
		rec := f.do(httptest.NewRequest(http.MethodGet, "/login?failed", nil), nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid username or password")
	})

	t.Run("logged-in users skip the form", func(t *testing.T) {
		rec := f.do(httptest.NewRequest(http.MethodGet, "/login", nil), f.sessionCookie(t))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})
}

func TestLogout(t *testing.T) {
	f := newFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/logout", nil), f.sessionCookie(t))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestDashboard_RequiresLogin(t *testing.T) {
	f := newFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestDashboard_RendersTransactions(t *testing.T) {
	f := newFixture(t)
	var gotLimit int
	f.feed.recentFunc = func(limit int) ([]fraud.TransactionRecord, error) {
		gotLimit = limit
		score := 0.85
		return []fraud.TransactionRecord{
			testutil.Transaction("txn_1", "2500", testutil.ToMerchant("<b>Electronics</b>"), func(r *fraud.TransactionRecord) {
				r.RiskScore = &score
				r.RiskLevel = "high"
				r.RiskExplanation = "🚨 High Risk: Unusual amount. This transaction requires immediate attention."
			}),
		}, nil
	}

	rec := f.do(httptest.NewRequest(http.MethodGet, "/", nil), f.sessionCookie(t))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, 100, gotLimit)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, body, `content="10"`)
	assert.Contains(t, body, "High Risk: 1")
	assert.Contains(t, body, "$2,500.00")
	assert.Contains(t, body, `data-tx="txn_1"`)
	assert.Contains(t, body, `data-score="0.85"`)
	assert.Contains(t, body, "badge-high")
	assert.Contains(t, body, "&lt;b&gt;Electronics&lt;/b&gt;")
	assert.NotContains(t, body, "<b>Electronics</b>")
	// once in the analysis cell, once in the notify payload
	assert.Equal(t, 2, strings.Count(body, "Unusual amount"))
	assert.Contains(t, body, `class="explanation"`)
}

func TestDashboard_FeedUnavailable(t *testing.T) {
	f := newFixture(t)
	f.feed.recentFunc = func(int) ([]fraud.TransactionRecord, error) {
		return nil, errors.New("gateway down")
	}

	rec := f.do(httptest.NewRequest(http.MethodGet, "/", nil), f.sessionCookie(t))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "temporarily unavailable")
	assert.Contains(t, rec.Body.String(), "No transactions yet")
}

func notifyRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/notify", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestNotify(t *testing.T) {
	f := newFixture(t)

	rec := f.do(notifyRequest(`{"transaction_id":"txn_1","risk_score":0.85,"explanation":"🚨 High Risk"}`), f.sessionCookie(t))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, f.executor.got, 1)
	assert.Equal(t, orchestrator.ExecuteRequest{
		TransactionID: "txn_1",
		RiskScore:     0.85,
		Action:        "notify",
		Explanation:   "🚨 High Risk",
	}, f.executor.got[0])

	var resp orchestrator.ExecuteResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Notification sent for transaction txn_1", resp.Message)
}

func TestNotify_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		loggedIn   bool
		execErr    error
		wantStatus int
		wantMsg    string
	}{
		{"not logged in", `{"transaction_id":"txn_1"}`, false, nil, http.StatusUnauthorized, "login required"},
		{"malformed body", `{`, true, nil, http.StatusBadRequest, "invalid JSON body"},
		{"missing transaction", `{"action":"hold"}`, true, nil, http.StatusBadRequest, "transaction_id is required"},
		{"orchestrator failure", `{"transaction_id":"txn_1"}`, true, errors.New("status 503"), http.StatusBadGateway, "notify failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.execErr != nil {
				f.executor.executeFunc = func(orchestrator.ExecuteRequest) (orchestrator.ExecuteResponse, error) {
					return orchestrator.ExecuteResponse{}, tt.execErr
				}
			}
			var cookie *http.Cookie
			if tt.loggedIn {
				cookie = f.sessionCookie(t)
			}

			rec := f.do(notifyRequest(tt.body), cookie)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var resp struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.False(t, resp.Success)
			assert.Contains(t, resp.Message, tt.wantMsg)
		})
	}
}
