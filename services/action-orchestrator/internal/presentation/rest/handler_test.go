package rest_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/services/action-orchestrator/internal/application/dto"
	"github.com/fraudguard/fraudguard/services/action-orchestrator/internal/application/usecase"
	"github.com/fraudguard/fraudguard/services/action-orchestrator/internal/domain/service"
	"github.com/fraudguard/fraudguard/services/action-orchestrator/internal/presentation/rest"
)

func newRouter() chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uc := usecase.NewExecuteAction(service.NewDispatcher(nil, logger), nil, nil, logger)
	r := chi.NewRouter()
	rest.NewHandler(uc, fraud.DefaultThresholds(), logger).RegisterRoutes(r)
	return r
}

func post(r http.Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/execute", strings.NewReader(body)))
	return rec
}

func TestExecute(t *testing.T) {
	rec := post(newRouter(), `{"transaction_id":"txn_1","risk_score":0.65,"action":"step-up","explanation":"⚠️ Medium Risk"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.ActionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "txn_1", resp.TransactionID)
	assert.Equal(t, "step-up", resp.Action)
	assert.True(t, resp.Success)
	assert.Equal(t, "Step-up authentication triggered for transaction txn_1", resp.Message)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"unknown action", `{"transaction_id":"txn_1","action":"freeze"}`, http.StatusBadRequest, `unknown action: "freeze"`},
		{"malformed json", `{`, http.StatusBadRequest, "invalid JSON body"},
		{"missing transaction id", `{"action":"hold"}`, http.StatusUnprocessableEntity, "transaction_id is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(newRouter(), tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantError)
		})
	}
}

func TestThresholds(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/thresholds", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"notify":0.3,"step_up":0.6,"hold":0.8}`, rec.Body.String())
}
