package rest_test

import (
	"context"
	"encoding/json"
	"errors"
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
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/application/dto"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/application/usecase"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/domain/service"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/presentation/rest"
)

type mockAnalyzer struct {
	executeFunc func(ctx context.Context, in fraud.TransactionInput) (dto.AssessmentResponse, error)
}

func (m *mockAnalyzer) Execute(ctx context.Context, in fraud.TransactionInput) (dto.AssessmentResponse, error) {
	return m.executeFunc(ctx, in)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRouter(analyzer rest.Analyzer) http.Handler {
	scorer := service.NewHybridScorer(service.NewHeuristicRiskScorer(service.DefaultHeuristicConfig()), nil, 0, discardLogger())
	score := usecase.NewScoreTransaction(usecase.NewPipeline(scorer, fraud.DefaultActionPolicy()), true)

	r := chi.NewRouter()
	rest.NewHandler(analyzer, score, discardLogger()).RegisterRoutes(r)
	return r
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAnalyze(t *testing.T) {
	t.Run("returns the assessment", func(t *testing.T) {
		var got fraud.TransactionInput
		analyzer := &mockAnalyzer{executeFunc: func(_ context.Context, in fraud.TransactionInput) (dto.AssessmentResponse, error) {
			got = in
			return dto.AssessmentResponse{TransactionID: in.TransactionID, RiskScore: 0.8, RiskLevel: "high", Action: "hold"}, nil
		}}

		rec := post(t, newRouter(analyzer), "/analyze",
			`{"transaction_id":"txn_1","account_id":"acc_001","amount":1500,"label":"acct:999","timestamp":"2025-03-12T14:00:00Z"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp dto.AssessmentResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "txn_1", resp.TransactionID)
		assert.Equal(t, "hold", resp.Action)
		require.NotNil(t, got.Amount)
		assert.Equal(t, "1500", got.Amount.String())
	})

	t.Run("validation errors are 422", func(t *testing.T) {
		analyzer := &mockAnalyzer{executeFunc: func(context.Context, fraud.TransactionInput) (dto.AssessmentResponse, error) {
			return dto.AssessmentResponse{}, fraud.ErrMissingAmount
		}}

		rec := post(t, newRouter(analyzer), "/analyze", `{"transaction_id":"txn_1"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "amount is required")
	})

	t.Run("malformed JSON is 400", func(t *testing.T) {
		rec := post(t, newRouter(&mockAnalyzer{}), "/analyze", `{"transaction_id":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unexpected errors are 500", func(t *testing.T) {
		analyzer := &mockAnalyzer{executeFunc: func(context.Context, fraud.TransactionInput) (dto.AssessmentResponse, error) {
			return dto.AssessmentResponse{}, errors.New("boom")
		}}

		rec := post(t, newRouter(analyzer), "/analyze", `{"transaction_id":"txn_1"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "boom")
	})
}

func TestScore(t *testing.T) {
	body := `{
		"transaction": {"transaction_id":"txn_1","account_id":"acc_001","amount":1500,"label":"acct:999","timestamp":"2025-03-12T12:00:00Z"},
		"history": []
	}`

	rec := post(t, newRouter(&mockAnalyzer{}), "/score", body)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.AssessmentResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.InDelta(t, 0.8, resp.RiskScore, 1e-9)
	assert.Equal(t, "high", resp.RiskLevel)
	assert.Equal(t, "hold", resp.Action)
	assert.Equal(t, "heuristic", resp.Source)
	assert.True(t, resp.Signals.NewRecipient)
}

func TestScore_MissingTimestampIs422(t *testing.T) {
	rec := post(t, newRouter(&mockAnalyzer{}), "/score", `{"transaction":{"transaction_id":"t","amount":1}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
