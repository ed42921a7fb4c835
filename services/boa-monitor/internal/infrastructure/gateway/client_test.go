package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudguard/fraudguard/pkg/boa"
	"github.com/fraudguard/fraudguard/pkg/httpclient"
	"github.com/fraudguard/fraudguard/services/boa-monitor/internal/infrastructure/gateway"
)

func TestClient_Ingest(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/transactions", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"status":"accepted","transaction_id":"boa_1","message":"Transaction queued for analysis"}`))
	}))
	defer srv.Close()

	amount := decimal.RequireFromString("-45.99")
	entry := boa.LedgerTransaction{
		TransactionID: "boa_1",
		AccountID:     "user_1000",
		Amount:        &amount,
		Description:   "Grocery Store",
		Timestamp:     "2025-03-12T14:00:00Z",
	}

	c := gateway.NewClient(httpclient.New(srv.URL, httpclient.WithRetries(0)))
	status, err := c.Ingest(context.Background(), entry.ToInput())

	require.NoError(t, err)
	assert.Equal(t, "accepted", status)
	assert.Equal(t, "boa_1", body["transaction_id"])
	assert.Equal(t, 45.99, body["amount"])
	assert.Equal(t, "Grocery Store", body["merchant"])
	assert.Equal(t, "bank_of_anthos", body["source"])
}

func TestClient_Ingest_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"timestamp is required"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := gateway.NewClient(httpclient.New(srv.URL, httpclient.WithRetries(0)))
	one := decimal.NewFromInt(1)
	entry := boa.LedgerTransaction{TransactionID: "boa_1", Amount: &one}
	_, err := c.Ingest(context.Background(), entry.ToInput())

	require.Error(t, err)
	assert.True(t, httpclient.IsStatus(err, http.StatusUnprocessableEntity))
}
