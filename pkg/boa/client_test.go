package boa_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudguard/fraudguard/pkg/boa"
	"github.com/fraudguard/fraudguard/pkg/httpclient"
)

func newClient(t *testing.T, h http.HandlerFunc) *boa.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return boa.NewClient(httpclient.New(srv.URL, httpclient.WithRetries(0)))
}

func TestClient_Transactions(t *testing.T) {
	var gotQuery string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions", r.URL.Path)
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"transactions":[{"transactionId":"boa_1","accountId":"user_1000","amount":-150.00,"description":"ATM Withdrawal","timestamp":"2025-03-12T14:00:00Z"}]}`))
	})

	txs, err := c.Transactions(context.Background(), "user_1000", 5)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "boa_1", txs[0].TransactionID)
	assert.Equal(t, "-150", txs[0].Amount.String())
	assert.Equal(t, "account_id=user_1000&limit=5", gotQuery)
}

func TestClient_TransactionsWithoutFilter(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"transactions":[]}`))
	})

	txs, err := c.Transactions(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestClient_TransactionsError(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.Transactions(context.Background(), "acc_001", 10)
	require.Error(t, err)
	assert.True(t, httpclient.IsStatus(err, http.StatusNotFound))
}

func TestClient_StepUpAndHold(t *testing.T) {
	var calls []string
	var bodies []map[string]string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		calls = append(calls, r.URL.Path)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		bodies = append(bodies, body)
		w.WriteHeader(http.StatusAccepted)
	})

	require.NoError(t, c.StepUp(context.Background(), "txn_1", "unusual amount"))
	require.NoError(t, c.Hold(context.Background(), "txn 2", "very high risk"))

	assert.Equal(t, []string{"/api/auth/stepup", "/api/transactions/txn 2/hold"}, calls)
	assert.Equal(t, "txn_1", bodies[0]["transaction_id"])
	assert.Equal(t, "very high risk", bodies[1]["reason"])
}
