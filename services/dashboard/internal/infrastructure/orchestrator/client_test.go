package orchestrator_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudguard/fraudguard/pkg/httpclient"
	"github.com/fraudguard/fraudguard/services/dashboard/internal/infrastructure/orchestrator"
)

func TestClient_Execute(t *testing.T) {
	var got orchestrator.ExecuteRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/execute", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"transaction_id":"t1","action":"notify","success":true,"message":"Notification sent for transaction t1"}`))
	}))
	defer srv.Close()

	c := orchestrator.NewClient(httpclient.New(srv.URL, httpclient.WithRetries(0)))
	resp, err := c.Execute(context.Background(), orchestrator.ExecuteRequest{
		TransactionID: "t1",
		RiskScore:     0.42,
		Action:        "notify",
		Explanation:   "⚠️ Medium Risk",
	})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Notification sent for transaction t1", resp.Message)
	assert.Equal(t, 0.42, got.RiskScore)
	assert.Equal(t, "⚠️ Medium Risk", got.Explanation)
}

func TestClient_Execute_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"unknown action"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := orchestrator.NewClient(httpclient.New(srv.URL, httpclient.WithRetries(0)))
	_, err := c.Execute(context.Background(), orchestrator.ExecuteRequest{TransactionID: "t1", Action: "freeze"})

	require.Error(t, err)
	assert.True(t, httpclient.IsStatus(err, http.StatusBadRequest))
	assert.Contains(t, err.Error(), "freeze")
}
