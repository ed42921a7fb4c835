package metrics_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/pkg/observability"
	"github.com/fraudguard/fraudguard/pkg/testutil"
	"github.com/fraudguard/fraudguard/services/action-orchestrator/internal/domain/model"
	"github.com/fraudguard/fraudguard/services/action-orchestrator/internal/infrastructure/metrics"
)

func TestRecorder_RecordExecution(t *testing.T) {
	provider, handler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: "action-orchestrator",
		Registry:    prometheus.NewRegistry(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	recorder, err := metrics.NewRecorder(provider.Meter("action-orchestrator"))
	require.NoError(t, err)

	result, err := model.NewActionResult("txn_1", fraud.ActionHold, 0.9, false, "Failed to hold transaction", testutil.TestNow)
	require.NoError(t, err)
	recorder.RecordExecution(context.Background(), result)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	out := string(body)
	assert.Contains(t, out, "fraudguard_actions_executed_total")
	assert.Contains(t, out, `action="hold"`)
	assert.Contains(t, out, `success="false"`)
}
