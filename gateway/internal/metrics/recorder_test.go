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

	"github.com/fraudguard/fraudguard/gateway/internal/metrics"
	"github.com/fraudguard/fraudguard/pkg/observability"
)

func TestRecorder_RecordIngest(t *testing.T) {
	provider, handler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: "mcp-gateway",
		Registry:    prometheus.NewRegistry(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	recorder, err := metrics.NewRecorder(provider.Meter("mcp-gateway"))
	require.NoError(t, err)

	recorder.RecordIngest(context.Background(), "bank_of_anthos", "accepted")
	recorder.RecordIngest(context.Background(), "bank_of_anthos", "duplicate")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	out := string(body)
	assert.Contains(t, out, "fraudguard_transactions_ingested_total")
	assert.Contains(t, out, `source="bank_of_anthos"`)
	assert.Contains(t, out, `status="duplicate"`)
}
