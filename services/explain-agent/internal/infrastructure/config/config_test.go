package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/services/explain-agent/internal/infrastructure/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, 8082, cfg.HTTPPort)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, "http://localhost:8083", cfg.OrchestratorURL)
	assert.Equal(t, fraud.DefaultThresholds(), cfg.Thresholds)
	assert.Equal(t, ":8082", cfg.HTTPAddress())
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("ACTION_ORCHESTRATOR_URL", "http://orchestrator:8080")
	t.Setenv("RISK_THRESHOLD_HOLD", "0.9")

	cfg := config.Load()

	assert.Equal(t, 9000, cfg.HTTPPort)
	assert.Equal(t, "http://orchestrator:8080", cfg.OrchestratorURL)
	assert.InDelta(t, 0.9, cfg.Thresholds.Hold, 1e-9)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"thresholds out of order", map[string]string{"RISK_THRESHOLD_STEPUP": "0.9"}},
		{"bad orchestrator url", map[string]string{"ACTION_ORCHESTRATOR_URL": "orchestrator:8080"}},
		{"bad port", map[string]string{"HTTP_PORT": "70000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			assert.Error(t, config.Load().Validate())
		})
	}
}
