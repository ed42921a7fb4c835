package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fraudguard/fraudguard/pkg/config"
	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/domain/service"
)

// AI modes.
const (
	AIModeMock   = "mock"
	AIModeGemini = "gemini"
)

// Config holds all configuration for the risk scorer.
type Config struct {
	config.Common

	HTTPPort         int
	GatewayURL       string
	ExplainAgentURL  string
	HistoryLimit     int
	StrictValidation bool
	ClientTimeout    time.Duration

	AIMode        string
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	AITimeout     time.Duration

	HighAmountThreshold  decimal.Decimal
	NewRecipientMinScore float64
	Thresholds           fraud.Thresholds

	RedisURL string
	CacheTTL time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	config.LoadDotEnv()

	threshold, err := decimal.NewFromString(config.Get("HIGH_AMOUNT_THRESHOLD", "1000"))
	if err != nil {
		threshold = service.DefaultHeuristicConfig().HighAmountThreshold
	}

	return Config{
		Common:           config.LoadCommon(),
		HTTPPort:         config.Int("HTTP_PORT", 8081),
		GatewayURL:       config.Get("MCP_GATEWAY_URL", "http://localhost:8080"),
		ExplainAgentURL:  config.Get("EXPLAIN_AGENT_URL", "http://localhost:8082"),
		HistoryLimit:     config.Int("HISTORY_LIMIT", 100),
		StrictValidation: config.Bool("STRICT_VALIDATION", true),
		ClientTimeout:    config.Duration("HTTP_CLIENT_TIMEOUT", 10*time.Second),

		AIMode:        strings.ToLower(config.Get("AI_MODE", AIModeMock)),
		GeminiAPIKey:  config.Get("GEMINI_API_KEY", ""),
		GeminiModel:   config.Get("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL: config.Get("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		AITimeout:     config.Duration("AI_TIMEOUT", 10*time.Second),

		HighAmountThreshold:  threshold,
		NewRecipientMinScore: config.Float("NEW_RECIPIENT_MIN_SCORE", 0.8),
		Thresholds:           config.Thresholds(),

		RedisURL: config.Get("REDIS_URL", ""),
		CacheTTL: config.Duration("CACHE_TTL", 24*time.Hour),
	}
}

// Validate checks the settings that would otherwise fail at request time.
func (c Config) Validate() error {
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	if c.NewRecipientMinScore <= 0 || c.NewRecipientMinScore > 1 {
		return fmt.Errorf("NEW_RECIPIENT_MIN_SCORE must be in (0, 1], got %v", c.NewRecipientMinScore)
	}
	if c.HistoryLimit < 1 || c.HistoryLimit > 100 {
		return fmt.Errorf("HISTORY_LIMIT must be in [1, 100], got %d", c.HistoryLimit)
	}
	if err := config.ValidateURL("MCP_GATEWAY_URL", c.GatewayURL); err != nil {
		return err
	}
	if c.ExplainAgentURL != "" {
		if err := config.ValidateURL("EXPLAIN_AGENT_URL", c.ExplainAgentURL); err != nil {
			return err
		}
	}
	switch c.AIMode {
	case AIModeMock:
	case AIModeGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when AI_MODE=%s", AIModeGemini)
		}
	default:
		return fmt.Errorf("unknown AI_MODE %q", c.AIMode)
	}
	return nil
}

// HeuristicConfig returns the heuristic scorer settings.
func (c Config) HeuristicConfig() service.HeuristicConfig {
	return service.HeuristicConfig{
		HighAmountThreshold:  c.HighAmountThreshold,
		NewRecipientMinScore: c.NewRecipientMinScore,
	}
}

// HTTPAddress returns the full HTTP listen address.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
