package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/fraudguard/fraudguard/pkg/config"
)

// Config holds all configuration for the dashboard.
type Config struct {
	config.Common

	HTTPPort        int
	GatewayURL      string
	OrchestratorURL string
	RefreshInterval time.Duration
	RecentLimit     int
	ClientTimeout   time.Duration
	CORSOrigins     []string

	Username      string
	Password      string
	SessionSecret string
	SessionTTL    time.Duration
	SecureCookie  bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	config.LoadDotEnv()

	common := config.LoadCommon()
	return Config{
		Common:          common,
		HTTPPort:        config.Int("HTTP_PORT", 8086),
		GatewayURL:      config.Get("MCP_GATEWAY_URL", "http://localhost:8080"),
		OrchestratorURL: config.Get("ACTION_ORCHESTRATOR_URL", "http://localhost:8083"),
		RefreshInterval: config.Duration("REFRESH_INTERVAL_SECONDS", 10*time.Second),
		RecentLimit:     config.Int("RECENT_LIMIT", 100),
		ClientTimeout:   config.Duration("HTTP_CLIENT_TIMEOUT", 10*time.Second),
		CORSOrigins:     config.List("CORS_ALLOWED_ORIGINS", []string{"*"}),

		Username:      config.Get("DASHBOARD_USERNAME", "admin"),
		Password:      config.Get("DASHBOARD_PASSWORD", "admin"),
		SessionSecret: config.Get("DASHBOARD_SESSION_SECRET", common.Auth.Secret),
		SessionTTL:    config.Duration("DASHBOARD_SESSION_TTL", 8*time.Hour),
		SecureCookie:  config.Bool("DASHBOARD_SECURE_COOKIE", false),
	}
}

// Validate checks the settings that would otherwise fail at runtime.
func (c Config) Validate() error {
	var errs []error
	if c.Username == "" || c.Password == "" {
		errs = append(errs, errors.New("DASHBOARD_USERNAME and DASHBOARD_PASSWORD are required"))
	}
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("DASHBOARD_SESSION_SECRET is required"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("DASHBOARD_SESSION_TTL must be positive, got %s", c.SessionTTL))
	}
	if c.RecentLimit < 1 || c.RecentLimit > 500 {
		errs = append(errs, fmt.Errorf("RECENT_LIMIT must be in [1, 500], got %d", c.RecentLimit))
	}
	if err := config.ValidateURL("MCP_GATEWAY_URL", c.GatewayURL); err != nil {
		errs = append(errs, err)
	}
	if err := config.ValidateURL("ACTION_ORCHESTRATOR_URL", c.OrchestratorURL); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// HTTPAddress returns the full HTTP listen address.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
