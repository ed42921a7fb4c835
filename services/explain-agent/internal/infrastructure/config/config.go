package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/fraudguard/fraudguard/pkg/config"
	"github.com/fraudguard/fraudguard/pkg/fraud"
)

// Config holds all configuration for the explain agent.
type Config struct {
	config.Common

	HTTPPort        int
	DatabaseURL     string
	DBMaxConns      int32
	OrchestratorURL string
	ClientTimeout   time.Duration
	MemoryCapacity  int
	Thresholds      fraud.Thresholds
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	config.LoadDotEnv()

	return Config{
		Common:          config.LoadCommon(),
		HTTPPort:        config.Int("HTTP_PORT", 8082),
		DatabaseURL:     config.Get("DATABASE_URL", ""),
		DBMaxConns:      int32(config.Int("DB_MAX_CONNS", 10)),
		OrchestratorURL: config.Get("ACTION_ORCHESTRATOR_URL", "http://localhost:8083"),
		ClientTimeout:   config.Duration("HTTP_CLIENT_TIMEOUT", 10*time.Second),
		MemoryCapacity:  config.Int("AUDIT_MEMORY_CAPACITY", 10000),
		Thresholds:      config.Thresholds(),
	}
}

// Validate checks the settings that would otherwise fail at request time.
func (c Config) Validate() error {
	var errs []error
	if err := c.Thresholds.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.OrchestratorURL != "" {
		if err := config.ValidateURL("ACTION_ORCHESTRATOR_URL", c.OrchestratorURL); err != nil {
			errs = append(errs, err)
		}
	}
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("HTTP_PORT must be a valid port, got %d", c.HTTPPort))
	}
	return errors.Join(errs...)
}

// HTTPAddress returns the full HTTP listen address.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
