package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/fraudguard/fraudguard/pkg/config"
)

// Config holds all configuration for the bank monitor.
type Config struct {
	config.Common

	HTTPPort       int
	LedgerURL      string
	GatewayURL     string
	PollInterval   time.Duration
	DedupCapacity  int
	ClientTimeout  time.Duration
	ForwardTimeout time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	config.LoadDotEnv()

	return Config{
		Common:         config.LoadCommon(),
		HTTPPort:       config.Int("HTTP_PORT", 8085),
		LedgerURL:      config.Get("BOA_LEDGER_URL", ""),
		GatewayURL:     config.Get("MCP_GATEWAY_URL", "http://localhost:8080"),
		PollInterval:   config.Duration("POLL_INTERVAL", 10*time.Second),
		DedupCapacity:  config.Int("DEDUP_CAPACITY", 1000),
		ClientTimeout:  config.Duration("HTTP_CLIENT_TIMEOUT", 10*time.Second),
		ForwardTimeout: config.Duration("FORWARD_TIMEOUT", 15*time.Second),
	}
}

// Validate checks the settings that would otherwise fail at runtime.
func (c Config) Validate() error {
	var errs []error
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("POLL_INTERVAL must be positive, got %s", c.PollInterval))
	}
	if c.DedupCapacity < 1 {
		errs = append(errs, fmt.Errorf("DEDUP_CAPACITY must be positive, got %d", c.DedupCapacity))
	}
	if c.LedgerURL != "" {
		if err := config.ValidateURL("BOA_LEDGER_URL", c.LedgerURL); err != nil {
			errs = append(errs, err)
		}
	}
	if err := config.ValidateURL("MCP_GATEWAY_URL", c.GatewayURL); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// HTTPAddress returns the full HTTP listen address.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
