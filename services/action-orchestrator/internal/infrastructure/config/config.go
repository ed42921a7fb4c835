package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/fraudguard/fraudguard/pkg/config"
	"github.com/fraudguard/fraudguard/pkg/fraud"
)

// Config holds all configuration for the action orchestrator.
type Config struct {
	config.Common

	HTTPPort      int
	BoABaseURL    string
	ClientTimeout time.Duration
	Thresholds    fraud.Thresholds
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	config.LoadDotEnv()

	return Config{
		Common:        config.LoadCommon(),
		HTTPPort:      config.Int("HTTP_PORT", 8083),
		BoABaseURL:    config.Get("BOA_BASE_URL", ""),
		ClientTimeout: config.Duration("HTTP_CLIENT_TIMEOUT", 10*time.Second),
		Thresholds:    config.Thresholds(),
	}
}

// Validate checks the settings that would otherwise fail at request time.
func (c Config) Validate() error {
	var errs []error
	if err := c.Thresholds.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.BoABaseURL != "" {
		if err := config.ValidateURL("BOA_BASE_URL", c.BoABaseURL); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// HTTPAddress returns the full HTTP listen address.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
