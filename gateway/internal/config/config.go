package config

import (
	"errors"
	"fmt"
	"time"

	sharedconfig "github.com/fraudguard/fraudguard/pkg/config"
)

// Config holds all configuration for the MCP gateway.
type Config struct {
	sharedconfig.Common

	HTTPPort int
	// RateLimit is the number of requests each client IP may make per minute.
	RateLimit int

	DatabaseURL string
	DBMaxConns  int32

	// BoABaseURL is the bank frontend consulted for account history the
	// store does not have. Empty disables the upstream.
	BoABaseURL    string
	ClientTimeout time.Duration

	// SimulateTransactions serves deterministic demo history for accounts
	// unknown to both the store and the bank.
	SimulateTransactions bool
	StrictValidation     bool
	CORSOrigins          []string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first when present.
func Load() Config {
	sharedconfig.LoadDotEnv()

	return Config{
		Common:               sharedconfig.LoadCommon(),
		HTTPPort:             sharedconfig.Int("HTTP_PORT", 8080),
		RateLimit:            sharedconfig.Int("RATE_LIMIT_PER_MINUTE", 100),
		DatabaseURL:          sharedconfig.Get("DATABASE_URL", ""),
		DBMaxConns:           int32(sharedconfig.Int("DB_MAX_CONNS", 10)),
		BoABaseURL:           sharedconfig.Get("BOA_BASE_URL", ""),
		ClientTimeout:        sharedconfig.Duration("CLIENT_TIMEOUT", 5*time.Second),
		SimulateTransactions: sharedconfig.Bool("SIMULATE_TRANSACTIONS", true),
		StrictValidation:     sharedconfig.Bool("STRICT_VALIDATION", true),
		CORSOrigins:          sharedconfig.List("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

// Validate checks the settings that would otherwise fail at request time.
func (c Config) Validate() error {
	var errs []error
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("HTTP_PORT out of range: %d", c.HTTPPort))
	}
	if c.RateLimit <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", c.RateLimit))
	}
	if c.BoABaseURL != "" {
		if err := sharedconfig.ValidateURL("BOA_BASE_URL", c.BoABaseURL); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// HTTPAddress returns the listen address.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
