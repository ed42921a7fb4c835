package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/fraudguard/fraudguard/pkg/config"
	"github.com/fraudguard/fraudguard/pkg/dedup"
)

// DefaultAccounts are polled when WATCH_ACCOUNTS is not set.
var DefaultAccounts = []string{"acc_001", "acc_002", "acc_003"}

// Config holds all configuration for the transaction watcher.
type Config struct {
	config.Common

	HTTPPort         int
	GatewayURL       string
	RiskScorerURL    string
	PollInterval     time.Duration
	Accounts         []string
	FetchLimit       int
	FetchConcurrency int
	DedupCapacity    int
	ClientTimeout    time.Duration
	AnalyzeTimeout   time.Duration
	ConsumeIngested  bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	config.LoadDotEnv()

	return Config{
		Common:           config.LoadCommon(),
		HTTPPort:         config.Int("HTTP_PORT", 8084),
		GatewayURL:       config.Get("MCP_GATEWAY_URL", "http://localhost:8080"),
		RiskScorerURL:    config.Get("RISK_SCORER_URL", "http://localhost:8081"),
		PollInterval:     config.Duration("POLL_INTERVAL_SECONDS", 30*time.Second),
		Accounts:         config.List("WATCH_ACCOUNTS", DefaultAccounts),
		FetchLimit:       config.Int("WATCH_FETCH_LIMIT", 5),
		FetchConcurrency: config.Int("WATCH_FETCH_CONCURRENCY", 4),
		DedupCapacity:    config.Int("DEDUP_CAPACITY", dedup.DefaultCapacity),
		ClientTimeout:    config.Duration("HTTP_CLIENT_TIMEOUT", 10*time.Second),
		AnalyzeTimeout:   config.Duration("ANALYZE_TIMEOUT", 30*time.Second),
		ConsumeIngested:  config.Bool("CONSUME_INGESTED", true),
	}
}

// Validate checks the settings that would otherwise fail at runtime.
func (c Config) Validate() error {
	var errs []error
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("POLL_INTERVAL_SECONDS must be positive, got %s", c.PollInterval))
	}
	if c.FetchLimit < 1 || c.FetchLimit > 100 {
		errs = append(errs, fmt.Errorf("WATCH_FETCH_LIMIT must be in [1, 100], got %d", c.FetchLimit))
	}
	if c.DedupCapacity < 1 {
		errs = append(errs, fmt.Errorf("DEDUP_CAPACITY must be positive, got %d", c.DedupCapacity))
	}
	if err := config.ValidateURL("MCP_GATEWAY_URL", c.GatewayURL); err != nil {
		errs = append(errs, err)
	}
	if err := config.ValidateURL("RISK_SCORER_URL", c.RiskScorerURL); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// HTTPAddress returns the full HTTP listen address.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
