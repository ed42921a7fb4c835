package config

import (
	"fmt"
	"net/url"

	"github.com/fraudguard/fraudguard/pkg/auth"
	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/pkg/httpclient"
	"github.com/fraudguard/fraudguard/pkg/kafka"
	"github.com/fraudguard/fraudguard/pkg/observability"
)

// Common is the configuration shared by all services.
type Common struct {
	Environment  string
	LogLevel     string
	LogFormat    string
	OTLPEndpoint string
	Kafka        kafka.Config
	Auth         Auth
}

// Auth configures bearer-token checks on inbound requests and the service
// token attached to outbound calls.
type Auth struct {
	Enabled bool
	Secret  string
	Issuer  string
}

// LoadCommon reads the shared settings from the environment.
func LoadCommon() Common {
	return Common{
		Environment:  Get("ENVIRONMENT", "development"),
		LogLevel:     Get("LOG_LEVEL", "info"),
		LogFormat:    Get("LOG_FORMAT", "json"),
		OTLPEndpoint: Get("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		Kafka: kafka.Config{
			Brokers:       kafka.ParseBrokers(Get("KAFKA_BROKERS", "")),
			ConsumerGroup: Get("KAFKA_CONSUMER_GROUP", ""),
			TLS:           Bool("KAFKA_TLS", false),
			SASLEnabled:   Bool("KAFKA_SASL_ENABLED", false),
			SASLMechanism: Get("KAFKA_SASL_MECHANISM", "PLAIN"),
			SASLUsername:  Get("KAFKA_SASL_USERNAME", ""),
			SASLPassword:  Get("KAFKA_SASL_PASSWORD", ""),
		},
		Auth: Auth{
			Enabled: Bool("AUTH_ENABLED", false),
			Secret:  Get("JWT_SECRET", "dev-secret-change-in-prod"),
			Issuer:  Get("JWT_ISSUER", "fraudguard"),
		},
	}
}

// LogConfig returns the logger settings for service.
func (c Common) LogConfig(service string) observability.LogConfig {
	return observability.LogConfig{Level: c.LogLevel, Format: c.LogFormat, Service: service}
}

// TracingConfig returns the tracer settings for service.
func (c Common) TracingConfig(service string) observability.TracingConfig {
	return observability.TracingConfig{
		ServiceName: service,
		Endpoint:    c.OTLPEndpoint,
		Insecure:    true,
		SampleRatio: 1,
	}
}

// JWTService builds the HS256 token service, or nil when auth is disabled.
func (c Common) JWTService() (*auth.JWTService, error) {
	if !c.Auth.Enabled {
		return nil, nil
	}
	return auth.NewJWTService(auth.JWTConfig{
		Secret:        c.Auth.Secret,
		SigningMethod: "HS256",
		Issuer:        c.Auth.Issuer,
	})
}

// ServiceToken returns the outbound token source for service, or nil when
// jwt is nil.
func ServiceToken(jwt *auth.JWTService, service string) httpclient.TokenFunc {
	if jwt == nil {
		return nil
	}
	return auth.NewTokenSource(jwt, service).Token
}

// Thresholds reads RISK_THRESHOLD_NOTIFY, RISK_THRESHOLD_STEPUP and
// RISK_THRESHOLD_HOLD over the defaults.
func Thresholds() fraud.Thresholds {
	d := fraud.DefaultThresholds()
	return fraud.Thresholds{
		Notify: Float("RISK_THRESHOLD_NOTIFY", d.Notify),
		StepUp: Float("RISK_THRESHOLD_STEPUP", d.StepUp),
		Hold:   Float("RISK_THRESHOLD_HOLD", d.Hold),
	}
}

// ValidateURL checks that raw is an absolute http(s) URL.
func ValidateURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, raw)
	}
	return nil
}
