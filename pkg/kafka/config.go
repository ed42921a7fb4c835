// Package kafka wraps kafka-go for the FraudGuard event topics.
package kafka

import (
	"crypto/tls"
	"strings"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// Topics carrying FraudGuard domain events.
const (
	TopicTransactionIngested = "fraudguard.transactions.ingested"
	TopicRiskScored          = "fraudguard.risk.scored"
	TopicAuditRecorded       = "fraudguard.audit.recorded"
	TopicActionExecuted      = "fraudguard.actions.executed"
)

// Config holds Kafka connection parameters.
type Config struct {
	ConsumerGroup string

	// SASL configuration for authentication.
	SASLMechanism string // "PLAIN" or "SCRAM-SHA-256" or "SCRAM-SHA-512"
	SASLUsername  string
	SASLPassword  string

	Brokers []string

	// TLS enables TLS for Kafka connections.
	TLS         bool
	SASLEnabled bool
}

// Enabled reports whether any broker is configured.
func (c Config) Enabled() bool {
	return len(c.Brokers) > 0
}

// ParseBrokers splits a comma-separated broker list, dropping blanks.
func ParseBrokers(csv string) []string {
	var brokers []string
	for _, b := range strings.Split(csv, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func (c Config) tlsConfig() *tls.Config {
	if !c.TLS {
		return nil
	}
	return &tls.Config{MinVersion: tls.VersionTLS12}
}

// saslMechanism returns the configured SASL mechanism, or nil when SASL is
// off or the mechanism cannot be built.
func (c Config) saslMechanism() sasl.Mechanism {
	if !c.SASLEnabled {
		return nil
	}
	switch c.SASLMechanism {
	case "SCRAM-SHA-256":
		m, err := scram.Mechanism(scram.SHA256, c.SASLUsername, c.SASLPassword)
		if err != nil {
			return nil
		}
		return m
	case "SCRAM-SHA-512":
		m, err := scram.Mechanism(scram.SHA512, c.SASLUsername, c.SASLPassword)
		if err != nil {
			return nil
		}
		return m
	case "PLAIN", "":
		return &plain.Mechanism{
			Username: c.SASLUsername,
			Password: c.SASLPassword,
		}
	default:
		return nil
	}
}

func (c Config) dialer() *kafkago.Dialer {
	if !c.TLS && !c.SASLEnabled {
		return nil
	}
	return &kafkago.Dialer{
		TLS:           c.tlsConfig(),
		SASLMechanism: c.saslMechanism(),
	}
}

func (c Config) transport() *kafkago.Transport {
	if !c.TLS && !c.SASLEnabled {
		return nil
	}
	return &kafkago.Transport{
		TLS:  c.tlsConfig(),
		SASL: c.saslMechanism(),
	}
}
