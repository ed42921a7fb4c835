// Package explain forwards assessments to the explanation service.
package explain

import (
	"context"
	"fmt"
	"time"

	"github.com/fraudguard/fraudguard/pkg/httpclient"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/domain/model"
)

// Request is the body of POST /process.
type Request struct {
	TransactionID string    `json:"transaction_id"`
	RiskScore     float64   `json:"risk_score"`
	Rationale     string    `json:"rationale"`
	Timestamp     time.Time `json:"timestamp"`
}

// Client implements port.ExplanationForwarder.
type Client struct {
	http *httpclient.Client
}

// NewClient creates an explain-agent Client.
func NewClient(http *httpclient.Client) *Client {
	return &Client{http: http}
}

// Forward posts the assessment for explanation and action.
func (c *Client) Forward(ctx context.Context, a *model.Assessment) error {
	req := Request{
		TransactionID: a.TransactionID(),
		RiskScore:     a.RiskScore(),
		Rationale:     a.Rationale(),
		Timestamp:     a.AssessedAt(),
	}
	if err := c.http.Post(ctx, "/process", req, nil); err != nil {
		return fmt.Errorf("forward %s to explain-agent: %w", req.TransactionID, err)
	}
	return nil
}
