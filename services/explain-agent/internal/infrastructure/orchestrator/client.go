// Package orchestrator hands recommended actions to the action orchestrator.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/pkg/httpclient"
)

// ExecuteRequest is the body of POST /execute.
type ExecuteRequest struct {
	TransactionID string  `json:"transaction_id"`
	RiskScore     float64 `json:"risk_score"`
	Action        string  `json:"action"`
	Explanation   string  `json:"explanation"`
}

// Client implements port.ActionDispatcher.
type Client struct {
	http *httpclient.Client
}

// NewClient creates an orchestrator Client.
func NewClient(http *httpclient.Client) *Client {
	return &Client{http: http}
}

// Execute asks the orchestrator to carry out action for the transaction.
func (c *Client) Execute(ctx context.Context, transactionID string, score float64, action fraud.Action, explanation string) error {
	req := ExecuteRequest{
		TransactionID: transactionID,
		RiskScore:     score,
		Action:        action.String(),
		Explanation:   explanation,
	}
	if err := c.http.Post(ctx, "/execute", req, nil); err != nil {
		return fmt.Errorf("execute %s for %s: %w", req.Action, transactionID, err)
	}
	return nil
}
