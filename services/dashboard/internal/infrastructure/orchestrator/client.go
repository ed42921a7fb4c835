// Package orchestrator submits dashboard actions to the action orchestrator.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/fraudguard/fraudguard/pkg/httpclient"
)

// ExecuteRequest is the body of POST /execute.
type ExecuteRequest struct {
	TransactionID string  `json:"transaction_id"`
	RiskScore     float64 `json:"risk_score"`
	Action        string  `json:"action"`
	Explanation   string  `json:"explanation"`
}

// ExecuteResponse is the orchestrator's reply.
type ExecuteResponse struct {
	TransactionID string `json:"transaction_id"`
	Action        string `json:"action"`
	Message       string `json:"message"`
	Timestamp     string `json:"timestamp,omitempty"`
	Success       bool   `json:"success"`
}

// Client calls the orchestrator.
type Client struct {
	http *httpclient.Client
}

// NewClient creates an orchestrator Client.
func NewClient(http *httpclient.Client) *Client {
	return &Client{http: http}
}

// Execute runs req.Action for req.TransactionID.
func (c *Client) Execute(ctx context.Context, req ExecuteRequest) (ExecuteResponse, error) {
	var resp ExecuteResponse
	if err := c.http.Post(ctx, "/execute", req, &resp); err != nil {
		return ExecuteResponse{}, fmt.Errorf("execute %s for %s: %w", req.Action, req.TransactionID, err)
	}
	return resp, nil
}
