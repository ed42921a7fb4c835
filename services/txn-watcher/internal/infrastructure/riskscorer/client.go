// Package riskscorer submits transactions to the risk scorer.
package riskscorer

import (
	"context"
	"fmt"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/pkg/httpclient"
)

// Client implements port.Analyzer over HTTP.
type Client struct {
	http *httpclient.Client
}

// NewClient creates a risk scorer Client.
func NewClient(http *httpclient.Client) *Client {
	return &Client{http: http}
}

// Analyze posts rec to /analyze. The assessment in the reply is discarded.
func (c *Client) Analyze(ctx context.Context, rec fraud.TransactionRecord) error {
	if err := c.http.Post(ctx, "/analyze", rec, nil); err != nil {
		return fmt.Errorf("analyze %s: %w", rec.TransactionID, err)
	}
	return nil
}
