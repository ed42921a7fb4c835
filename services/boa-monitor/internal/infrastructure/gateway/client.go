// Package gateway submits bank transactions to the MCP gateway.
package gateway

import (
	"context"
	"fmt"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/pkg/httpclient"
)

// Client implements port.Ingestor over HTTP.
type Client struct {
	http *httpclient.Client
}

// NewClient creates a gateway Client.
func NewClient(http *httpclient.Client) *Client {
	return &Client{http: http}
}

type ingestResponse struct {
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
}

// Ingest posts in to /api/transactions. Any 2xx reply counts as forwarded.
func (c *Client) Ingest(ctx context.Context, in fraud.TransactionInput) (string, error) {
	var resp ingestResponse
	if err := c.http.Post(ctx, "/api/transactions", in, &resp); err != nil {
		return "", fmt.Errorf("ingest %s: %w", in.TransactionID, err)
	}
	return resp.Status, nil
}
