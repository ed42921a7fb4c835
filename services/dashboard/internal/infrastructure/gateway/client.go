// Package gateway reads recent transactions from the MCP gateway.
package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/pkg/httpclient"
)

// Client reads the gateway's recent transactions feed.
type Client struct {
	http *httpclient.Client
}

// NewClient creates a gateway Client.
func NewClient(http *httpclient.Client) *Client {
	return &Client{http: http}
}

type recentResponse struct {
	Transactions []fraud.TransactionRecord `json:"transactions"`
}

// Recent returns up to limit transactions across all accounts, newest first.
func (c *Client) Recent(ctx context.Context, limit int) ([]fraud.TransactionRecord, error) {
	var resp recentResponse
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := c.http.Get(ctx, "/api/recent-transactions", query, &resp); err != nil {
		return nil, fmt.Errorf("fetch recent transactions: %w", err)
	}
	return resp.Transactions, nil
}
