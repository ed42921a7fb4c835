// Package gateway reads account transactions from the MCP gateway.
package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/pkg/httpclient"
)

// Client implements port.TransactionSource over HTTP.
type Client struct {
	http *httpclient.Client
}

// NewClient creates a gateway Client.
func NewClient(http *httpclient.Client) *Client {
	return &Client{http: http}
}

// RecentTransactions fetches up to limit records for accountID, newest first.
func (c *Client) RecentTransactions(ctx context.Context, accountID string, limit int) ([]fraud.TransactionRecord, error) {
	var records []fraud.TransactionRecord
	path := "/accounts/" + url.PathEscape(accountID) + "/transactions"
	query := url.Values{"limit": {strconv.Itoa(limit)}}

	if err := c.http.Get(ctx, path, query, &records); err != nil {
		return nil, fmt.Errorf("fetch transactions for %s: %w", accountID, err)
	}
	return records, nil
}
