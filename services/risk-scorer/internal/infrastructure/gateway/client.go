// Package gateway talks to the MCP gateway's transaction API.
package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/pkg/httpclient"
)

// Client implements port.HistoryReader and port.RiskAttacher over HTTP.
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
		return nil, fmt.Errorf("fetch history for %s: %w", accountID, err)
	}
	return records, nil
}

type attachRiskRequest struct {
	RiskScore float64 `json:"risk_score"`
	Rationale string  `json:"rationale"`
}

// AttachRisk stores score on the gateway's copy of the transaction. The
// returned error wraps an httpclient.StatusError for 404 and 409 replies.
func (c *Client) AttachRisk(ctx context.Context, transactionID string, score float64, rationale string) error {
	path := "/api/transactions/" + url.PathEscape(transactionID) + "/risk"
	if err := c.http.Put(ctx, path, attachRiskRequest{RiskScore: score, Rationale: rationale}, nil); err != nil {
		return fmt.Errorf("attach risk to %s: %w", transactionID, err)
	}
	return nil
}
