package boa

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fraudguard/fraudguard/pkg/httpclient"
)

// Client calls the bank frontend and ledger.
type Client struct {
	http *httpclient.Client
}

// NewClient creates a Client over c.
func NewClient(c *httpclient.Client) *Client {
	return &Client{http: c}
}

// Transactions lists ledger entries. An empty accountID lists every account;
// a non-positive limit leaves the page size to the bank.
func (c *Client) Transactions(ctx context.Context, accountID string, limit int) ([]LedgerTransaction, error) {
	q := url.Values{}
	if accountID != "" {
		q.Set("account_id", accountID)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var page LedgerPage
	if err := c.http.Get(ctx, "/transactions", q, &page); err != nil {
		return nil, fmt.Errorf("boa ledger: %w", err)
	}
	return page.Transactions, nil
}

type stepUpRequest struct {
	TransactionID string `json:"transaction_id"`
	Reason        string `json:"reason"`
}

type holdRequest struct {
	Reason string `json:"reason"`
}

// StepUp asks the bank to challenge the customer for the transaction.
func (c *Client) StepUp(ctx context.Context, transactionID, reason string) error {
	if err := c.http.Post(ctx, "/api/auth/stepup", stepUpRequest{TransactionID: transactionID, Reason: reason}, nil); err != nil {
		return fmt.Errorf("boa step-up: %w", err)
	}
	return nil
}

// Hold asks the bank to hold the transaction.
func (c *Client) Hold(ctx context.Context, transactionID, reason string) error {
	path := "/api/transactions/" + url.PathEscape(transactionID) + "/hold"
	if err := c.http.Post(ctx, path, holdRequest{Reason: reason}, nil); err != nil {
		return fmt.Errorf("boa hold: %w", err)
	}
	return nil
}
