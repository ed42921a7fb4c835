package dto

import "time"

// StatusResponse describes the monitor's progress.
type StatusResponse struct {
	LastPoll              *time.Time `json:"last_poll"`
	Service               string     `json:"service"`
	Status                string     `json:"status"`
	LedgerURL             string     `json:"boa_ledger_url"`
	GatewayURL            string     `json:"mcp_gateway_url"`
	ProcessedTransactions int        `json:"processed_transactions"`
	ForwardedCount        int64      `json:"forwarded_count"`
	PollIntervalSeconds   int        `json:"poll_interval"`
}

// SyncResponse is the result of one sync cycle.
type SyncResponse struct {
	Status                string `json:"status"`
	TransactionsFound     int    `json:"transactions_found"`
	TransactionsForwarded int    `json:"transactions_forwarded"`
	TransactionsRejected  int    `json:"transactions_rejected,omitempty"`
}
