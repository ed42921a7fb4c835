// Package mcptools exposes the gateway's read-only account and transaction
// views as MCP tools.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/fraudguard/fraudguard/gateway/internal/handler"
	"github.com/fraudguard/fraudguard/gateway/internal/service"
	"github.com/fraudguard/fraudguard/pkg/fraud"
)

const (
	serverName    = "fraudguard-gateway"
	serverVersion = "1.0.0"
)

// Reader is the subset of the gateway service the tools need.
type Reader interface {
	Account(ctx context.Context, id string) service.Account
	AccountTransactions(ctx context.Context, accountID string, limit int) ([]fraud.TransactionRecord, error)
	Recent(ctx context.Context, limit int) ([]fraud.TransactionRecord, error)
}

// Handlers holds the handler functions for each MCP tool.
type Handlers struct {
	reader Reader
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(reader Reader) *Handlers {
	return &Handlers{reader: reader}
}

// NewServer creates an MCP server with all gateway tools registered.
func NewServer(reader Reader) *server.MCPServer {
	s := server.NewMCPServer(serverName, serverVersion)
	h := NewHandlers(reader)

	s.AddTool(ToolGetAccount, h.HandleGetAccount)
	s.AddTool(ToolListAccountTransactions, h.HandleListAccountTransactions)
	s.AddTool(ToolListRecentTransactions, h.HandleListRecentTransactions)

	return s
}

// HTTPHandler serves the tools over stateless streamable HTTP.
func HTTPHandler(reader Reader) http.Handler {
	return server.NewStreamableHTTPServer(NewServer(reader), server.WithStateLess(true))
}

// HandleGetAccount returns the account summary.
func (h *Handlers) HandleGetAccount(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	accountID := req.GetString("account_id", "")
	if accountID == "" {
		return mcp.NewToolResultError("account_id is required"), nil
	}
	return jsonResult(h.reader.Account(ctx, accountID))
}

// HandleListAccountTransactions returns an account's newest transactions.
func (h *Handlers) HandleListAccountTransactions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	accountID := req.GetString("account_id", "")
	if accountID == "" {
		return mcp.NewToolResultError("account_id is required"), nil
	}
	limit := clampLimit(req.GetInt("limit", handler.DefaultAccountLimit), handler.DefaultAccountLimit, handler.MaxAccountLimit)

	recs, err := h.reader.AccountTransactions(ctx, accountID, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list transactions: %v", err)), nil
	}
	return jsonResult(recs)
}

// HandleListRecentTransactions returns the newest transactions across accounts.
func (h *Handlers) HandleListRecentTransactions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := clampLimit(req.GetInt("limit", handler.DefaultRecentLimit), handler.DefaultRecentLimit, handler.MaxRecentLimit)

	recs, err := h.reader.Recent(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list recent transactions: %v", err)), nil
	}
	return jsonResult(handler.RecentResponse{Transactions: recs})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func clampLimit(n, def, maxLimit int) int {
	switch {
	case n < 1:
		return def
	case n > maxLimit:
		return maxLimit
	default:
		return n
	}
}
