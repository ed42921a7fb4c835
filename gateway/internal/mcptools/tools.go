package mcptools

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions. Descriptions are what the model reads to pick a tool.

var ToolGetAccount = mcp.NewTool("get_account",
	mcp.WithDescription(
		"Get summary information for a bank account: account ID, balance and account type."),
	mcp.WithString("account_id",
		mcp.Required(),
		mcp.Description("The account identifier (e.g. 'acc_001')")),
)

var ToolListAccountTransactions = mcp.NewTool("list_account_transactions",
	mcp.WithDescription(
		"List the most recent transactions for an account, newest first. "+
			"Each record carries amount, merchant, category, location, type, timestamp "+
			"and any risk score already attached."),
	mcp.WithString("account_id",
		mcp.Required(),
		mcp.Description("The account identifier (e.g. 'acc_001')")),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of transactions to return (default 10, max 100)")),
)

var ToolListRecentTransactions = mcp.NewTool("list_recent_transactions",
	mcp.WithDescription(
		"List the most recently ingested transactions across all accounts, newest first."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of transactions to return (default 50, max 500)")),
)
