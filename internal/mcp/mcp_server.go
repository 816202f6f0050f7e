// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/basket/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the basket MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Basket Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: analyze_basket ---
	s.AddTool(mcp.NewTool("analyze_basket",
		mcp.WithDescription("Find items that are frequently bought together. Records are grouped into baskets by date and paired by product."),
		mcp.WithString("records", mcp.Description("JSON array of record objects, e.g. [{\"date\":\"2024-01-01\",\"product\":\"bread\"}]. Takes precedence over file_path.")),
		mcp.WithString("file_path", mcp.Description("Path to a CSV or JSON file with the records.")),
		mcp.WithNumber("threshold", mcp.Description("Minimum basket frequency in (0, 1] for a combination to be reported. Defaults to 0.05.")),
		mcp.WithNumber("top_items", mcp.Description("Number of most frequent items to report.")),
		mcp.WithBoolean("distinct_pairs", mcp.Description("Count each pair at most once per basket.")),
	), h.handleAnalyzeBasket)

	// --- 2. Tool: preview_dataset ---
	s.AddTool(mcp.NewTool("preview_dataset",
		mcp.WithDescription("Show the columns and first rows of a CSV or JSON dataset before analyzing it."),
		mcp.WithString("file_path", mcp.Description("Path to a CSV or JSON file."), mcp.Required()),
		mcp.WithNumber("rows", mcp.Description("Number of rows to show. Defaults to 5.")),
	), h.handlePreviewDataset)

	// --- 3. Tool: get_analysis_status ---
	s.AddTool(mcp.NewTool("get_analysis_status",
		mcp.WithDescription("Report the state of analysis run tracking: backend, number of runs and table sizes."),
	), h.handleGetAnalysisStatus)

	return s
}

// StartMCPServer starts the basket MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
