package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/basket/core"
	"github.com/huangsam/basket/internal/contract"
	"github.com/huangsam/basket/internal/ingest"
	"github.com/huangsam/basket/internal/outwriter"
	"github.com/huangsam/basket/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

func (h *toolHandler) handleAnalyzeBasket(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	args := request.GetArguments()
	if _, ok := args["threshold"]; ok {
		cfg.Threshold = request.GetFloat("threshold", cfg.Threshold)
	}
	if _, ok := args["top_items"]; ok {
		cfg.TopItems = request.GetInt("top_items", cfg.TopItems)
	}
	cfg.DistinctPairs = request.GetBool("distinct_pairs", cfg.DistinctPairs)

	if err := contract.ValidateThreshold(cfg.Threshold); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if cfg.TopItems <= 0 || cfg.TopItems > contract.MaxTopItems {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: top_items must be between 1 and %d (received %d)", contract.MaxTopItems, cfg.TopItems)), nil
	}

	var records []schema.Record
	var err error
	if raw := request.GetString("records", ""); raw != "" {
		records, err = ingest.Read(strings.NewReader(raw), schema.JSONIn)
	} else if p := request.GetString("file_path", ""); p != "" {
		cfg.InputPath = p
		records, err = core.ReadRecords(cfg)
	} else {
		return mcp.NewToolResultError("either records or file_path is required"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot read records: %v", err)), nil
	}

	result, _, err := core.GetAnalysisResults(core.WithSuppressHeader(ctx), cfg, h.mgr, records)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handlePreviewDataset(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.InputPath = request.GetString("file_path", "")
	if cfg.InputPath == "" {
		return mcp.NewToolResultError("file_path is required"), nil
	}
	rows := request.GetInt("rows", contract.DefaultPreviewRows)
	if rows <= 0 {
		return mcp.NewToolResultError(fmt.Sprintf("rows must be greater than 0 (received %d)", rows)), nil
	}

	records, err := core.ReadRecords(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot read records: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(outwriter.BuildPreview(records, rows), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetAnalysisStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var store contract.AnalysisStore
	if h.mgr != nil {
		store = h.mgr.GetAnalysisStore()
	}
	if store == nil {
		return mcp.NewToolResultError("analysis tracking is not configured. Set --analysis-backend"), nil
	}

	status, err := store.GetStatus()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot get analysis status: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(status, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
