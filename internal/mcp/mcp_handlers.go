package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/preflighthq/preflight/core"
	"github.com/preflighthq/preflight/internal/contract"
	"github.com/preflighthq/preflight/internal/fetch"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

func (h *toolHandler) handleAnalyzeRepo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.SourceURL = request.GetString("source_url", "")
	cfg.ZipPath = request.GetString("zip_file", "")
	cfg.AnalysisID = request.GetString("analysis_id", "")
	if u := request.GetString("user", ""); u != "" {
		cfg.UserID = u
	}
	if p := request.GetString("current_platform", ""); p != "" {
		cfg.CurrentPlatform = p
	}

	if cfg.SourceURL == "" && cfg.ZipPath == "" {
		return mcp.NewToolResultError("either source_url or zip_file is required"), nil
	}

	fetcher, err := fetch.NewFetcher(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid source: %v", err)), nil
	}

	result, err := core.ExecuteAnalyze(ctx, cfg, fetcher, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleRecheckAnalysis(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.AnalysisID = request.GetString("analysis_id", "")

	runStore := h.mgr.GetRunStore()
	if runStore == nil {
		return mcp.NewToolResultError("history persistence is disabled; re-check needs a stored analysis"), nil
	}
	locator, userID, err := runStore.FindAnalysis(cfg.AnalysisID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	cfg.ApplyLocator(locator)
	cfg.UserID = userID

	fetcher, err := fetch.NewFetcher(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid stored source: %v", err)), nil
	}

	result, err := core.ExecuteRecheck(ctx, cfg, fetcher, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("re-check failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListAlerts(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := request.GetString("user", "")
	analysisID := request.GetString("analysis_id", "")

	alertStore := h.mgr.GetAlertStore()
	if alertStore == nil {
		return mcp.NewToolResultError("history persistence is disabled; no alert history available"), nil
	}

	alerts, err := alertStore.ListAlerts(userID, analysisID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("alert lookup failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(alerts, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
