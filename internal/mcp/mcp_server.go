// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/preflighthq/preflight/internal/contract"
)

// NewMCPServer initializes and configures the Preflight MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Preflight Launch Readiness Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: analyze_repo ---
	s.AddTool(mcp.NewTool("analyze_repo",
		mcp.WithDescription("Analyze an application source tree and produce a plain-English launch readiness verdict."),
		mcp.WithString("source_url", mcp.Description("GitHub repository URL (https://github.com/owner/repo).")),
		mcp.WithString("zip_file", mcp.Description("Local ZIP archive path, alternative to source_url.")),
		mcp.WithString("analysis_id", mcp.Description("Analysis identifier to record history under."), mcp.Required()),
		mcp.WithString("user", mcp.Description("User identifier for alert scoping.")),
		mcp.WithString("current_platform", mcp.Description("Where the app is hosted today, if known (render, vercel, railway, fly).")),
	), h.handleAnalyzeRepo)

	// --- 2. Tool: recheck_analysis ---
	s.AddTool(mcp.NewTool("recheck_analysis",
		mcp.WithDescription("Re-fetch a previously analyzed source, recompute the verdict and report any new alerts."),
		mcp.WithString("analysis_id", mcp.Description("Identifier of a previously run analysis."), mcp.Required()),
	), h.handleRecheckAnalysis)

	// --- 3. Tool: list_alerts ---
	s.AddTool(mcp.NewTool("list_alerts",
		mcp.WithDescription("List alert history for a user, optionally narrowed to one analysis."),
		mcp.WithString("user", mcp.Description("User identifier."), mcp.Required()),
		mcp.WithString("analysis_id", mcp.Description("Analysis identifier to filter by.")),
	), h.handleListAlerts)

	return s
}

// StartMCPServer starts the Preflight MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
