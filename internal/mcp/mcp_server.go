// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/ratechart/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// chartOptions are the parameters shared by every tool that runs the pipeline.
func chartOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("dataset_path", mcp.Description("Path to the A/B test dataset JSON file (defaults to the dataset the server was started with).")),
		mcp.WithString("granularity", mcp.Description("Time bucket for the series. Defaults to 'day'."), mcp.Enum("day", "week")),
		mcp.WithString("variations", mcp.Description("Comma-separated variation ids to plot (e.g., '0,10001'). Defaults to all.")),
		mcp.WithString("toggle", mcp.Description("Comma-separated variation ids to show or hide on top of the selection. The last visible variation is never hidden.")),
		mcp.WithString("zoom_start", mcp.Description("Start of the zoom window as YYYY-MM-DD or RFC3339.")),
		mcp.WithString("zoom_end", mcp.Description("End of the zoom window as YYYY-MM-DD or RFC3339.")),
	}
}

// NewMCPServer initializes and configures the Ratechart MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Ratechart Conversion Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_series ---
	s.AddTool(mcp.NewTool("get_series",
		append([]mcp.ToolOption{
			mcp.WithDescription("Compute daily or weekly conversion rates per variation with the resolved chart domains."),
		}, chartOptions()...)...,
	), h.handleGetSeries)

	// --- 2. Tool: resolve_hover ---
	s.AddTool(mcp.NewTool("resolve_hover",
		append([]mcp.ToolOption{
			mcp.WithDescription("Resolve the tooltip for a pointer position on the rendered chart."),
			mcp.WithNumber("x", mcp.Description("Pointer x coordinate in chart pixels."), mcp.Required()),
			mcp.WithNumber("y", mcp.Description("Pointer y coordinate in chart pixels."), mcp.Required()),
			mcp.WithNumber("width", mcp.Description("Chart width in pixels. Defaults to 800.")),
			mcp.WithNumber("height", mcp.Description("Chart height in pixels. Defaults to 400.")),
		}, chartOptions()...)...,
	), h.handleResolveHover)

	// --- 3. Tool: zoom ---
	s.AddTool(mcp.NewTool("zoom",
		append([]mcp.ToolOption{
			mcp.WithDescription("Apply a zoom gesture to the current window and return the next window."),
			mcp.WithString("action", mcp.Description("Zoom gesture."), mcp.Enum("in", "out", "reset"), mcp.Required()),
			mcp.WithNumber("step", mcp.Description("Fraction of the range removed per zoom-in, between 0 and 1. Defaults to 0.2.")),
		}, chartOptions()...)...,
	), h.handleZoom)

	return s
}

// StartMCPServer starts the Ratechart MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
