package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/huangsam/ratechart/core"
	"github.com/huangsam/ratechart/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// requestConfig clones the base config and applies the shared chart parameters of request.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("dataset_path", ""); p != "" {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		cfg.DatasetPath = abs
	}
	if cfg.DatasetPath == "" {
		return nil, errors.New("dataset_path is required")
	}
	err := contract.RevalidateChartState(cfg,
		request.GetString("granularity", ""),
		request.GetString("variations", ""),
		request.GetString("toggle", ""),
		request.GetString("zoom_start", ""),
		request.GetString("zoom_end", ""),
	)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (h *toolHandler) handleGetSeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid series parameters: %v", err)), nil
	}

	result, err := core.GetSeriesResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("series failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleResolveHover(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid hover parameters: %v", err)), nil
	}
	cfg.PointerX = request.GetFloat("x", 0)
	cfg.PointerY = request.GetFloat("y", 0)
	if err := contract.RevalidateDimensions(cfg, request.GetFloat("width", 0), request.GetFloat("height", 0)); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid hover parameters: %v", err)), nil
	}

	payload, _, err := core.GetHoverResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("hover failed: %v", err)), nil
	}

	result := map[string]any{
		"in_plot": payload != nil,
		"hover":   payload,
	}
	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleZoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid zoom parameters: %v", err)), nil
	}
	if err := contract.RevalidateZoom(cfg, request.GetString("action", ""), request.GetFloat("step", 0)); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid zoom parameters: %v", err)), nil
	}

	result, err := core.GetZoomResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("zoom failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
