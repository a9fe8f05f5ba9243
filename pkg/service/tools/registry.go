// Package tools registers the MCP tools exposed by the server
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/adintel/ads-library-mcp/pkg/domain/ads"
	"github.com/adintel/ads-library-mcp/pkg/service/session"
	"github.com/adintel/ads-library-mcp/pkg/service/telemetry"
)

// ToolCategory defines the type of tool
type ToolCategory string

const (
	CategoryArchive ToolCategory = "archive"
	CategoryUtility ToolCategory = "utility"
)

// ToolConfig defines the configuration for a tool
type ToolConfig struct {
	Name        string
	Description string
	Category    ToolCategory

	// Input schema parameters
	RequiredParams []string
	OptionalParams map[string]string

	// Handler factory
	Handler func(deps ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// ArchiveSearcher queries the ads archive
type ArchiveSearcher interface {
	SearchAds(ctx context.Context, query ads.SearchQuery) ([]ads.Ad, error)
}

// SnapshotReader fetches the visible text of an ad snapshot page
type SnapshotReader interface {
	VisibleText(ctx context.Context, snapshotURL string) (string, error)
}

// ToolDependencies holds the dependencies tool handlers need
type ToolDependencies struct {
	Archive  ArchiveSearcher
	Snapshot SnapshotReader
	Sessions session.Manager
	Metrics  *telemetry.Metrics
	Logger   *slog.Logger
}

// errorPayload is the in-band failure envelope; tool-level failures are
// reported in content rather than as protocol errors.
type errorPayload struct {
	Error   string `json:"error"`
	Success bool   `json:"success"`
}

// textResult wraps a JSON payload into a single TextContent result
func textResult(payload interface{}) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: marshalJSON(payload),
			},
		},
	}
}

// errorResult wraps an error into the in-band failure envelope
func errorResult(err error) *mcp.CallToolResult {
	result := textResult(errorPayload{Error: err.Error(), Success: false})
	result.IsError = true
	return result
}

func marshalJSON(data interface{}) string {
	bytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Sprintf("error marshaling data: %v", err)
	}
	return string(bytes)
}

// All tool configurations in a single table.
// Assigned in init to avoid an initialization cycle with
// createListToolsHandler, which reads toolConfigs.
var toolConfigs []ToolConfig

func init() {
	toolConfigs = []ToolConfig{
		{
			Name:           "search_facebook_ads",
			Description:    "Search Facebook Ads Library with advanced filters",
			Category:       CategoryArchive,
			RequiredParams: []string{"brand_name"},
			OptionalParams: map[string]string{
				"country":    "string",
				"ad_type":    "string",
				"date_range": "integer",
				"limit":      "integer",
				"session_id": "string",
			},
			Handler: createSearchAdsHandler,
		},
		{
			Name:           "analyze_ad_creative_elements",
			Description:    "Analyze ad creative elements in detail",
			Category:       CategoryArchive,
			RequiredParams: []string{"ad_snapshot_url"},
			OptionalParams: map[string]string{
				"extract_text":   "boolean",
				"analyze_images": "boolean",
				"detect_cta":     "boolean",
				"session_id":     "string",
			},
			Handler: createAnalyzeCreativeHandler,
		},
		{
			Name:           "ping",
			Description:    "Simple ping tool to test MCP connectivity",
			Category:       CategoryUtility,
			OptionalParams: map[string]string{"message": "string"},
			Handler:        createPingHandler,
		},
		{
			Name:           "server_status",
			Description:    "Get basic server status information",
			Category:       CategoryUtility,
			OptionalParams: map[string]string{"details": "boolean"},
			Handler:        createServerStatusHandler,
		},
		{
			Name:        "list_tools",
			Description: "List the tools exposed by this server",
			Category:    CategoryUtility,
			Handler:     createListToolsHandler,
		},
	}
}

// GetToolConfig returns the configuration for a named tool
func GetToolConfig(name string) (ToolConfig, error) {
	for _, config := range toolConfigs {
		if config.Name == name {
			return config, nil
		}
	}
	return ToolConfig{}, fmt.Errorf("unknown tool: %s", name)
}

// paramDescriptions maps parameter names to their schema descriptions
var paramDescriptions = map[string]string{
	"brand_name":      "Brand or page name to search the ads archive for",
	"country":         "Two-letter country code the ads reached (default US)",
	"ad_type":         "Ad type filter; ALL disables the filter",
	"date_range":      "Lookback window in days",
	"limit":           "Maximum number of ads to return (default 50)",
	"session_id":      "Session identifier for correlating related calls",
	"ad_snapshot_url": "Snapshot URL of the ad creative to analyze",
	"extract_text":    "Run text analysis on the creative (default true)",
	"analyze_images":  "Accepted for compatibility; image analysis is not performed",
	"detect_cta":      "Run call-to-action detection (default true)",
	"message":         "Optional message echoed back in the pong response",
	"details":         "Include extended status details",
}

func getParamDescription(param string) string {
	if desc, ok := paramDescriptions[param]; ok {
		return desc
	}
	return param
}

// BuildToolSchema builds the JSON schema for a tool's input
func BuildToolSchema(config ToolConfig) mcp.ToolInputSchema {
	properties := make(map[string]interface{})

	for _, param := range config.RequiredParams {
		properties[param] = map[string]interface{}{
			"type":        "string",
			"description": getParamDescription(param),
		}
	}

	for param, paramType := range config.OptionalParams {
		paramSchema := map[string]interface{}{
			"description": getParamDescription(param),
		}

		switch paramType {
		case "string", "boolean", "object", "number", "integer":
			paramSchema["type"] = paramType
		case "array":
			paramSchema["type"] = "array"
			paramSchema["items"] = map[string]interface{}{"type": "string"}
		default:
			paramSchema["type"] = "string"
		}

		properties[param] = paramSchema
	}

	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: properties,
		Required:   config.RequiredParams,
	}
}
