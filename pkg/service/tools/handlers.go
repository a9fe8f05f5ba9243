package tools

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"

	"github.com/adintel/ads-library-mcp/pkg/domain/ads"
	domainsession "github.com/adintel/ads-library-mcp/pkg/domain/session"
	"github.com/adintel/ads-library-mcp/pkg/infrastructure/snapshot"
	"github.com/adintel/ads-library-mcp/pkg/service/session"
)

// Track server start time at package level
var serverStartTime = time.Now()

// RegisterTools registers all tools from the config table
func RegisterTools(mcpServer *server.MCPServer, deps ToolDependencies) error {
	for _, config := range toolConfigs {
		if err := RegisterTool(mcpServer, config, deps); err != nil {
			return errors.Wrapf(err, "failed to register tool %s", config.Name)
		}
	}
	return nil
}

// RegisterTool registers a single tool based on its configuration
func RegisterTool(mcpServer *server.MCPServer, config ToolConfig, deps ToolDependencies) error {
	if config.Handler == nil {
		return errors.Errorf("tool %s has no handler", config.Name)
	}

	tool := mcp.Tool{
		Name:        config.Name,
		Description: config.Description,
		InputSchema: BuildToolSchema(config),
	}

	handler := config.Handler(deps)
	instrumented := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		result, err := handler(ctx, req)
		failed := err != nil || (result != nil && result.IsError)
		deps.Metrics.ObserveTool(config.Name, start, failed)
		return result, err
	}

	mcpServer.AddTool(tool, instrumented)

	if deps.Logger != nil {
		deps.Logger.Info("registered tool", slog.String("name", config.Name), slog.String("category", string(config.Category)))
	}

	return nil
}

func createSearchAdsHandler(deps ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		brand, err := extractStringParam(args, "brand_name")
		if err != nil {
			return errorResult(err), nil
		}

		query := ads.SearchQuery{
			BrandName: brand,
			Country:   extractOptionalStringParam(args, "country", "US"),
			AdType:    extractOptionalStringParam(args, "ad_type", "ALL"),
			DateRange: extractOptionalIntParam(args, "date_range", 30),
			Limit:     extractOptionalIntParam(args, "limit", 50),
		}

		records, err := deps.Archive.SearchAds(ctx, query)
		deps.Metrics.ObserveGraphRequest(err != nil)
		if err != nil {
			deps.Logger.Error("ads archive search failed", slog.String("brand", brand), slog.String("error", err.Error()))
			return errorResult(err), nil
		}
		if records == nil {
			records = []ads.Ad{}
		}

		result := ads.SearchResult{
			Brand:        brand,
			TotalAds:     len(records),
			Ads:          records,
			SearchParams: ads.ArchiveParams(query),
			Success:      true,
		}

		result.SessionID = recordSessionArtifact(ctx, deps, args, "searched", map[string]interface{}{
			"brand":     brand,
			"total_ads": len(records),
			"country":   query.Country,
			"at":        time.Now().Format(time.RFC3339),
		})

		return textResult(result), nil
	}
}

func createAnalyzeCreativeHandler(deps ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		snapshotURL, err := extractStringParam(args, "ad_snapshot_url")
		if err != nil {
			return errorResult(err), nil
		}

		extractText := extractOptionalBoolParam(args, "extract_text", true)
		detectCTA := extractOptionalBoolParam(args, "detect_cta", true)
		// analyze_images is accepted for schema compatibility but the
		// snapshot pipeline is text-only.
		_ = extractOptionalBoolParam(args, "analyze_images", true)

		text, err := deps.Snapshot.VisibleText(ctx, snapshotURL)
		deps.Metrics.ObserveSnapshotFetch(err != nil)
		if err != nil {
			deps.Logger.Error("snapshot analysis failed", slog.String("url", snapshotURL), slog.String("error", err.Error()))
			return errorResult(err), nil
		}

		report := ads.CreativeReport{
			AdURL:   snapshotURL,
			AdID:    snapshot.ExtractAdID(snapshotURL),
			Success: true,
		}
		if extractText {
			report.Analysis.TextAnalysis = AnalyzeText(text)
		}
		if detectCTA {
			report.Analysis.CTAAnalysis = DetectCTAs(text)
		}

		report.SessionID = recordSessionArtifact(ctx, deps, args, "analyzed", map[string]interface{}{
			"ad_id": report.AdID,
			"url":   snapshotURL,
			"at":    time.Now().Format(time.RFC3339),
		})

		return textResult(report), nil
	}
}

// recordSessionArtifact persists a tool artifact into the caller's session,
// creating the session when needed. Returns the session ID used; session
// failures are logged but never fail the tool call.
func recordSessionArtifact(ctx context.Context, deps ToolDependencies, args map[string]interface{}, stage string, artifact map[string]interface{}) string {
	sessionID := extractOptionalStringParam(args, "session_id", "")
	if sessionID == "" {
		sessionID = session.GenerateSessionID()
	}

	if deps.Sessions == nil {
		return sessionID
	}

	if _, err := deps.Sessions.GetOrCreate(ctx, sessionID); err != nil {
		deps.Logger.Warn("session unavailable", slog.String("session_id", sessionID), slog.String("error", err.Error()))
		return sessionID
	}

	err := deps.Sessions.Update(ctx, sessionID, func(sess *domainsession.Session) error {
		if sess.Metadata == nil {
			sess.Metadata = make(map[string]interface{})
		}
		sess.Metadata["last_"+stage] = artifact
		sess.Stage = stage
		return nil
	})
	if err != nil {
		deps.Logger.Warn("failed to record session artifact", slog.String("session_id", sessionID), slog.String("error", err.Error()))
	}

	return sessionID
}

func createPingHandler(deps ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		message := extractOptionalStringParam(req.GetArguments(), "message", "")

		response := "pong"
		if message != "" {
			response = "pong: " + message
		}

		return textResult(map[string]interface{}{
			"response":  response,
			"timestamp": time.Now().Format(time.RFC3339),
		}), nil
	}
}

func createServerStatusHandler(deps ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		details := extractOptionalBoolParam(req.GetArguments(), "details", false)

		status := map[string]interface{}{
			"status": "running",
			"uptime": time.Since(serverStartTime).String(),
		}

		if details && deps.Sessions != nil {
			if sessions, err := deps.Sessions.List(ctx); err == nil {
				status["session_count"] = len(sessions)
			}
		}

		return textResult(status), nil
	}
}

func createListToolsHandler(deps ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tools := make([]map[string]interface{}, 0, len(toolConfigs))
		for _, config := range toolConfigs {
			tools = append(tools, map[string]interface{}{
				"name":        config.Name,
				"description": config.Description,
				"category":    config.Category,
			})
		}

		return textResult(map[string]interface{}{
			"tools": tools,
			"total": len(tools),
		}), nil
	}
}

// extractStringParam safely extracts a required string parameter
func extractStringParam(args map[string]interface{}, key string) (string, error) {
	value, exists := args[key]
	if !exists {
		return "", errors.Errorf("missing parameter: %s", key)
	}

	str, ok := value.(string)
	if !ok {
		return "", errors.Errorf("parameter %s must be a string", key)
	}
	if str == "" {
		return "", errors.Errorf("parameter %s cannot be empty", key)
	}

	return str, nil
}

// extractOptionalStringParam extracts an optional string parameter
func extractOptionalStringParam(args map[string]interface{}, key string, defaultValue string) string {
	value, exists := args[key]
	if !exists {
		return defaultValue
	}

	str, ok := value.(string)
	if !ok || str == "" {
		return defaultValue
	}

	return str
}

// extractOptionalIntParam extracts an optional integer parameter; JSON decodes
// numbers as float64, so both forms are accepted.
func extractOptionalIntParam(args map[string]interface{}, key string, defaultValue int) int {
	value, exists := args[key]
	if !exists {
		return defaultValue
	}

	switch v := value.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	}

	return defaultValue
}

// extractOptionalBoolParam extracts an optional boolean parameter
func extractOptionalBoolParam(args map[string]interface{}, key string, defaultValue bool) bool {
	value, exists := args[key]
	if !exists {
		return defaultValue
	}

	b, ok := value.(bool)
	if !ok {
		return defaultValue
	}

	return b
}
