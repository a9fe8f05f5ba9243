// Package bootstrap provides server initialization and setup logic
package bootstrap

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/adintel/ads-library-mcp/pkg/domain/errors"
	"github.com/adintel/ads-library-mcp/pkg/service/config"
	"github.com/adintel/ads-library-mcp/pkg/service/tools"
)

// Bootstrapper handles server initialization and component registration
type Bootstrapper struct {
	logger *slog.Logger
	cfg    *config.Config
	deps   tools.ToolDependencies
}

// NewBootstrapper creates a new bootstrapper instance
func NewBootstrapper(logger *slog.Logger, cfg *config.Config, deps tools.ToolDependencies) *Bootstrapper {
	return &Bootstrapper{
		logger: logger,
		cfg:    cfg,
		deps:   deps,
	}
}

// CreateMCPServer creates a new mcp-go server with capabilities
func (b *Bootstrapper) CreateMCPServer() *server.MCPServer {
	return server.NewMCPServer(
		b.cfg.ServiceName,
		b.cfg.ServiceVersion,
		server.WithToolCapabilities(true),
		server.WithLogging(),
	)
}

// RegisterComponents registers all tools with the MCP server
func (b *Bootstrapper) RegisterComponents(mcpServer *server.MCPServer) error {
	if mcpServer == nil {
		return errors.New(errors.CodeInternalError, "bootstrapper", "mcp server not initialized", nil)
	}

	if err := tools.RegisterTools(mcpServer, b.deps); err != nil {
		return errors.New(errors.CodeToolExecutionFailed, "bootstrapper", "failed to register tools", err)
	}

	return nil
}
