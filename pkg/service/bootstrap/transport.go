package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"
)

// ServeStdio runs the MCP server over stdin/stdout until the stream closes
func ServeStdio(mcpServer *server.MCPServer) error {
	return server.ServeStdio(mcpServer)
}

// HTTPTransport serves the MCP server over streamable HTTP
type HTTPTransport struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewHTTPTransport wraps the MCP server in a streamable HTTP handler with the
// CORS policy browser clients need (all origins, GET/POST/DELETE, and the
// Mcp-Session-Id header exposed for session resumption).
func NewHTTPTransport(mcpServer *server.MCPServer, port int, logger *slog.Logger) *HTTPTransport {
	streamable := server.NewStreamableHTTPServer(mcpServer,
		server.WithEndpointPath("/mcp"),
	)

	mux := http.NewServeMux()
	mux.Handle("/", withCORS(streamable))

	return &HTTPTransport{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger.With("component", "http-transport"),
	}
}

// Start serves until Shutdown is called
func (t *HTTPTransport) Start() error {
	t.logger.Info("streamable HTTP transport listening", "addr", t.httpServer.Addr)
	if err := t.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server gracefully
func (t *HTTPTransport) Shutdown(ctx context.Context) error {
	return t.httpServer.Shutdown(ctx)
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Expose-Headers", "Mcp-Session-Id")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
