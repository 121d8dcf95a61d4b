// ABOUTME: Builds the recall MCP server and runs it on stdio
// ABOUTME: Serve returns when the client disconnects or ctx is cancelled
package mcp

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/harper/omnirecall/internal/core"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// ServerName is the MCP implementation name advertised to clients
const ServerName = "omnirecall"

// NewServer creates an MCP server with every recall tool registered
func NewServer(engine *core.Engine, version string, logger *log.Logger) *mcpserver.MCPServer {
	server := mcpserver.NewMCPServer(
		ServerName,
		version,
		mcpserver.WithToolCapabilities(false),
	)
	RegisterTools(server, engine, logger)
	return server
}

// Serve runs server over stdio until it exits or ctx is done
func Serve(ctx context.Context, server *mcpserver.MCPServer, logger *log.Logger) error {
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		return nil
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}
