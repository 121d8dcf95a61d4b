// ABOUTME: MCP command that serves recall tools to LLM agents over stdio
// ABOUTME: Shuts down cleanly on SIGINT or SIGTERM
package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/omnirecall/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs recall as an MCP (Model Context Protocol) server on stdio, exposing
index_document, semantic_search, get_relevant_context, list_documents,
remove_document, clear_index and get_index_stats.`,
		Args: cobra.NoArgs,
		RunE: runMCP,
		Example: `  # Start MCP server (typically launched by the MCP client)
  recall mcp

  # Client configuration:
  # {
  #   "mcpServers": {
  #     "recall": {
  #       "command": "recall",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

func runMCP(cmd *cobra.Command, args []string) error {
	engine, cfg, err := openEngine(cmd, true)
	if err != nil {
		return err
	}
	defer engine.Close()

	logger := newLogger(cmd.ErrOrStderr())
	if cfg.APIKey() == "" && cfg.Provider != "ollama" {
		logger.Warn("no API key configured; embedding calls will fail", "provider", cfg.Provider)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("MCP server starting on stdio", "db", cfg.DBPath)
	return mcp.Serve(ctx, mcp.NewServer(engine, versionInfo.Version, logger), logger)
}
